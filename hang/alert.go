package hang

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubjectPrefix is the subject prefix for alerts published to a transport.
const SubjectPrefix = "hang.alert."

// Severity is the escalation stage of an alert.
type Severity string

const (
	// SeverityTransient is the first-stage alert: the short timeout
	// elapsed with no reported activity.
	SeverityTransient Severity = "transient"

	// SeverityPermanent is the second-stage alert: the long timeout
	// elapsed; carries a diagnostic profile.
	SeverityPermanent Severity = "permanent"
)

// Alert is a single hang notification.
type Alert struct {
	// ID uniquely identifies this alert.
	ID string `json:"id"`

	// Component that stopped reporting activity.
	Component ComponentID `json:"component"`

	// Severity of the escalation.
	Severity Severity `json:"severity"`

	// Annotation the component supplied with its last activity.
	Annotation Annotation `json:"annotation,omitempty"`

	// Profile captured at permanent escalation. Empty for transient
	// alerts and for failed captures.
	Profile Profile `json:"profile,omitempty"`

	// Elapsed is the silence observed when the alert was raised.
	Elapsed time.Duration `json:"elapsed"`

	// EmittedAt is when the monitor raised the alert.
	EmittedAt time.Time `json:"emitted_at"`
}

// newAlert stamps identity and time onto an alert.
func newAlert(id ComponentID, severity Severity, annotation Annotation, profile Profile, elapsed time.Duration) *Alert {
	return &Alert{
		ID:         uuid.NewString(),
		Component:  id,
		Severity:   severity,
		Annotation: annotation,
		Profile:    profile,
		Elapsed:    elapsed,
		EmittedAt:  time.Now(),
	}
}

// Marshal serializes an alert to JSON.
func (a *Alert) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

// Unmarshal deserializes an alert from JSON.
func Unmarshal(data []byte) (*Alert, error) {
	var a Alert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Subject returns the transport subject for this alert:
// hang.alert.<runner>.<kind>
func (a *Alert) Subject() string {
	return SubjectPrefix + a.Component.Runner + "." + a.Component.Kind
}
