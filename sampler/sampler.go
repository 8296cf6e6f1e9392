// Package sampler provides diagnostic samplers for hang monitoring.
//
// A sampler maps a hung component to an opaque profile — typically a stack
// capture — attached to permanent alerts. The monitor core depends only on
// the hang.Sampler contract and serializes every invocation process-wide;
// implementations here need not guard against concurrent entry.
package sampler

import (
	"errors"

	"github.com/vigilkit/hangwatch/hang"
)

// ErrNoSample indicates the sampler had nothing to capture.
var ErrNoSample = errors.New("no sample available")

// Func adapts a function to the hang.Sampler interface.
type Func func(id hang.ComponentID) (hang.Profile, error)

// Sample implements hang.Sampler.
func (f Func) Sample(id hang.ComponentID) (hang.Profile, error) {
	return f(id)
}

// Static always returns the given profile. Useful in tests.
func Static(profile hang.Profile) hang.Sampler {
	return Func(func(hang.ComponentID) (hang.Profile, error) {
		return profile, nil
	})
}

// Failing always returns the given error. Useful in tests.
func Failing(err error) hang.Sampler {
	return Func(func(hang.ComponentID) (hang.Profile, error) {
		return nil, err
	})
}
