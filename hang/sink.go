package hang

import (
	"errors"

	herr "github.com/vigilkit/hangwatch/errors"
	"github.com/vigilkit/hangwatch/transport"
)

// ChanSink delivers alerts to a buffered channel for in-process consumers.
// Send never blocks; when the consumer falls behind, alerts are dropped
// with ErrSinkFull and the monitor logs the loss.
type ChanSink struct {
	ch chan *Alert
}

// NewChanSink creates a channel sink. A non-positive buffer defaults to 64.
func NewChanSink(buffer int) *ChanSink {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChanSink{ch: make(chan *Alert, buffer)}
}

// Alerts returns the receive side of the sink.
func (s *ChanSink) Alerts() <-chan *Alert {
	return s.ch
}

// Send implements Sink.
func (s *ChanSink) Send(a *Alert) error {
	select {
	case s.ch <- a:
		return nil
	default:
		return ErrSinkFull
	}
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*Alert) error

// Send implements Sink.
func (f SinkFunc) Send(a *Alert) error {
	return f(a)
}

// MultiSink fans an alert out to several sinks. One failing sink never
// prevents delivery to the others; Send returns the joined errors.
type MultiSink []Sink

// Send implements Sink.
func (m MultiSink) Send(a *Alert) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BusSink publishes serialized alerts to a transport, for consumers in
// other goroutines or other processes. Subjects follow Alert.Subject:
// hang.alert.<runner>.<kind>.
type BusSink struct {
	pub transport.Publisher
}

// NewBusSink creates a sink over a transport publisher.
func NewBusSink(pub transport.Publisher) *BusSink {
	return &BusSink{pub: pub}
}

// Send implements Sink.
func (s *BusSink) Send(a *Alert) error {
	data, err := a.Marshal()
	if err != nil {
		return herr.WrapWithCode(err, herr.CodeSerializeFailed, "marshal alert",
			herr.WithComponent(a.Component.String()))
	}
	if err := s.pub.Publish(a.Subject(), data); err != nil {
		return herr.WrapWithCode(err, herr.CodeDeliveryFailed, "publish alert",
			herr.WithComponent(a.Component.String()))
	}
	return nil
}
