// Package transport provides one-way message delivery for hang alerts.
//
// The Conn interface carries serialized alerts from a monitor to consumers
// that may live in another goroutine or another process. Delivery is
// fire-and-forget: publishing never blocks and there is no request/reply.
// Backends: in-process channels (MemoryConn) and NATS (NATSConn).
package transport

import (
	"errors"
	"strings"
)

// Common errors.
var (
	ErrClosed         = errors.New("transport closed")
	ErrInvalidSubject = errors.New("invalid subject")
	ErrInvalidQueue   = errors.New("invalid queue name")
)

// Message represents a message received from the transport.
type Message struct {
	// Subject the message was published to.
	Subject string

	// Data is the message payload.
	Data []byte
}

// Publisher is the sending half of a connection. The monitor's bus sink
// depends only on this.
type Publisher interface {
	// Publish sends a message to all subscribers of a subject.
	// It must not block; slow consumers lose messages.
	Publish(subject string, data []byte) error
}

// Conn provides one-way pub/sub messaging.
type Conn interface {
	Publisher

	// Subscribe creates a subscription to a subject pattern.
	// All subscribers receive all matching messages.
	Subscribe(subject string) (Subscription, error)

	// QueueSubscribe creates a queue subscription.
	// Messages are load-balanced across members of the same queue.
	QueueSubscribe(subject, queue string) (Subscription, error)

	// Close shuts down the connection.
	Close() error
}

// Subscription represents an active subscription.
type Subscription interface {
	// Messages returns the channel for incoming messages.
	// Channel is closed when the subscription ends.
	Messages() <-chan *Message

	// Unsubscribe cancels the subscription.
	Unsubscribe() error
}

// Config holds common transport configuration.
type Config struct {
	// BufferSize for subscription channels.
	// Default: 256
	BufferSize int
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize: 256,
	}
}

// ValidateSubject checks if a subject is valid.
func ValidateSubject(subject string) error {
	if subject == "" {
		return ErrInvalidSubject
	}
	if strings.ContainsAny(subject, " \t\r\n") {
		return ErrInvalidSubject
	}
	return nil
}

// MatchSubject reports whether a NATS-style pattern matches a subject.
// "*" matches exactly one token, a trailing ">" matches one or more.
// Patterns without wildcards require an exact match.
func MatchSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}

	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, p := range pt {
		switch p {
		case ">":
			// Tail wildcard must be last and match at least one token.
			return i == len(pt)-1 && len(st) > i
		case "*":
			if i >= len(st) {
				return false
			}
		default:
			if i >= len(st) || st[i] != p {
				return false
			}
		}
	}
	return len(pt) == len(st)
}
