package transport

import (
	"sync"
	"sync/atomic"
)

// MemoryConn implements Conn using in-process channels.
// Useful for testing and single-process hosts.
//
// Locking: subscription channels are only closed under mu's write lock and
// only sent to under its read lock, so a Publish can never race a close.
type MemoryConn struct {
	config Config

	mu     sync.RWMutex
	subs   []*memorySub
	closed atomic.Bool

	rrMu sync.Mutex
	rr   map[string]int // queue name -> round-robin cursor
}

type memorySub struct {
	pattern string
	queue   string
	ch      chan *Message
	closed  atomic.Bool
	conn    *MemoryConn
}

// NewMemoryConn creates a new in-memory connection.
func NewMemoryConn(cfg Config) *MemoryConn {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}

	return &MemoryConn{
		config: cfg,
		rr:     make(map[string]int),
	}
}

// Publish sends a message to all matching subscribers.
func (c *MemoryConn) Publish(subject string, data []byte) error {
	if err := ValidateSubject(subject); err != nil {
		return err
	}
	msg := &Message{
		Subject: subject,
		Data:    data,
	}

	// Hold the read lock through delivery: trySend never blocks, and
	// Unsubscribe/Close need the write lock before they may close a
	// channel.
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed.Load() {
		return ErrClosed
	}

	var plain []*memorySub
	queues := make(map[string][]*memorySub)
	for _, sub := range c.subs {
		if sub.closed.Load() || !MatchSubject(sub.pattern, subject) {
			continue
		}
		if sub.queue == "" {
			plain = append(plain, sub)
		} else {
			queues[sub.queue] = append(queues[sub.queue], sub)
		}
	}

	for _, sub := range plain {
		sub.trySend(msg)
	}
	for queue, members := range queues {
		c.deliverToQueue(queue, members, msg)
	}

	return nil
}

// deliverToQueue sends to one member of a queue group, rotating the
// starting point so members share the load.
func (c *MemoryConn) deliverToQueue(queue string, members []*memorySub, msg *Message) {
	// Separate lock: the caller already holds mu's read lock.
	c.rrMu.Lock()
	start := c.rr[queue] % len(members)
	c.rr[queue]++
	c.rrMu.Unlock()

	for i := 0; i < len(members); i++ {
		if members[(start+i)%len(members)].trySend(msg) {
			return
		}
	}
}

// trySend delivers without blocking; a full buffer drops the message.
func (s *memorySub) trySend(msg *Message) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Subscribe creates a subscription to a subject pattern.
func (c *MemoryConn) Subscribe(subject string) (Subscription, error) {
	return c.subscribe(subject, "")
}

// QueueSubscribe creates a queue subscription.
func (c *MemoryConn) QueueSubscribe(subject, queue string) (Subscription, error) {
	if queue == "" {
		return nil, ErrInvalidQueue
	}
	return c.subscribe(subject, queue)
}

func (c *MemoryConn) subscribe(subject, queue string) (Subscription, error) {
	if err := ValidateSubject(subject); err != nil {
		return nil, err
	}
	if c.closed.Load() {
		return nil, ErrClosed
	}

	sub := &memorySub{
		pattern: subject,
		queue:   queue,
		ch:      make(chan *Message, c.config.BufferSize),
		conn:    c,
	}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	return sub, nil
}

// Close shuts down the connection and all subscriptions.
func (c *MemoryConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return nil
	}

	for _, sub := range c.subs {
		if !sub.closed.Swap(true) {
			close(sub.ch)
		}
	}
	c.subs = nil

	return nil
}

// Messages returns the message channel.
func (s *memorySub) Messages() <-chan *Message {
	return s.ch
}

// Unsubscribe cancels the subscription.
func (s *memorySub) Unsubscribe() error {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}

	for i, sub := range s.conn.subs {
		if sub == s {
			s.conn.subs = append(s.conn.subs[:i], s.conn.subs[i+1:]...)
			break
		}
	}

	close(s.ch)
	return nil
}
