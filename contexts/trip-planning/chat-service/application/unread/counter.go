package unread

import "sync"

// Counter tracks per-trip read positions on the receiving side. The server
// never stores read state; each client owns its own counter and feeds it the
// sequence numbers it has seen.
type Counter struct {
	mu       sync.Mutex
	lastRead map[string]int64
	latest   map[string]int64
}

func NewCounter() *Counter {
	return &Counter{
		lastRead: map[string]int64{},
		latest:   map[string]int64{},
	}
}

// Observe records that a message with the given sequence number arrived.
func (c *Counter) Observe(tripID string, sequence int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sequence > c.latest[tripID] {
		c.latest[tripID] = sequence
	}
}

// MarkRead moves the read position forward. Positions never move backwards.
func (c *Counter) MarkRead(tripID string, sequence int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sequence > c.lastRead[tripID] {
		c.lastRead[tripID] = sequence
	}
}

// Unread reports how many observed messages sit past the read position.
func (c *Counter) Unread(tripID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	unread := c.latest[tripID] - c.lastRead[tripID]
	if unread < 0 {
		return 0
	}
	return unread
}
