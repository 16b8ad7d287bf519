package presence

import (
	"sort"
	"sync"
	"time"
)

const defaultTTL = 3 * time.Second

// Tracker keeps receiver-side typing state. Each ping refreshes the member's
// expiry; members drop out of Active once the TTL passes without another
// ping. There is no explicit stop signal.
type Tracker struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]map[string]time.Time
}

func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Tracker{
		ttl:     ttl,
		entries: map[string]map[string]time.Time{},
	}
}

// Ping records a typing notification observed at the given time.
func (t *Tracker) Ping(tripID string, memberID string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	trip, ok := t.entries[tripID]
	if !ok {
		trip = map[string]time.Time{}
		t.entries[tripID] = trip
	}
	trip[memberID] = at.Add(t.ttl)
}

// Active lists members whose last ping has not expired, sorted for stable
// rendering. Expired entries are pruned on the way out.
func (t *Tracker) Active(tripID string, now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	trip, ok := t.entries[tripID]
	if !ok {
		return nil
	}
	var active []string
	for memberID, expiry := range trip {
		if now.Before(expiry) {
			active = append(active, memberID)
		} else {
			delete(trip, memberID)
		}
	}
	if len(trip) == 0 {
		delete(t.entries, tripID)
	}
	sort.Strings(active)
	return active
}
