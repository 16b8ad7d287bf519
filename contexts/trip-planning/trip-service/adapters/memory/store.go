package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripforge/contexts/trip-planning/trip-service/domain/entities"
	"tripforge/contexts/trip-planning/trip-service/ports"
)

// Store is an in-memory implementation of every trip-service port.
type Store struct {
	mu          sync.Mutex
	trips       map[string]entities.Trip
	members     map[string]entities.Member
	preferences map[string]entities.PreferenceRecord
	outbox      []ports.EventEnvelope
}

func NewStore() *Store {
	return &Store{
		trips:       map[string]entities.Trip{},
		members:     map[string]entities.Member{},
		preferences: map[string]entities.PreferenceRecord{},
	}
}

func memberKey(tripID, memberID string) string {
	return tripID + "|" + memberID
}

func (s *Store) CreateTrip(_ context.Context, trip entities.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.TripID] = trip
	return nil
}

func (s *Store) GetTrip(_ context.Context, tripID string) (entities.Trip, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[tripID]
	return trip, ok, nil
}

func (s *Store) UpdateTrip(_ context.Context, trip entities.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.TripID] = trip
	return nil
}

func (s *Store) DeleteTrip(_ context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trips, tripID)
	for key, member := range s.members {
		if member.TripID == tripID {
			delete(s.members, key)
		}
	}
	for key, record := range s.preferences {
		if record.TripID == tripID {
			delete(s.preferences, key)
		}
	}
	return nil
}

func (s *Store) AddMember(_ context.Context, member entities.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[memberKey(member.TripID, member.MemberID)] = member
	return nil
}

func (s *Store) GetMember(_ context.Context, tripID string, memberID string) (entities.Member, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[memberKey(tripID, memberID)]
	return member, ok, nil
}

func (s *Store) GetMemberByAccount(_ context.Context, tripID string, accountID string) (entities.Member, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, member := range s.members {
		if member.TripID == tripID && member.AccountID == accountID {
			return member, true, nil
		}
	}
	return entities.Member{}, false, nil
}

func (s *Store) RemoveMember(_ context.Context, tripID string, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, memberKey(tripID, memberID))
	return nil
}

func (s *Store) ListMembers(_ context.Context, tripID string) ([]entities.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Member
	for _, member := range s.members {
		if member.TripID == tripID {
			out = append(out, member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (s *Store) UpsertPreference(_ context.Context, record entities.PreferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[memberKey(record.TripID, record.MemberID)] = record
	return nil
}

func (s *Store) ListPreferences(_ context.Context, tripID string) ([]entities.PreferenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.PreferenceRecord
	for _, record := range s.preferences {
		if record.TripID == tripID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (s *Store) RemovePreference(_ context.Context, tripID string, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.preferences, memberKey(tripID, memberID))
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, event)
	return nil
}

func (s *Store) OutboxEvents() []ports.EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.EventEnvelope, len(s.outbox))
	copy(out, s.outbox)
	return out
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator issues random UUIDv4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
