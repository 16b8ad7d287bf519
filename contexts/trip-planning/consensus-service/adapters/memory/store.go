package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tripforge/contexts/trip-planning/consensus-service/domain/entities"
	"tripforge/contexts/trip-planning/consensus-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter used by tests and local development. It
// implements every consensus port plus seed setters for the projections the
// service reads but does not own.
type Store struct {
	mu sync.RWMutex

	votes      map[string]entities.Vote
	selections map[string]entities.FinalizedSelection
	outbox     []ports.EventEnvelope

	trips   map[string]struct{}
	members map[string]map[string]struct{}
	options map[string]struct{}
}

func NewStore(seed []entities.Vote) *Store {
	votes := make(map[string]entities.Vote, len(seed))
	for _, vote := range seed {
		votes[voteKey(vote.TripID, vote.MemberID, vote.Category, vote.OptionID)] = vote
	}
	return &Store{
		votes:      votes,
		selections: make(map[string]entities.FinalizedSelection),
		trips:      make(map[string]struct{}),
		members:    make(map[string]map[string]struct{}),
		options:    make(map[string]struct{}),
	}
}

func (s *Store) SetTrip(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[strings.TrimSpace(tripID)] = struct{}{}
}

func (s *Store) SetMember(tripID string, memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tripID = strings.TrimSpace(tripID)
	if s.members[tripID] == nil {
		s.members[tripID] = make(map[string]struct{})
	}
	s.members[tripID][strings.TrimSpace(memberID)] = struct{}{}
}

func (s *Store) RemoveMember(tripID string, memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[strings.TrimSpace(tripID)], strings.TrimSpace(memberID))
}

func (s *Store) SetOption(tripID string, category entities.Category, optionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[optionKey(tripID, category, optionID)] = struct{}{}
}

// OutboxEvents returns appended envelopes in append order.
func (s *Store) OutboxEvents() []ports.EventEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.EventEnvelope(nil), s.outbox...)
}

func (s *Store) UpsertVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey(vote.TripID, vote.MemberID, vote.Category, vote.OptionID)] = vote
	return nil
}

func (s *Store) GetVote(_ context.Context, tripID string, memberID string, category entities.Category, optionID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteKey(tripID, memberID, category, optionID)]
	return vote, ok, nil
}

func (s *Store) ListVotesByOption(_ context.Context, tripID string, category entities.Category, optionID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.TripID == strings.TrimSpace(tripID) && vote.Category == category && vote.OptionID == strings.TrimSpace(optionID) {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func (s *Store) ListVotesByTrip(_ context.Context, tripID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.TripID == strings.TrimSpace(tripID) {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func (s *Store) ReplaceSelection(_ context.Context, selection entities.FinalizedSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, existing := range s.selections {
		if existing.TripID == selection.TripID && existing.Category == selection.Category {
			delete(s.selections, key)
		}
	}
	s.selections[selectionKey(selection.TripID, selection.Category, selection.OptionID)] = selection
	return nil
}

func (s *Store) AddSelection(_ context.Context, selection entities.FinalizedSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := selectionKey(selection.TripID, selection.Category, selection.OptionID)
	if _, ok := s.selections[key]; ok {
		return nil
	}
	s.selections[key] = selection
	return nil
}

func (s *Store) RemoveSelection(_ context.Context, tripID string, category entities.Category, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, selectionKey(tripID, category, optionID))
	return nil
}

func (s *Store) ListSelections(_ context.Context, tripID string) ([]entities.FinalizedSelection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.FinalizedSelection, 0)
	for _, selection := range s.selections {
		if selection.TripID == strings.TrimSpace(tripID) {
			items = append(items, selection)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].OptionID < items[j].OptionID
	})
	return items, nil
}

func (s *Store) TripExists(_ context.Context, tripID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.trips[strings.TrimSpace(tripID)]
	return ok, nil
}

func (s *Store) MemberExists(_ context.Context, tripID string, memberID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[strings.TrimSpace(tripID)][strings.TrimSpace(memberID)]
	return ok, nil
}

func (s *Store) CountMembers(_ context.Context, tripID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members[strings.TrimSpace(tripID)]), nil
}

func (s *Store) OptionLive(_ context.Context, tripID string, category entities.Category, optionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.options[optionKey(tripID, category, optionID)]
	return ok, nil
}

func (s *Store) AppendOutbox(_ context.Context, env ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, env)
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) Now() time.Time { return time.Now().UTC() }

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func voteKey(tripID string, memberID string, category entities.Category, optionID string) string {
	return strings.TrimSpace(tripID) + "|" + strings.TrimSpace(memberID) + "|" + string(category) + "|" + strings.TrimSpace(optionID)
}

func selectionKey(tripID string, category entities.Category, optionID string) string {
	return strings.TrimSpace(tripID) + "|" + string(category) + "|" + strings.TrimSpace(optionID)
}

func optionKey(tripID string, category entities.Category, optionID string) string {
	return strings.TrimSpace(tripID) + "|" + string(category) + "|" + strings.TrimSpace(optionID)
}

func sortVotes(items []entities.Vote) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		if items[i].OptionID != items[j].OptionID {
			return items[i].OptionID < items[j].OptionID
		}
		return items[i].MemberID < items[j].MemberID
	})
}
