package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
	"tripforge/contexts/trip-planning/artifact-service/ports"
)

// Store is an in-memory implementation of every artifact-service port,
// including a scripted generation backend for tests.
type Store struct {
	mu sync.Mutex

	artifacts  map[string]entities.Artifact
	candidates []entities.CandidateOption
	snapshots  map[string]ports.TripSnapshot
	unanimous  map[string]map[entities.Category][]string
	finalized  map[string]map[entities.Category][]string
	rejections map[string]string
	outbox     []ports.EventEnvelope

	generatedArtifact json.RawMessage
	generatedDrafts   []ports.CandidateDraft
	generationErr     error
	generationCalls   int
	candidateCalls    int
	lastGeneration    ports.GenerationRequest
	lastCandidate     ports.CandidateRequest
}

func NewStore() *Store {
	return &Store{
		artifacts:         map[string]entities.Artifact{},
		snapshots:         map[string]ports.TripSnapshot{},
		unanimous:         map[string]map[entities.Category][]string{},
		finalized:         map[string]map[entities.Category][]string{},
		rejections:        map[string]string{},
		generatedArtifact: json.RawMessage(`{"stub":true}`),
	}
}

func artifactKey(tripID string, kind entities.Kind) string {
	return tripID + "|" + string(kind)
}

func (s *Store) GetArtifact(_ context.Context, tripID string, kind entities.Kind) (entities.Artifact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact, ok := s.artifacts[artifactKey(tripID, kind)]
	return artifact, ok, nil
}

func (s *Store) SaveArtifact(_ context.Context, artifact entities.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[artifactKey(artifact.TripID, artifact.Kind)] = artifact
	return nil
}

func (s *Store) ReplaceBatch(_ context.Context, tripID string, category entities.Category, _ string, options []entities.CandidateOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.candidates {
		if s.candidates[i].TripID == tripID && s.candidates[i].Category == category {
			s.candidates[i].Live = false
		}
	}
	s.candidates = append(s.candidates, options...)
	return nil
}

func (s *Store) ListLiveOptions(_ context.Context, tripID string, category entities.Category) ([]entities.CandidateOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.CandidateOption
	for _, option := range s.candidates {
		if option.TripID == tripID && option.Category == category && option.Live {
			out = append(out, option)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) CountLiveOptions(_ context.Context, tripID string) (map[entities.Category]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[entities.Category]int{}
	for _, option := range s.candidates {
		if option.TripID == tripID && option.Live {
			counts[option.Category]++
		}
	}
	return counts, nil
}

// AllOptions returns every stored option, live or not. Test helper.
func (s *Store) AllOptions(tripID string, category entities.Category) []entities.CandidateOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.CandidateOption
	for _, option := range s.candidates {
		if option.TripID == tripID && option.Category == category {
			out = append(out, option)
		}
	}
	return out
}

func (s *Store) TripSnapshot(_ context.Context, tripID string) (ports.TripSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[tripID]
	return snapshot, ok, nil
}

func (s *Store) SetSnapshot(snapshot ports.TripSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.TripID] = snapshot
}

func (s *Store) UnanimousOptionIDs(_ context.Context, tripID string) (map[entities.Category][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unanimous[tripID], nil
}

func (s *Store) SetUnanimous(tripID string, ids map[entities.Category][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unanimous[tripID] = ids
}

func (s *Store) FinalizedSelections(_ context.Context, tripID string) (map[entities.Category][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized[tripID], nil
}

func (s *Store) SetFinalized(tripID string, ids map[entities.Category][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized[tripID] = ids
}

func (s *Store) RejectionContext(_ context.Context, tripID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.rejections[tripID]
	return text, ok && text != "", nil
}

func (s *Store) SetRejectionContext(tripID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections[tripID] = text
}

func (s *Store) GenerateArtifact(_ context.Context, req ports.GenerationRequest) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generationCalls++
	s.lastGeneration = req
	if s.generationErr != nil {
		return nil, s.generationErr
	}
	return s.generatedArtifact, nil
}

func (s *Store) GenerateCandidates(_ context.Context, req ports.CandidateRequest) ([]ports.CandidateDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidateCalls++
	s.lastCandidate = req
	if s.generationErr != nil {
		return nil, s.generationErr
	}
	if s.generatedDrafts != nil {
		return s.generatedDrafts, nil
	}
	drafts := make([]ports.CandidateDraft, req.Count)
	for i := range drafts {
		drafts[i] = ports.CandidateDraft{Payload: json.RawMessage(`{"stub":true}`)}
	}
	return drafts, nil
}

func (s *Store) SetGeneratedArtifact(content json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatedArtifact = content
}

func (s *Store) SetGeneratedDrafts(drafts []ports.CandidateDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatedDrafts = drafts
}

func (s *Store) FailGeneration(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		s.generationErr = nil
		return
	}
	s.generationErr = errors.New(message)
}

func (s *Store) GenerationCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generationCalls
}

func (s *Store) LastGenerationRequest() ports.GenerationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGeneration
}

func (s *Store) LastCandidateRequest() ports.CandidateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCandidate
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
