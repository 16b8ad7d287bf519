package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape used across tripforge. Context
// services emit it through their outbox; the relay and the fan-out bus carry
// it as-is.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Event types emitted by tripforge services. The partition key is always the
// trip id so trip-scoped consumers observe a stable stream.
const (
	TypeVoteRecorded         = "trip.vote.recorded"
	TypeSelectionFinalized   = "trip.selection.finalized"
	TypeSelectionUnfinalized = "trip.selection.unfinalized"
	TypeMemberJoined         = "trip.member.joined"
	TypeMemberLeft           = "trip.member.left"
	TypePreferencesUpdated   = "trip.preferences.updated"
	TypeMessagePosted        = "trip.message.posted"
	TypeTypingPing           = "trip.typing.ping"
	TypeArtifactUpdated      = "trip.artifact.updated"
)

// Client-facing fan-out channels, scoped per trip.
const (
	ChannelVotes      = "votes"
	ChannelMessages   = "messages"
	ChannelMembership = "membership"
	ChannelTyping     = "typing"
	ChannelArtifacts  = "artifacts"
)

// ChannelFor maps an event type to the trip-scoped channel it is delivered
// on. Unknown types fall back to the votes channel so nothing is silently
// dropped.
func ChannelFor(eventType string) string {
	switch eventType {
	case TypeVoteRecorded, TypeSelectionFinalized, TypeSelectionUnfinalized:
		return ChannelVotes
	case TypeMessagePosted:
		return ChannelMessages
	case TypeMemberJoined, TypeMemberLeft, TypePreferencesUpdated:
		return ChannelMembership
	case TypeTypingPing:
		return ChannelTyping
	case TypeArtifactUpdated:
		return ChannelArtifacts
	default:
		return ChannelVotes
	}
}

// TripTopic names the per-trip bus topic for a channel.
func TripTopic(tripID string, channel string) string {
	return "trip." + tripID + "." + channel
}

// FanOutTopics lists every topic an envelope is published to: the global
// event-type topic for internal consumers plus the trip-scoped channel topic
// for connected clients.
func FanOutTopics(env Envelope) []string {
	topics := []string{env.EventType}
	if env.PartitionKey != "" {
		topics = append(topics, TripTopic(env.PartitionKey, ChannelFor(env.EventType)))
	}
	return topics
}
