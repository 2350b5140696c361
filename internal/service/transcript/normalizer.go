package transcript

import (
	"strings"
	"time"

	"github.com/amirjon-1/interview-backend/internal/model/transcript"
)

// Stream event tags produced by the realtime transport.
const (
	KindAgentTranscript = "agentTranscript"
	KindUserTranscript  = "userTranscript"
)

// JavaScript Date covers ±8.64e15 ms around the epoch; anything outside is
// not a representable instant.
const maxEpochMillis = 8_640_000_000_000_000

// Sender carries transport-level metadata about the message author.
type Sender struct {
	Name     string `json:"name,omitempty"`
	Identity string `json:"identity,omitempty"`
	IsAgent  bool   `json:"isAgent,omitempty"`
	IsLocal  bool   `json:"isLocal,omitempty"`
}

// StreamEvent is one raw message as delivered by the realtime transport.
type StreamEvent struct {
	Kind      string  `json:"type"`
	Text      string  `json:"text"`
	Timestamp *int64  `json:"timestamp,omitempty"`
	From      *Sender `json:"from,omitempty"`
}

// ClassifyRole resolves who authored the event. The origin tag always wins
// over sender flags.
func ClassifyRole(ev StreamEvent) transcript.Role {
	switch ev.Kind {
	case KindAgentTranscript:
		return transcript.RoleAgent
	case KindUserTranscript:
		return transcript.RoleUser
	}
	if ev.From != nil && ev.From.IsAgent {
		return transcript.RoleAgent
	}
	if ev.From != nil && ev.From.IsLocal {
		return transcript.RoleUser
	}
	return transcript.RoleUnknown
}

// Normalize cleans one raw event into a turn. Events whose text trims to
// nothing produce no turn at all.
func Normalize(ev StreamEvent) (transcript.Turn, bool) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return transcript.Turn{}, false
	}

	return transcript.Turn{
		Role:      ClassifyRole(ev),
		Text:      text,
		Timestamp: isoTimestamp(ev.Timestamp),
		Kind:      ev.Kind,
	}, true
}

// isoTimestamp converts epoch milliseconds to an ISO-8601 string, or nil when
// the value is absent or not a representable instant.
func isoTimestamp(millis *int64) *string {
	if millis == nil {
		return nil
	}
	if *millis > maxEpochMillis || *millis < -maxEpochMillis {
		return nil
	}
	iso := time.UnixMilli(*millis).UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return &iso
}

// MergeParticipant records the sender's name and identity for a role. The
// first non-empty value wins; later events never overwrite.
func MergeParticipant(participants map[transcript.Role]transcript.Participant, role transcript.Role, from *Sender) {
	if from == nil {
		return
	}

	name := strings.TrimSpace(from.Name)
	identity := strings.TrimSpace(from.Identity)
	if name == "" && identity == "" {
		return
	}

	p := participants[role]
	if p.Name == "" {
		p.Name = name
	}
	if p.Identity == "" {
		p.Identity = identity
	}
	participants[role] = p
}
