package transcript

import (
	"time"

	"github.com/amirjon-1/interview-backend/internal/model/transcript"
)

// Build assembles the canonical document from one session's accumulated turns
// and participants. Boundary timestamps come from the first and last turn in
// arrival order, whether or not timestamps are monotonic.
func Build(turns []transcript.Turn, participants map[transcript.Role]transcript.Participant, now time.Time) transcript.Document {
	var startedAt, endedAt *string
	if len(turns) > 0 {
		startedAt = turns[0].Timestamp
		endedAt = turns[len(turns)-1].Timestamp
	}

	copied := make([]transcript.Turn, len(turns))
	copy(copied, turns)

	participantsCopy := make(map[transcript.Role]transcript.Participant, len(participants))
	for role, p := range participants {
		participantsCopy[role] = p
	}

	return transcript.Document{
		Version: transcript.Version,
		Metadata: transcript.Metadata{
			GeneratedAt:  now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			StartedAt:    startedAt,
			EndedAt:      endedAt,
			MessageCount: len(copied),
			Source:       transcript.SourceLiveKitSession,
		},
		Participants: participantsCopy,
		Turns:        copied,
	}
}
