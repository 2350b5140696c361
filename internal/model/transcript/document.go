package transcript

// Role identifies who produced a turn.
type Role string

const (
	RoleUser    Role = "user"
	RoleAgent   Role = "agent"
	RoleUnknown Role = "unknown"
)

// Version is the current transcript document schema version.
const Version = 2

// SourceLiveKitSession tags documents produced from the realtime transport.
const SourceLiveKitSession = "livekit-session"

// Turn is one cleaned utterance. Turns are immutable once created and keep
// the arrival order of the underlying event stream.
type Turn struct {
	Role      Role    `json:"role"`
	Text      string  `json:"text"`
	Timestamp *string `json:"timestamp"`
	Kind      string  `json:"type"`
}

// Participant carries the first non-empty name and identity seen for a role.
type Participant struct {
	Name     string `json:"name,omitempty"`
	Identity string `json:"identity,omitempty"`
}

// Metadata describes a finished session.
type Metadata struct {
	GeneratedAt  string  `json:"generatedAt"`
	StartedAt    *string `json:"startedAt"`
	EndedAt      *string `json:"endedAt"`
	MessageCount int     `json:"messageCount"`
	Source       string  `json:"source"`
}

// Document is the canonical, serializable unit of record for one session.
type Document struct {
	Version      int                  `json:"version"`
	Metadata     Metadata             `json:"metadata"`
	Participants map[Role]Participant `json:"participants"`
	Turns        []Turn               `json:"turns"`
}
