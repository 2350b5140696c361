package transcript

import (
	"testing"
	"time"

	model "github.com/amirjon-1/interview-backend/internal/model/transcript"
)

func strPtr(v string) *string { return &v }

func TestBuildBoundariesFollowArrivalOrder(t *testing.T) {
	// Timestamps deliberately non-monotonic: boundaries come from position,
	// not ordering.
	turns := []model.Turn{
		{Role: model.RoleUser, Text: "first", Timestamp: strPtr("2024-01-01T00:00:30.000Z")},
		{Role: model.RoleAgent, Text: "second", Timestamp: strPtr("2024-01-01T00:00:10.000Z")},
		{Role: model.RoleUser, Text: "third", Timestamp: strPtr("2024-01-01T00:00:20.000Z")},
	}

	doc := Build(turns, nil, time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC))

	if doc.Metadata.StartedAt == nil || *doc.Metadata.StartedAt != "2024-01-01T00:00:30.000Z" {
		t.Fatalf("unexpected startedAt: %v", doc.Metadata.StartedAt)
	}
	if doc.Metadata.EndedAt == nil || *doc.Metadata.EndedAt != "2024-01-01T00:00:20.000Z" {
		t.Fatalf("unexpected endedAt: %v", doc.Metadata.EndedAt)
	}
	if doc.Metadata.MessageCount != 3 {
		t.Fatalf("expected messageCount 3, got %d", doc.Metadata.MessageCount)
	}
	if doc.Metadata.GeneratedAt != "2024-01-01T00:01:00.000Z" {
		t.Fatalf("unexpected generatedAt: %s", doc.Metadata.GeneratedAt)
	}
}

func TestBuildEmptyTurns(t *testing.T) {
	doc := Build(nil, nil, time.Now())

	if doc.Metadata.StartedAt != nil || doc.Metadata.EndedAt != nil {
		t.Fatal("expected nil boundaries for empty turn list")
	}
	if doc.Metadata.MessageCount != 0 {
		t.Fatalf("expected messageCount 0, got %d", doc.Metadata.MessageCount)
	}
	if len(doc.Turns) != 0 {
		t.Fatalf("expected no turns, got %d", len(doc.Turns))
	}
}

func TestBuildVersionAndSource(t *testing.T) {
	doc := Build(nil, nil, time.Now())

	if doc.Version != model.Version {
		t.Fatalf("expected version %d, got %d", model.Version, doc.Version)
	}
	if doc.Metadata.Source != model.SourceLiveKitSession {
		t.Fatalf("unexpected source: %s", doc.Metadata.Source)
	}
}

func TestBuildCopiesInputs(t *testing.T) {
	turns := []model.Turn{{Role: model.RoleUser, Text: "hello"}}
	participants := map[model.Role]model.Participant{
		model.RoleUser: {Name: "Alice"},
	}

	doc := Build(turns, participants, time.Now())

	turns[0].Text = "mutated"
	participants[model.RoleUser] = model.Participant{Name: "Mallory"}

	if doc.Turns[0].Text != "hello" {
		t.Fatalf("expected turns copied, got %q", doc.Turns[0].Text)
	}
	if doc.Participants[model.RoleUser].Name != "Alice" {
		t.Fatalf("expected participants copied, got %+v", doc.Participants)
	}
}
