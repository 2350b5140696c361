package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
)

type failingStore struct {
	interview.Store
}

func (failingStore) InsertInterview(context.Context, *interview.Interview) error {
	return errors.New("database unavailable")
}

type memObjects struct {
	objects map[string][]byte
	fail    error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte)}
}

func (m *memObjects) Put(_ context.Context, key string, data []byte) error {
	if m.fail != nil {
		return m.fail
	}
	if _, exists := m.objects[key]; exists {
		return errors.New("object already exists")
	}
	m.objects[key] = data
	return nil
}

const submittedDoc = `{
	"version": 2,
	"metadata": {
		"generatedAt": "2024-01-01T00:00:10Z",
		"startedAt": "2024-01-01T00:00:00Z",
		"endedAt": "2024-01-01T00:00:05Z",
		"messageCount": 2,
		"source": "livekit-session"
	},
	"participants": {},
	"turns": [
		{"role": "user", "text": "hello", "timestamp": "2024-01-01T00:00:00Z", "type": "userTranscript"},
		{"role": "agent", "text": "hi there", "timestamp": "2024-01-01T00:00:05Z", "type": "agentTranscript"}
	]
}`

func newTestService(t *testing.T, store interview.Store, objects ObjectStore) (*Service, string) {
	t.Helper()
	dir := t.TempDir()

	svc := NewService(store, NewBackupDir(dir), objects, logger.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC) }
	svc.suffix = func() string { return "abcd1234" }
	return svc, dir
}

func TestExportWritesAllSinks(t *testing.T) {
	store := interview.NewMemoryStore()
	objects := newMemObjects()
	svc, dir := newTestService(t, store, objects)
	owner := uuid.New()

	receipt, err := svc.Export(context.Background(), owner, []byte(submittedDoc))
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}

	if receipt.InterviewID == nil {
		t.Fatal("expected an interview id")
	}
	wantName := "interview-transcript-2024-01-01T00-00-10Z-abcd1234.json"
	if receipt.FileName != wantName {
		t.Fatalf("expected fileName %q, got %q", wantName, receipt.FileName)
	}

	records, err := store.ListInterviews(context.Background(), owner)
	if err != nil {
		t.Fatalf("ListInterviews err: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Transcript != "user: hello\nagent: hi there" {
		t.Fatalf("unexpected transcript text: %q", records[0].Transcript)
	}
	if records[0].DurationSeconds != 5 {
		t.Fatalf("expected duration 5, got %d", records[0].DurationSeconds)
	}

	backup, err := os.ReadFile(filepath.Join(dir, wantName))
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if backup[len(backup)-1] != '\n' {
		t.Fatal("expected trailing newline in backup file")
	}

	object, ok := objects.objects[owner.String()+"/"+wantName]
	if !ok {
		t.Fatalf("expected object at %s/%s", owner, wantName)
	}
	if string(object) != string(backup) {
		t.Fatal("expected object bytes identical to backup file")
	}
}

func TestExportStoreFailureIsNonFatal(t *testing.T) {
	store := failingStore{interview.NewMemoryStore()}
	svc, dir := newTestService(t, store, newMemObjects())

	receipt, err := svc.Export(context.Background(), uuid.New(), []byte(submittedDoc))
	if err != nil {
		t.Fatalf("expected success despite store failure, got %v", err)
	}
	if receipt.InterviewID != nil {
		t.Fatal("expected no interview id when the store write failed")
	}

	if _, err := os.Stat(filepath.Join(dir, receipt.FileName)); err != nil {
		t.Fatalf("expected backup file regardless of store failure: %v", err)
	}
}

func TestExportObjectStorageFailureIsNonFatal(t *testing.T) {
	objects := newMemObjects()
	objects.fail = errors.New("bucket unreachable")
	svc, _ := newTestService(t, interview.NewMemoryStore(), objects)

	receipt, err := svc.Export(context.Background(), uuid.New(), []byte(submittedDoc))
	if err != nil {
		t.Fatalf("expected success despite object storage failure, got %v", err)
	}

	for _, outcome := range receipt.Outcomes {
		if outcome.Sink == SinkObjectStorage && outcome.Err == nil {
			t.Fatal("expected the object storage outcome to carry the error")
		}
	}
}

func TestExportBackupFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// The backup path sits below a regular file, so the write cannot succeed.
	svc := NewService(interview.NewMemoryStore(), NewBackupDir(filepath.Join(blocker, "data")), nil, logger.NewNop())

	_, err := svc.Export(context.Background(), uuid.New(), []byte(submittedDoc))
	if !errors.Is(err, ErrBackupWrite) {
		t.Fatalf("expected ErrBackupWrite, got %v", err)
	}
}

func TestExportRejectsMissingOwner(t *testing.T) {
	svc, dir := newTestService(t, interview.NewMemoryStore(), nil)

	_, err := svc.Export(context.Background(), uuid.Nil, []byte(submittedDoc))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatal("expected no writes for rejected submission")
	}
}

func TestExportRejectsInvalidBody(t *testing.T) {
	store := interview.NewMemoryStore()
	svc, dir := newTestService(t, store, nil)
	owner := uuid.New()

	_, err := svc.Export(context.Background(), owner, []byte(`[1,2,3]`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatal("expected no writes for rejected submission")
	}
	records, _ := store.ListInterviews(context.Background(), owner)
	if len(records) != 0 {
		t.Fatal("expected no records for rejected submission")
	}
}

func TestExportNoDeduplication(t *testing.T) {
	store := interview.NewMemoryStore()
	svc, dir := newTestService(t, store, nil)
	svc.suffix = randomSuffix
	owner := uuid.New()

	if _, err := svc.Export(context.Background(), owner, []byte(submittedDoc)); err != nil {
		t.Fatalf("first Export err: %v", err)
	}
	if _, err := svc.Export(context.Background(), owner, []byte(submittedDoc)); err != nil {
		t.Fatalf("second Export err: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 backup files, got %d", len(entries))
	}
	records, _ := store.ListInterviews(context.Background(), owner)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestResolvePolicy(t *testing.T) {
	fatal := errors.New("disk full")

	err := Resolve([]SinkOutcome{
		{Sink: SinkPrimaryStore, Err: errors.New("db down")},
		{Sink: SinkBackupFile, Err: nil},
		{Sink: SinkObjectStorage, Err: errors.New("bucket gone")},
	})
	if err != nil {
		t.Fatalf("expected best-effort failures to resolve clean, got %v", err)
	}

	err = Resolve([]SinkOutcome{
		{Sink: SinkPrimaryStore, Err: nil},
		{Sink: SinkBackupFile, Err: fatal},
	})
	if !errors.Is(err, ErrBackupWrite) {
		t.Fatalf("expected ErrBackupWrite, got %v", err)
	}
}
