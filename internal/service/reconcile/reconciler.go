package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	"github.com/amirjon-1/interview-backend/internal/service/export"
)

// ErrOwnerNotFound aborts the batch before any file is touched.
var ErrOwnerNotFound = errors.New("owner account not found")

// Summary reports how the batch went.
type Summary struct {
	Discovered int
	Uploaded   int
}

// Service replays backup files into the primary store, re-deriving the same
// transcript text and duration the coordinator produces on the live path.
type Service struct {
	store  interview.Store
	backup *export.BackupDir
	log    *logger.Logger
}

// NewService wires the reconciler to the store and the backup directory.
func NewService(store interview.Store, backup *export.BackupDir, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		backup: backup,
		log:    log.With("service", "reconcile"),
	}
}

// Run processes every backup file in discovery order under the given owner.
// A file that fails to parse or insert is logged and skipped; the batch
// continues. The owner must resolve to a known account up front.
func (s *Service) Run(ctx context.Context, owner uuid.UUID) (Summary, error) {
	if _, err := s.store.FindUser(ctx, owner); err != nil {
		if errors.Is(err, interview.ErrUserNotFound) {
			return Summary{}, fmt.Errorf("%w: %s", ErrOwnerNotFound, owner)
		}
		return Summary{}, err
	}

	names, err := s.backup.List()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Discovered: len(names)}
	for _, name := range names {
		if err := s.replay(ctx, owner, name); err != nil {
			s.log.Error("failed to reconcile backup file", "file", name, "error", err)
			continue
		}
		s.log.Info("reconciled backup file", "file", name)
		summary.Uploaded++
	}
	return summary, nil
}

func (s *Service) replay(ctx context.Context, owner uuid.UUID, name string) error {
	raw, err := s.backup.Read(name)
	if err != nil {
		return err
	}

	doc, err := export.ParseDocument(raw)
	if err != nil {
		return err
	}

	rec := &interview.Interview{
		UserID:          owner,
		Transcript:      export.TranscriptText(doc),
		DurationSeconds: export.DurationSeconds(doc),
		RawDocument:     datatypes.JSON(raw),
	}
	return s.store.InsertInterview(ctx, rec)
}
