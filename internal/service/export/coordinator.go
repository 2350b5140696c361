package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
)

var (
	ErrUnauthenticated = errors.New("caller identity is missing")
	ErrInvalidDocument = errors.New("invalid transcript document")
	ErrBackupWrite     = errors.New("failed to write backup file")
)

// Sink names one of the three persistence targets.
type Sink string

const (
	SinkPrimaryStore  Sink = "primary-store"
	SinkBackupFile    Sink = "backup-file"
	SinkObjectStorage Sink = "object-storage"
)

// SinkOutcome records how one sink write went.
type SinkOutcome struct {
	Sink Sink
	Err  error
}

// Fatal reports whether this outcome must fail the whole submission. Only the
// backup file is guaranteed, so only its failure is fatal.
func (o SinkOutcome) Fatal() bool {
	return o.Sink == SinkBackupFile && o.Err != nil
}

// Resolve applies the aggregation policy over the collected outcomes and
// returns the error to surface, if any.
func Resolve(outcomes []SinkOutcome) error {
	for _, o := range outcomes {
		if o.Fatal() {
			return fmt.Errorf("%w: %v", ErrBackupWrite, o.Err)
		}
	}
	return nil
}

// Receipt is what the caller learns about an accepted submission.
type Receipt struct {
	InterviewID *uuid.UUID
	FileName    string
	Outcomes    []SinkOutcome
}

// Service coordinates writes to the primary store, the backup file and
// object storage for each submitted transcript document.
type Service struct {
	store   interview.Store
	backup  *BackupDir
	objects ObjectStore
	log     *logger.Logger
	now     func() time.Time
	suffix  func() string
}

// NewService wires the three sinks. objects may be nil when object storage is
// not configured.
func NewService(store interview.Store, backup *BackupDir, objects ObjectStore, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		backup:  backup,
		objects: objects,
		log:     log.With("service", "export"),
		now:     time.Now,
		suffix:  randomSuffix,
	}
}

// Export validates the submitted document and writes it to every sink in
// sequence. Sink failures are isolated: each is recorded as an outcome and
// never stops the remaining writes. Only a backup-file failure is surfaced.
func (s *Service) Export(ctx context.Context, owner uuid.UUID, raw json.RawMessage) (Receipt, error) {
	if owner == uuid.Nil {
		return Receipt{}, ErrUnauthenticated
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	outcomes := make([]SinkOutcome, 0, 3)

	rec := &interview.Interview{
		UserID:          owner,
		Transcript:      TranscriptText(doc),
		DurationSeconds: DurationSeconds(doc),
		RawDocument:     datatypes.JSON(raw),
	}
	storeErr := s.store.InsertInterview(ctx, rec)
	outcomes = append(outcomes, SinkOutcome{Sink: SinkPrimaryStore, Err: storeErr})
	if storeErr != nil {
		s.log.Error("primary store insert failed", "owner", owner.String(), "error", storeErr)
	}

	fileName := BackupFileName(doc.Metadata.GeneratedAt, s.now(), s.suffix())
	backupErr := s.backup.Write(fileName, raw)
	outcomes = append(outcomes, SinkOutcome{Sink: SinkBackupFile, Err: backupErr})
	if backupErr != nil {
		s.log.Error("backup file write failed", "fileName", fileName, "error", backupErr)
	}

	if s.objects != nil {
		body, formatErr := FormatDocument(raw)
		objectErr := formatErr
		if formatErr == nil {
			objectErr = s.objects.Put(ctx, owner.String()+"/"+fileName, body)
		}
		outcomes = append(outcomes, SinkOutcome{Sink: SinkObjectStorage, Err: objectErr})
		if objectErr != nil {
			s.log.Error("object storage upload failed", "fileName", fileName, "error", objectErr)
		}
	} else {
		s.log.Debug("object storage not configured, skipping upload", "fileName", fileName)
	}

	receipt := Receipt{FileName: fileName, Outcomes: outcomes}
	if storeErr == nil {
		receipt.InterviewID = &rec.ID
	}

	if err := Resolve(outcomes); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// randomSuffix yields an 8-character collision-avoidance token.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
