package transcript

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/amirjon-1/interview-backend/internal/model/transcript"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	"github.com/amirjon-1/interview-backend/internal/service/export"
)

// Exporter hands a finished document to the persistence coordinator.
type Exporter interface {
	Export(ctx context.Context, owner uuid.UUID, raw json.RawMessage) (export.Receipt, error)
}

type recorderState int

const (
	stateIdle recorderState = iota
	stateConnected
	stateExported
)

// Recorder accumulates normalized turns over one connection lifecycle and
// exports the built transcript exactly once, on disconnect. It is not safe
// for concurrent use; the transport drives it from a single goroutine.
type Recorder struct {
	owner        uuid.UUID
	exporter     Exporter
	log          *logger.Logger
	now          func() time.Time
	state        recorderState
	turns        []transcript.Turn
	participants map[transcript.Role]transcript.Participant
}

// NewRecorder binds a recorder to an owner identity and a coordinator.
func NewRecorder(owner uuid.UUID, exporter Exporter, log *logger.Logger) *Recorder {
	return &Recorder{
		owner:    owner,
		exporter: exporter,
		log:      log.With("component", "recorder", "owner", owner.String()),
		now:      time.Now,
	}
}

// Connect starts a fresh connection lifecycle, discarding any buffered turns
// and re-arming the export guard.
func (r *Recorder) Connect() {
	r.state = stateConnected
	r.turns = nil
	r.participants = make(map[transcript.Role]transcript.Participant)
}

// Append normalizes one raw event into the buffer. Events arriving outside a
// connected lifecycle are dropped.
func (r *Recorder) Append(ev StreamEvent) {
	if r.state != stateConnected {
		return
	}

	turn, ok := Normalize(ev)
	if !ok {
		return
	}

	r.turns = append(r.turns, turn)
	MergeParticipant(r.participants, turn.Role, ev.From)
}

// Disconnect ends the lifecycle. The first call exports the buffered turns;
// repeated disconnect notifications are absorbed until the next Connect.
func (r *Recorder) Disconnect(ctx context.Context) {
	if r.state != stateConnected {
		return
	}
	r.state = stateExported

	if len(r.turns) == 0 {
		r.log.Debug("no turns buffered, skipping export")
		return
	}

	doc := Build(r.turns, r.participants, r.now())
	raw, err := json.Marshal(doc)
	if err != nil {
		r.log.Error("failed to encode transcript document", "error", err)
		return
	}

	// Fire-and-forget: the export outcome is observed only through logs.
	receipt, err := r.exporter.Export(ctx, r.owner, raw)
	if err != nil {
		r.log.Error("failed to export transcript", "error", err)
		return
	}
	r.log.Info("transcript exported", "fileName", receipt.FileName, "messageCount", len(r.turns))
}
