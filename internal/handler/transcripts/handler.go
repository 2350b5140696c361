package transcripts

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amirjon-1/interview-backend/internal/middleware"
	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	"github.com/amirjon-1/interview-backend/internal/service/export"
	"github.com/amirjon-1/interview-backend/pkg/utils"
)

// Handler serves transcript submission and interview queries.
type Handler struct {
	exportSvc *export.Service
	store     interview.Store
	log       *logger.Logger
}

// New creates the transcript handler.
func New(exportSvc *export.Service, store interview.Store, log *logger.Logger) *Handler {
	return &Handler{
		exportSvc: exportSvc,
		store:     store,
		log:       log.With("handler", "transcripts"),
	}
}

// RegisterRoutes mounts the transcript routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/interview-transcripts", h.handleSubmit)
	r.Get("/interviews", h.handleListInterviews)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error("failed to read request body", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	receipt, err := h.exportSvc.Export(r.Context(), owner, raw)
	switch {
	case errors.Is(err, export.ErrInvalidDocument):
		utils.RespondError(w, http.StatusBadRequest, "invalid transcript payload")
		return
	case errors.Is(err, export.ErrUnauthenticated):
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	case err != nil:
		h.log.Error("failed to save transcript", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save transcript")
		return
	}

	resp := map[string]any{
		"ok":       true,
		"fileName": receipt.FileName,
	}
	if receipt.InterviewID != nil {
		resp["interviewId"] = receipt.InterviewID.String()
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	records, err := h.store.ListInterviews(r.Context(), owner)
	if err != nil {
		h.log.Error("failed to list interviews", "owner", owner.String(), "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}
	if records == nil {
		records = []interview.Interview{}
	}
	utils.RespondJSON(w, http.StatusOK, records)
}
