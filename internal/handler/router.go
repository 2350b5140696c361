package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/amirjon-1/interview-backend/internal/handler/ingest"
	"github.com/amirjon-1/interview-backend/internal/handler/transcripts"
	middlewarePkg "github.com/amirjon-1/interview-backend/internal/middleware"
	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	authService "github.com/amirjon-1/interview-backend/internal/service/auth"
	"github.com/amirjon-1/interview-backend/internal/service/export"
	"github.com/amirjon-1/interview-backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(authSvc *authService.Service, exportSvc *export.Service, store interview.Store, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	transcriptHandler := transcripts.New(exportSvc, store, log)
	ingestHandler := ingest.New(exportSvc, log)

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewarePkg.RequireAuth(authSvc))

		transcriptHandler.RegisterRoutes(api)
		ingestHandler.RegisterRoutes(api)
	})

	return r
}
