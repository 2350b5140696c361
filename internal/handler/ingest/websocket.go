package ingest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/amirjon-1/interview-backend/internal/middleware"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	transcriptsvc "github.com/amirjon-1/interview-backend/internal/service/transcript"
)

// kindDisconnect is a client-sent lifecycle notification. The socket closing
// delivers the same signal, so the recorder may see it twice.
const kindDisconnect = "disconnect"

// Handler bridges the realtime transport to the session recorder: one
// websocket connection is one connection lifecycle.
type Handler struct {
	exporter transcriptsvc.Exporter
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// New creates the ingest handler.
func New(exporter transcriptsvc.Exporter, log *logger.Logger) *Handler {
	return &Handler{
		exporter: exporter,
		log:      log.With("handler", "ingest"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ingest/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing or invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.log.Info("session connected", "owner", owner.String())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	recorder := transcriptsvc.NewRecorder(owner, h.exporter, h.log)
	recorder.Connect()

	// The request context dies with the socket; the export must not be tied
	// to it.
	defer recorder.Disconnect(context.WithoutCancel(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var ev transcriptsvc.StreamEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn("websocket read error", "error", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if ev.Kind == kindDisconnect {
				recorder.Disconnect(context.WithoutCancel(ctx))
				continue
			}
			recorder.Append(ev)
		}
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
