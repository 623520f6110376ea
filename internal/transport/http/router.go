// Package httptransport assembles the HTTP surface: candidate routes, the
// websocket push endpoint, health, and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rollcall/internal/candidate/handler"
	"rollcall/internal/gateway"
	"rollcall/internal/platform/middleware"
	"rollcall/pkg/platform/httputil"
)

func NewRouter(h *handler.Handler, gw *gateway.Gateway, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	h.Register(r)
	r.Get("/ws", gw.HandleWS)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
