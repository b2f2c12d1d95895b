package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lotwire-systems/lotwire-relay/common/middleware"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/handlers"
	relaymw "github.com/lotwire-systems/lotwire-relay/relay/internal/middleware"
)

// NewRouter constructs a ServeMux with relay API routes registered.
func NewRouter(h *handlers.WebhookHandler, admin *handlers.AdminHandler, auth *relaymw.AdminAuth) http.Handler {
	mux := http.NewServeMux()

	// Webhook intake
	mux.HandleFunc("POST /v1/webhooks/{source}/events", h.HandleWebhook)
	mux.HandleFunc("POST /v1/classify", h.HandleClassify)

	// Admin DLQ API
	mux.HandleFunc("GET /v1/admin/dlq", auth.RequireAdmin(admin.DLQList))
	mux.HandleFunc("DELETE /v1/admin/dlq", auth.RequireAdmin(admin.DLQPurge))
	mux.HandleFunc("GET /v1/admin/dlq/stats", auth.RequireAdmin(admin.DLQStats))

	// Health endpoints
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
