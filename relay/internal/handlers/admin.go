package handlers

import (
	"log"
	"net/http"

	"github.com/lotwire-systems/lotwire-relay/common/httputil"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/dlq"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/middleware"
)

// defaultListLimit caps DLQ listings when the client does not ask for a
// specific page size.
const defaultListLimit = 100

// AdminHandler serves the DLQ admin API. Routes are wrapped by
// middleware.RequireAdmin in the router.
type AdminHandler struct {
	queue dlq.Queue
}

// NewAdminHandler constructs a new handler.
func NewAdminHandler(queue dlq.Queue) *AdminHandler {
	return &AdminHandler{queue: queue}
}

// DLQList handles GET /v1/admin/dlq.
func (h *AdminHandler) DLQList(w http.ResponseWriter, r *http.Request) {
	limit := httputil.ParseIntParam(r.URL.Query().Get("limit"), defaultListLimit)

	entries, err := h.queue.List(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// DLQPurge handles DELETE /v1/admin/dlq.
func (h *AdminHandler) DLQPurge(w http.ResponseWriter, r *http.Request) {
	if err := h.queue.Purge(r.Context()); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		log.Printf("DLQ purged by %s", claims.Subject)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}

// DLQStats handles GET /v1/admin/dlq/stats.
func (h *AdminHandler) DLQStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.queue.Stats(r.Context()))
}
