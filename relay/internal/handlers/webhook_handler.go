// Package handlers exposes the relay HTTP surface: webhook intake, the
// classify dry-run, the admin DLQ API, and the health probes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lotwire-systems/lotwire-relay/common/httputil"
	"github.com/lotwire-systems/lotwire-relay/common/logging"
	"github.com/lotwire-systems/lotwire-relay/common/middleware"
	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/common/signature"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/metrics"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/service"
)

// HeaderSignature carries the hex HMAC-SHA256 of the request body.
const HeaderSignature = signature.Header

// HeaderDeliveryID carries the upstream transport idempotency key.
const HeaderDeliveryID = "X-Delivery-Id"

// WebhookHandler manages the intake and dry-run endpoints.
type WebhookHandler struct {
	service      *service.RelayService
	signer       *signature.Signer
	maxBodyBytes int64
}

// NewWebhookHandler constructs a new handler. An empty signingSecret
// disables signature verification.
func NewWebhookHandler(svc *service.RelayService, signingSecret string, maxBodyBytes int64) *WebhookHandler {
	h := &WebhookHandler{
		service:      svc,
		maxBodyBytes: maxBodyBytes,
	}
	if signingSecret != "" {
		h.signer = signature.New(signingSecret)
	}
	return h
}

// IntakeResponse is the body returned for accepted and duplicate
// deliveries.
type IntakeResponse struct {
	Status              string `json:"status"`
	Category            string `json:"category,omitempty"`
	Tag                 string `json:"tag,omitempty"`
	Fingerprint         string `json:"fingerprint,omitempty"`
	LogicalFingerprint  string `json:"logical_fingerprint,omitempty"`
	DeliveryFingerprint string `json:"delivery_fingerprint,omitempty"`
	Duplicate           bool   `json:"duplicate,omitempty"`
	RequestID           string `json:"request_id,omitempty"`
}

// RejectionResponse is the body returned for contract rejections.
type RejectionResponse struct {
	Status    string `json:"status"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleWebhook handles POST /v1/webhooks/{source}/events.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	if !h.verifySignature(w, r, body) {
		return
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.DeliveriesTotal.WithLabelValues(source, "invalid").Inc()
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	metrics.DeliveryBytesTotal.Add(float64(len(body)))

	d := newDelivery(r, source, raw)
	outcome := h.service.Process(r.Context(), d)
	h.respond(w, r, source, outcome)
}

// HandleClassify handles POST /v1/classify. It runs the pipeline with
// no idempotency, destination, or DLQ side effects, so connector
// authors can test payloads against the live contract.
func (h *WebhookHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	d := newDelivery(r, "dry-run", raw)
	httputil.WriteJSON(w, http.StatusOK, h.service.DryRun(d))
}

// Health handles GET /healthz.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /readyz. A configured but unreachable dependency
// fails the probe with 503.
func (h *WebhookHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, ready := h.service.Readiness(ctx)

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	httputil.WriteJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"stats":  h.service.Health(),
	})
}

func (h *WebhookHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "request body unreadable or too large")
		return nil, false
	}
	if len(body) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "empty request body")
		return nil, false
	}
	return body, true
}

// verifySignature checks the webhook HMAC when a signing secret is
// configured. Unsigned intake is allowed only when no secret is set.
func (h *WebhookHandler) verifySignature(w http.ResponseWriter, r *http.Request, body []byte) bool {
	if h.signer == nil {
		return true
	}

	provided := r.Header.Get(HeaderSignature)
	if provided == "" {
		metrics.SignatureFailuresTotal.Inc()
		httputil.WriteError(w, http.StatusUnauthorized, "missing "+HeaderSignature+" header")
		return false
	}

	if err := h.signer.Verify(body, provided); err != nil {
		metrics.SignatureFailuresTotal.Inc()
		if errors.Is(err, signature.ErrNotHex) {
			httputil.WriteError(w, http.StatusUnauthorized, "signature is not valid hex")
			return false
		}
		slog.Warn("webhook signature mismatch",
			logging.IP(httputil.GetClientIP(r)),
		)
		httputil.WriteError(w, http.StatusUnauthorized, "signature verification failed")
		return false
	}
	return true
}

// newDelivery stamps the arrival time from the relay clock. Anything
// the upstream put under received_at is overwritten so it never reaches
// the delivery fingerprint.
func newDelivery(r *http.Request, source string, raw map[string]interface{}) *models.Delivery {
	receivedAt := time.Now().UnixMilli()
	raw["received_at"] = receivedAt

	return &models.Delivery{
		ID:         middleware.GetRequestID(r.Context()),
		Source:     source,
		DeliveryID: r.Header.Get(HeaderDeliveryID),
		ReceivedAt: receivedAt,
		Raw:        raw,
	}
}

func (h *WebhookHandler) respond(w http.ResponseWriter, r *http.Request, source string, outcome *service.Outcome) {
	requestID := middleware.GetRequestID(r.Context())

	if outcome.Duplicate {
		metrics.DeliveriesTotal.WithLabelValues(source, "duplicate").Inc()
		httputil.WriteJSON(w, http.StatusOK, IntakeResponse{
			Status:      "duplicate",
			Fingerprint: outcome.Fingerprint,
			Duplicate:   true,
			RequestID:   requestID,
		})
		return
	}

	result := outcome.Result
	metrics.DeliveriesTotal.WithLabelValues(source, result.Status).Inc()

	switch result.Status {
	case models.StatusClassified:
		c := result.Classified
		slog.Info("delivery classified",
			logging.Source(source),
			logging.Category(c.Category),
			logging.Tag(c.Tag),
			logging.Fingerprint(c.Fingerprint),
		)
		httputil.WriteJSON(w, http.StatusAccepted, IntakeResponse{
			Status:              models.StatusClassified,
			Category:            c.Category,
			Tag:                 c.Tag,
			Fingerprint:         c.Fingerprint,
			LogicalFingerprint:  c.LogicalFingerprint,
			DeliveryFingerprint: c.DeliveryFingerprint,
			RequestID:           requestID,
		})
	case models.StatusRejected:
		rej := result.Rejection
		slog.Info("delivery rejected",
			logging.Source(source),
			slog.String("code", rej.Code),
		)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, RejectionResponse{
			Status:    models.StatusRejected,
			Code:      rej.Code,
			Field:     rej.Field,
			Error:     rej.Message,
			RequestID: requestID,
		})
	case models.StatusDegraded:
		slog.Warn("delivery degraded",
			logging.Source(source),
			slog.String("reason", result.Degraded.Reason),
		)
		httputil.WriteJSON(w, http.StatusAccepted, IntakeResponse{
			Status:    models.StatusDegraded,
			Tag:       result.Degraded.Tag,
			RequestID: requestID,
		})
	}
}
