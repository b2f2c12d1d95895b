package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/destclient"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/dlq"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/idempotency"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/service"
)

func appointmentRaw() map[string]interface{} {
	return map[string]interface{}{
		"dealer_id":   "d-204",
		"customer_id": "c-9611",
		"appointment": map[string]interface{}{
			"id":           "appt-100",
			"status":       "active",
			"confirmed":    true,
			"scheduled_at": "2026-03-14T22:30:00Z",
		},
	}
}

func newDelivery(deliveryID string, raw map[string]interface{}) *models.Delivery {
	receivedAt := int64(1766400000000)
	raw["received_at"] = receivedAt
	return &models.Delivery{
		ID:         "req-1",
		Source:     "dealercrm",
		DeliveryID: deliveryID,
		ReceivedAt: receivedAt,
		Raw:        raw,
	}
}

// destination spins up a stub merge store that counts forwards and
// keeps the last body it saw.
type destination struct {
	server *httptest.Server
	hits   atomic.Int64
	last   atomic.Pointer[map[string]interface{}]
}

func newDestination(t *testing.T, status int) *destination {
	d := &destination{}
	d.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.hits.Add(1)
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			d.last.Store(&body)
		}
		if status >= 400 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "merge store unavailable"})
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(d.server.Close)
	return d
}

func newService(t *testing.T, dest *destclient.Client) (*service.RelayService, *dlq.FileQueue, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	cache, err := idempotency.NewRedisCache("redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	queue, err := dlq.NewFileQueue(t.TempDir())
	require.NoError(t, err)

	return service.NewRelayService(cache, queue, dest, nil), queue, mr
}

func TestProcess_ClassifiedForwardsToDestination(t *testing.T) {
	dest := newDestination(t, http.StatusOK)
	svc, queue, _ := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	outcome := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))

	require.NotNil(t, outcome.Result)
	require.Equal(t, models.StatusClassified, outcome.Result.Status)
	assert.False(t, outcome.Duplicate)

	assert.Equal(t, int64(1), dest.hits.Load())
	body := *dest.last.Load()
	assert.Equal(t, outcome.Result.Classified.Fingerprint, body["fingerprint"])
	assert.Equal(t, "appointment", body["category"])

	entries, err := queue.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcess_RedeliveryShortCircuits(t *testing.T) {
	dest := newDestination(t, http.StatusOK)
	svc, _, _ := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	first := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))
	require.Equal(t, models.StatusClassified, first.Result.Status)

	second := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Result.Classified.Fingerprint, second.Fingerprint)
	assert.Nil(t, second.Result)

	// The destination saw the delivery exactly once.
	assert.Equal(t, int64(1), dest.hits.Load())
}

func TestProcess_NoDeliveryIDNeverDuplicates(t *testing.T) {
	dest := newDestination(t, http.StatusOK)
	svc, _, _ := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	first := svc.Process(context.Background(), newDelivery("", appointmentRaw()))
	second := svc.Process(context.Background(), newDelivery("", appointmentRaw()))

	assert.Equal(t, models.StatusClassified, first.Result.Status)
	assert.Equal(t, models.StatusClassified, second.Result.Status)
	assert.False(t, second.Duplicate)
	assert.Equal(t, int64(2), dest.hits.Load())
}

func TestProcess_RejectionSpoolsToDLQ(t *testing.T) {
	dest := newDestination(t, http.StatusOK)
	svc, queue, _ := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	raw := appointmentRaw()
	delete(raw, "dealer_id")
	outcome := svc.Process(context.Background(), newDelivery("whd-41", raw))

	require.Equal(t, models.StatusRejected, outcome.Result.Status)
	assert.Equal(t, models.CodeMissingCorrelationKey, outcome.Result.Rejection.Code)
	assert.Equal(t, int64(0), dest.hits.Load())

	entries, err := queue.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dlq.ReasonRejected, entries[0].Reason)
	assert.Contains(t, entries[0].Error, models.CodeMissingCorrelationKey)
	assert.Equal(t, "dealercrm", entries[0].Source)
	assert.Equal(t, "whd-41", entries[0].DeliveryID)
}

func TestProcess_DestinationFailureSpoolsCopy(t *testing.T) {
	dest := newDestination(t, http.StatusServiceUnavailable)
	svc, queue, _ := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	outcome := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))

	// The delivery classified; the forward leg failing must not change
	// the outcome the caller sees.
	require.Equal(t, models.StatusClassified, outcome.Result.Status)

	entries, err := queue.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dlq.ReasonDestinationFailed, entries[0].Reason)
	assert.Contains(t, entries[0].Error, "merge store unavailable")

	// The delivery id is still remembered: the DLQ copy covers the
	// forward, so a redelivery should not re-run the pipeline.
	second := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))
	assert.True(t, second.Duplicate)
}

func TestProcess_NoDestinationConfigured(t *testing.T) {
	svc, queue, _ := newService(t, nil)

	outcome := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))

	require.Equal(t, models.StatusClassified, outcome.Result.Status)
	entries, err := queue.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcess_CacheFailureFailsOpen(t *testing.T) {
	dest := newDestination(t, http.StatusOK)
	svc, _, mr := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	mr.Close()

	outcome := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))

	// Losing the cache must not drop deliveries.
	require.NotNil(t, outcome.Result)
	assert.Equal(t, models.StatusClassified, outcome.Result.Status)
	assert.Equal(t, int64(1), dest.hits.Load())
}

func TestDryRun_HasNoSideEffects(t *testing.T) {
	dest := newDestination(t, http.StatusOK)
	svc, queue, _ := newService(t, destclient.New(dest.server.URL, "key-1", 2*time.Second))

	result := svc.DryRun(newDelivery("whd-41", appointmentRaw()))
	require.Equal(t, models.StatusClassified, result.Status)

	assert.Equal(t, int64(0), dest.hits.Load())
	entries, err := queue.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// A later real intake with the same delivery id is not a duplicate.
	outcome := svc.Process(context.Background(), newDelivery("whd-41", appointmentRaw()))
	assert.False(t, outcome.Duplicate)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, models.StatusClassified, outcome.Result.Status)
}

func TestHealthCounters(t *testing.T) {
	svc, _, _ := newService(t, nil)

	svc.Process(context.Background(), newDelivery("whd-1", appointmentRaw()))

	rejected := appointmentRaw()
	delete(rejected, "dealer_id")
	svc.Process(context.Background(), newDelivery("whd-2", rejected))

	svc.Process(context.Background(), newDelivery("whd-1", appointmentRaw()))

	stats := svc.Health()
	assert.Equal(t, uint64(1), stats.Processed)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Equal(t, uint64(1), stats.Duplicates)
	assert.GreaterOrEqual(t, stats.UptimeSeconds, int64(0))
}

func TestReadiness(t *testing.T) {
	svc, _, mr := newService(t, nil)

	checks, ready := svc.Readiness(context.Background())
	assert.True(t, ready)
	assert.Equal(t, "ok", checks["redis"])
	assert.Equal(t, "disabled", checks["nats"])

	mr.Close()

	checks, ready = svc.Readiness(context.Background())
	assert.False(t, ready)
	assert.NotEqual(t, "ok", checks["redis"])
}

func TestReadiness_NoOpCacheIsDisabled(t *testing.T) {
	queue, err := dlq.NewFileQueue(t.TempDir())
	require.NoError(t, err)
	svc := service.NewRelayService(idempotency.NoOpCache{}, queue, nil, nil)

	checks, ready := svc.Readiness(context.Background())
	assert.True(t, ready)
	assert.Equal(t, "disabled", checks["redis"])
}
