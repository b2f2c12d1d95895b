// Package service runs deliveries end to end: idempotency check,
// classification, destination forward, and failure spooling. The HTTP
// layer stays free of domain decisions.
package service

import (
	"context"
	"log"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lotwire-systems/lotwire-relay/common/logging"
	"github.com/lotwire-systems/lotwire-relay/common/messaging"
	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/destclient"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/dlq"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/idempotency"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/metrics"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/pipeline"
)

// Outcome is what the intake surface needs to answer a delivery: either
// the short-circuit fingerprint for an already-seen delivery id, or the
// full pipeline result.
type Outcome struct {
	Result      *models.Result
	Duplicate   bool
	Fingerprint string
}

// RelayService orchestrates the relay. The destination client may be
// nil (classify-only deployments skip forwarding); the NATS client is
// only present when the DLQ runs on JetStream.
type RelayService struct {
	cache idempotency.Cache
	queue dlq.Queue
	dest  *destclient.Client
	nats  messaging.Client

	// process is pipeline.Process outside tests.
	process func(*models.Delivery) *models.Result

	startedAt  time.Time
	processed  atomic.Uint64
	failed     atomic.Uint64
	duplicates atomic.Uint64
}

// NewRelayService creates a new RelayService instance.
func NewRelayService(cache idempotency.Cache, queue dlq.Queue, dest *destclient.Client, natsClient messaging.Client) *RelayService {
	return &RelayService{
		cache:     cache,
		queue:     queue,
		dest:      dest,
		nats:      natsClient,
		process:   pipeline.Process,
		startedAt: time.Now().UTC(),
	}
}

// Process runs one delivery through the full relay path. A known
// delivery id short-circuits before the pipeline; otherwise the result
// drives the destination forward, the idempotency write, or the DLQ.
func (s *RelayService) Process(ctx context.Context, d *models.Delivery) *Outcome {
	// The cache key is dealer-scoped, so the dealer id is pulled off the
	// raw payload here. A delivery without one cannot classify anyway
	// and skips straight to the pipeline's rejection.
	dealer, _ := value.String(d.Raw, "dealer_id")

	if fp, seen := s.checkDuplicate(ctx, dealer, d.DeliveryID); seen {
		s.duplicates.Add(1)
		metrics.DuplicatesTotal.Inc()
		slog.Debug("duplicate delivery short-circuited",
			logging.DeliveryID(d.DeliveryID),
			logging.Fingerprint(fp),
		)
		return &Outcome{Duplicate: true, Fingerprint: fp}
	}

	start := time.Now()
	result := s.process(d)
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	switch result.Status {
	case models.StatusClassified:
		s.processed.Add(1)
		c := result.Classified
		metrics.ClassifiedTotal.WithLabelValues(c.Category, c.Tag).Inc()
		s.forward(ctx, d, c)
		s.remember(ctx, dealer, d.DeliveryID, c.Fingerprint)
	case models.StatusRejected:
		s.failed.Add(1)
		metrics.RejectionsTotal.WithLabelValues(result.Rejection.Code).Inc()
		s.spool(ctx, d, dlq.ReasonRejected, result.Rejection.Error())
	case models.StatusDegraded:
		s.failed.Add(1)
		metrics.DegradedTotal.Inc()
		s.spool(ctx, d, dlq.ReasonDegraded, result.Degraded.Reason)
	}

	return &Outcome{Result: result}
}

// DryRun classifies a delivery without touching the cache, the
// destination, or the DLQ. Backs the /v1/classify endpoint and the CLI.
func (s *RelayService) DryRun(d *models.Delivery) *models.Result {
	return s.process(d)
}

// checkDuplicate consults the idempotency cache. Cache failures log and
// fail open: losing dedup beats dropping a delivery.
func (s *RelayService) checkDuplicate(ctx context.Context, dealer, deliveryID string) (string, bool) {
	if dealer == "" || deliveryID == "" {
		return "", false
	}
	fp, seen, err := s.cache.Check(ctx, dealer, deliveryID)
	if err != nil {
		metrics.CacheErrors.Inc()
		slog.Warn("idempotency check failed, processing anyway",
			logging.DeliveryID(deliveryID),
			logging.Error(err),
		)
		return "", false
	}
	return fp, seen
}

func (s *RelayService) remember(ctx context.Context, dealer, deliveryID, fingerprint string) {
	if dealer == "" || deliveryID == "" {
		return
	}
	if _, _, err := s.cache.Remember(ctx, dealer, deliveryID, fingerprint); err != nil {
		metrics.CacheErrors.Inc()
		slog.Warn("idempotency remember failed",
			logging.DeliveryID(deliveryID),
			logging.Error(err),
		)
	}
}

// forward posts the classified outcome to the destination. A failure
// spools a copy to the DLQ: the delivery classified, so losing it here
// would be silent.
func (s *RelayService) forward(ctx context.Context, d *models.Delivery, c *models.Classified) {
	if s.dest == nil {
		return
	}

	start := time.Now()
	err := s.dest.Forward(ctx, c)
	metrics.DestinationDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}

	metrics.DestinationErrors.Inc()
	slog.Error("destination forward failed",
		logging.Fingerprint(c.Fingerprint),
		logging.Category(c.Category),
		logging.Error(err),
	)
	s.spool(ctx, d, dlq.ReasonDestinationFailed, err.Error())
}

func (s *RelayService) spool(ctx context.Context, d *models.Delivery, reason, errMsg string) {
	metrics.DLQTotal.WithLabelValues(reason).Inc()
	failed := &dlq.FailedDelivery{
		ID:         d.ID,
		Source:     d.Source,
		DeliveryID: d.DeliveryID,
		Reason:     reason,
		Error:      errMsg,
		Payload:    d.Raw,
	}
	if err := s.queue.Add(ctx, failed); err != nil {
		log.Printf("WARNING: failed to spool delivery to DLQ: %v", err)
	}
}

// Queue exposes the DLQ for the admin API.
func (s *RelayService) Queue() dlq.Queue {
	return s.queue
}

// Stats is a snapshot of service counters.
type Stats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Processed     uint64 `json:"processed"`
	Failed        uint64 `json:"failed"`
	Duplicates    uint64 `json:"duplicates"`
}

// Health returns live status for the liveness probe.
func (s *RelayService) Health() Stats {
	return Stats{
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Processed:     s.processed.Load(),
		Failed:        s.failed.Load(),
		Duplicates:    s.duplicates.Load(),
	}
}

// Readiness reports per-dependency health. A disabled dependency does
// not fail the probe; a configured but unreachable one does.
func (s *RelayService) Readiness(ctx context.Context) (map[string]interface{}, bool) {
	checks := map[string]interface{}{}
	ready := true

	if _, noop := s.cache.(idempotency.NoOpCache); noop {
		checks["redis"] = "disabled"
	} else if _, _, err := s.cache.Check(ctx, "readyz", "probe"); err != nil {
		checks["redis"] = err.Error()
		ready = false
	} else {
		checks["redis"] = "ok"
	}

	if s.nats == nil {
		checks["nats"] = "disabled"
	} else {
		status := messaging.CheckClientHealth(ctx, s.nats)
		if status.Connected {
			checks["nats"] = "ok"
		} else {
			checks["nats"] = status.Error
			ready = false
		}
	}

	return checks, ready
}
