// Package dlq captures deliveries the relay could not see through to the
// destination: contract rejections, degraded outcomes, and classified
// events the destination refused. Nothing is silently dropped; every
// entry keeps the payload for replay.
package dlq

import (
	"context"
	"errors"
	"time"
)

var errNotEnabled = errors.New("dlq not enabled")

// Failure reasons. Rejected and degraded mirror the pipeline outcomes;
// destination_failed marks classified events the forward leg lost.
const (
	ReasonRejected          = "rejected"
	ReasonDegraded          = "degraded"
	ReasonDestinationFailed = "destination_failed"
)

// FailedDelivery is one DLQ entry.
type FailedDelivery struct {
	ID         string                 `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	Source     string                 `json:"source"`
	DeliveryID string                 `json:"delivery_id,omitempty"`
	Reason     string                 `json:"reason"`
	Error      string                 `json:"error"`
	Payload    map[string]interface{} `json:"payload"`
}

// Queue is the DLQ surface the service and the admin API share.
type Queue interface {
	Add(ctx context.Context, failed *FailedDelivery) error
	List(ctx context.Context, limit int) ([]FailedDelivery, error)
	Purge(ctx context.Context) error
	Stats(ctx context.Context) map[string]interface{}
	Close() error
}

// Noop is used when no DLQ backend is configured. Adds vanish; the admin
// surface reports the queue as disabled.
type Noop struct{}

func (Noop) Add(ctx context.Context, failed *FailedDelivery) error {
	return nil
}

func (Noop) List(ctx context.Context, limit int) ([]FailedDelivery, error) {
	return nil, errNotEnabled
}

func (Noop) Purge(ctx context.Context) error {
	return errNotEnabled
}

func (Noop) Stats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"enabled": false}
}

func (Noop) Close() error {
	return nil
}
