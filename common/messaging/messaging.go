// Package messaging provides abstractions for message broker communication.
// It defines the client surface the relay holds a broker connection through,
// without coupling callers to a specific broker implementation.
package messaging

import (
	"context"
	"time"
)

// Client is the broker connection the relay keeps for the lifetime of the
// process. The relay only publishes: dead-lettered deliveries go out to
// the DLQ stream, and nothing in the relay consumes. Reading the queue
// back is done through JetStream consumers, not through this interface.
type Client interface {
	// Publish sends a fire-and-forget message to the subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Request publishes and waits up to timeout for a reply, returning
	// the reply payload. The readiness probe uses this to measure broker
	// round-trip latency.
	Request(ctx context.Context, subject string, data []byte, timeout time.Duration) ([]byte, error)

	// IsConnected reports whether the underlying connection is up.
	IsConnected() bool

	// Drain flushes in-flight messages and then closes. Preferred over
	// Close on shutdown so queued dead letters are not lost.
	Drain() error

	// Close tears the connection down immediately.
	Close() error
}
