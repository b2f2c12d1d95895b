// Package messaging provides the broker client surface and health probe
// shared by relay services.
package messaging

import (
	"context"
	"time"
)

// probeSubject is a subject nothing subscribes to. A request against it
// is answered by the server itself, which is all the probe needs.
const probeSubject = "_HEALTH.ping"

// HealthStatus is the result of probing a broker connection.
type HealthStatus struct {
	Connected bool          `json:"connected"`
	Latency   time.Duration `json:"latency,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// CheckClientHealth reports whether the broker behind client is
// reachable. The latency probe runs only on a live connection; a
// no-responders reply still counts as a served round trip.
func CheckClientHealth(ctx context.Context, client Client) HealthStatus {
	if client == nil {
		return HealthStatus{Error: "client is nil"}
	}
	if !client.IsConnected() {
		return HealthStatus{Error: "not connected to message broker"}
	}

	start := time.Now()
	_, _ = client.Request(ctx, probeSubject, []byte("ping"), 2*time.Second)

	return HealthStatus{Connected: true, Latency: time.Since(start)}
}
