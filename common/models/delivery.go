package models

// Delivery is one inbound webhook delivery as accepted at the edge,
// before classification.
type Delivery struct {
	// ID is the relay-assigned request id for tracing.
	ID string `json:"id"`
	// Source names the upstream connector the webhook arrived through.
	Source string `json:"source"`
	// DeliveryID is the upstream transport idempotency key (the
	// X-Delivery-Id header), when the source sends one.
	DeliveryID string `json:"delivery_id,omitempty"`
	// ReceivedAt is the arrival timestamp in epoch milliseconds, stamped
	// from the server clock by the intake handler. The same value is
	// injected into Raw under "received_at" before fingerprinting, so
	// upstream-supplied arrival times never leak into identity.
	ReceivedAt int64 `json:"received_at"`
	// Raw is the decoded payload.
	Raw map[string]interface{} `json:"raw"`
}
