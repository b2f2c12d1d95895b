package models

import "fmt"

// Result statuses. Every delivery resolves to exactly one.
const (
	StatusClassified = "classified"
	StatusRejected   = "rejected"
	StatusDegraded   = "degraded"
)

// TagUnknown is the sentinel tag carried by degraded outcomes.
const TagUnknown = "unknown"

// Validation failure codes.
const (
	CodeMissingCorrelationKey = "missing_correlation_key"
	CodeUnrecognizedShape     = "unrecognized_shape"
	CodeUnknownEnum           = "unknown_enum"
)

// ValidationError is an expected, caller-facing rejection of a single
// delivery. The delivery must not be retried blindly; the code says why
// it was refused.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Classified is the full output for a delivery that passed the cascade:
// its tag, both fingerprint flavors, the reshaped aggregate, and the
// provenance shadow maps the merge store consumes.
type Classified struct {
	Category   string `json:"category"`
	Tag        string `json:"tag"`
	DealerID   string `json:"dealer_id"`
	CustomerID string `json:"customer_id"`
	// Fingerprint is the category's primary identity: the delivery
	// flavor for appointment lifecycle events, the logical flavor for
	// everything else.
	Fingerprint         string                 `json:"fingerprint"`
	LogicalFingerprint  string                 `json:"logical_fingerprint"`
	DeliveryFingerprint string                 `json:"delivery_fingerprint"`
	ReceivedAt          int64                  `json:"received_at"`
	Payload             map[string]interface{} `json:"payload"`
	Aggregate           map[string]interface{} `json:"aggregate"`
	LastReceivedAt      map[string]interface{} `json:"last_received_at"`
	LastReceivedBy      map[string]interface{} `json:"last_received_by"`
}

// Degraded preserves a delivery that hit an unexpected internal failure.
// Nothing is silently dropped: the raw payload survives alongside the
// failure reason under the sentinel tag.
type Degraded struct {
	Tag    string                 `json:"tag"`
	Reason string                 `json:"reason"`
	Raw    map[string]interface{} `json:"raw"`
}

// Result is the three-outcome envelope produced for every delivery.
// Exactly one of the pointer fields is set, matching Status.
type Result struct {
	Status     string           `json:"status"`
	Classified *Classified      `json:"classified,omitempty"`
	Rejection  *ValidationError `json:"rejection,omitempty"`
	Degraded   *Degraded        `json:"degraded,omitempty"`
}

// Tag returns the classification tag of the result, TagUnknown for
// degraded outcomes and the empty string for rejections.
func (r *Result) Tag() string {
	switch {
	case r.Classified != nil:
		return r.Classified.Tag
	case r.Degraded != nil:
		return r.Degraded.Tag
	}
	return ""
}
