package logging

import "log/slog"

// Common field names for consistent logging across the relay and CLI.
const (
	FieldService     = "service"
	FieldSource      = "source"
	FieldIP          = "ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatus      = "status"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldDeliveryID  = "delivery_id"
	FieldDealerID    = "dealer_id"
	FieldCustomerID  = "customer_id"
	FieldCategory    = "category"
	FieldTag         = "tag"
	FieldRule        = "rule"
	FieldFingerprint = "fingerprint"
	FieldReason      = "reason"
	FieldSubject     = "subject"
	FieldCount       = "count"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Source returns a slog attribute for the upstream source identifier.
func Source(source string) slog.Attr {
	return slog.String(FieldSource, source)
}

// IP returns a slog attribute for the client IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// DeliveryID returns a slog attribute for the transport delivery id.
func DeliveryID(id string) slog.Attr {
	return slog.String(FieldDeliveryID, id)
}

// Dealer returns a slog attribute for the dealer id.
func Dealer(id string) slog.Attr {
	return slog.String(FieldDealerID, id)
}

// Customer returns a slog attribute for the customer id.
func Customer(id string) slog.Attr {
	return slog.String(FieldCustomerID, id)
}

// Category returns a slog attribute for the event category.
func Category(name string) slog.Attr {
	return slog.String(FieldCategory, name)
}

// Tag returns a slog attribute for the classified tag.
func Tag(tag string) slog.Attr {
	return slog.String(FieldTag, tag)
}

// Rule returns a slog attribute for the classifier rule that matched.
func Rule(name string) slog.Attr {
	return slog.String(FieldRule, name)
}

// Fingerprint returns a slog attribute for an event fingerprint.
func Fingerprint(fp string) slog.Attr {
	return slog.String(FieldFingerprint, fp)
}

// Reason returns a slog attribute for a rejection or DLQ reason.
func Reason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// Subject returns a slog attribute for a message bus subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}

// Count returns a slog attribute for a generic count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}
