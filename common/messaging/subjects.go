// Package messaging defines standard subject names for the relay message bus.
package messaging

import "strings"

// Subject constants for the relay message bus.
// Follow the pattern: {service}.{concern}.{detail}
const (
	// SubjectDLQPrefix is the base subject for dead-lettered deliveries.
	// Entries are published to relay.dlq.<reason>.
	SubjectDLQPrefix = "relay.dlq"

	// SubjectDLQWildcard matches every dead-letter subject. Used as the
	// stream subject filter and by consumers that read the whole queue.
	SubjectDLQWildcard = "relay.dlq.>"
)

// Queue group names for load-balanced consumers.
// Workers in the same queue group share messages (each message processed once).
const (
	QueueDLQWorkers = "relay-dlq-workers"
)

// DLQSubject returns the dead-letter subject for a failure reason.
// Example: relay.dlq.rejected
//
// Reasons come from a closed set, but the subject must stay a valid NATS
// token even if a caller passes something odd, so separators and wildcard
// characters are replaced.
func DLQSubject(reason string) string {
	return SubjectDLQPrefix + "." + subjectToken(reason)
}

// subjectToken makes s safe to embed as a single NATS subject token.
func subjectToken(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ' ', '\t', '*', '>':
			return '_'
		}
		return r
	}, strings.ToLower(s))
}
