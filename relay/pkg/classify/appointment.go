package classify

import (
	"strings"
	"time"

	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

// appointmentCascade resolves appointment lifecycle events. Order
// matters: an explicit confirmation beats every status-text rule, and
// the reschedule rule must see its successor reference before the
// fallback map gets a chance to refuse the status.
var appointmentCascade = &Cascade{
	Category: taxonomy.CategoryAppointment,
	Rules: []Rule{
		{
			Name: "confirmation-flag",
			Match: func(p map[string]interface{}) bool {
				confirmed, ok := value.Bool(p, "confirmed")
				return ok && confirmed
			},
			Tag: taxonomy.TagConfirmed,
		},
		{
			Name:  "active-with-set-evidence",
			Match: matchSetEvidence,
			Tag:   taxonomy.TagSet,
		},
		{
			Name: "reschedule-with-successor",
			Match: func(p map[string]interface{}) bool {
				status, ok := value.String(p, "status")
				if !ok || fold(status) != taxonomy.StatusRescheduled {
					return false
				}
				_, hasSuccessor := value.String(p, "rescheduled_to")
				return hasSuccessor
			},
			Tag: taxonomy.TagRescheduled,
		},
	},
	Fallback: enumFallback("status", taxonomy.AppointmentStatuses, "appointment"),
}

// matchSetEvidence recognizes a freshly set appointment: status "active"
// with a scheduled time, plus evidence that somebody actually scheduled
// it. The evidence is an assignment sub-object, or failing that a
// scheduled time on a quarter-hour boundary, since scheduler-created
// slots snap to those. The boundary test is a documented heuristic
// standing in for missing assignment data: it false-positives on
// walk-ins that happen to land on a slot and false-negatives on
// deliberately off-slot appointments. Accepted trade-off; do not
// tighten it here without agreement from the destination team.
func matchSetEvidence(p map[string]interface{}) bool {
	status, ok := value.String(p, "status")
	if !ok || fold(status) != taxonomy.StatusActive {
		return false
	}

	when, ok := scheduledAt(p)
	if !ok {
		return false
	}

	if _, assigned := value.Map(p, "assigned_to"); assigned {
		return true
	}
	return when.Minute()%15 == 0
}

// scheduledAt reads the appointment's scheduled time. Upstream CRMs send
// either RFC 3339 strings or epoch milliseconds.
func scheduledAt(p map[string]interface{}) (time.Time, bool) {
	if s, ok := value.String(p, "scheduled_at"); ok {
		trimmed := strings.TrimSpace(s)
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if ms, ok := value.Int64(p, "scheduled_at"); ok {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}
