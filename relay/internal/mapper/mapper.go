// Package mapper builds destination aggregates from upstream category
// payloads: renames CRM field names to the destination's vocabulary,
// applies cosmetic formatting, and drops fields that carry no value.
package mapper

import (
	"strings"

	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/internal/format"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

// field maps one upstream key to one destination key, with an optional
// formatting transform applied to present values.
type field struct {
	src       string
	dst       string
	transform func(interface{}) interface{}
}

// builder describes one category's aggregate: its rename table, the
// destination key that identifies the entity, and any extra shaping that
// a flat rename table cannot express.
type builder struct {
	identity string
	fields   []field
	finish   func(payload, aggregate map[string]interface{})
}

var builders = map[string]builder{
	taxonomy.CategoryAppointment: {
		identity: "appointment_id",
		fields: []field{
			{src: "id", dst: "appointment_id"},
			{src: "status", dst: "status"},
			{src: "confirmed", dst: "confirmed"},
			{src: "scheduled_at", dst: "scheduled_for", transform: asDate},
			{src: "rescheduled_to", dst: "rescheduled_to"},
			{src: "notes", dst: "notes", transform: asText},
		},
		finish: appointmentAdvisor,
	},
	taxonomy.CategoryCommunication: {
		identity: "communication_id",
		fields: []field{
			{src: "id", dst: "communication_id"},
			{src: "channel", dst: "channel"},
			{src: "direction", dst: "direction"},
			{src: "note", dst: "note", transform: asText},
			{src: "body", dst: "body", transform: asText},
			{src: "phone", dst: "phone", transform: asPhone},
			{src: "rep_name", dst: "rep", transform: asName},
			{src: "occurred_at", dst: "occurred_at", transform: asDate},
			{src: "duration_seconds", dst: "duration_seconds"},
		},
	},
	taxonomy.CategoryNotification: {
		identity: "notification_id",
		fields: []field{
			{src: "id", dst: "notification_id"},
			{src: "kind", dst: "kind"},
			{src: "escalated", dst: "escalated"},
			{src: "message", dst: "message", transform: asText},
			{src: "due_at", dst: "due_at", transform: asDate},
			{src: "assignee", dst: "assignee", transform: asName},
		},
	},
	taxonomy.CategoryShowroom: {
		identity: "visit_id",
		fields: []field{
			{src: "id", dst: "visit_id"},
			{src: "status", dst: "status"},
			{src: "arrived_at", dst: "arrived_at", transform: asDate},
			{src: "rep_name", dst: "rep", transform: asName},
			{src: "vehicle_of_interest", dst: "vehicle_of_interest", transform: asText},
		},
	},
	taxonomy.CategoryProfile: {
		identity: "customer_id",
		fields: []field{
			{src: "customer_id", dst: "customer_id"},
			{src: "action", dst: "action"},
			{src: "first_name", dst: "first_name", transform: asName},
			{src: "last_name", dst: "last_name", transform: asName},
			{src: "phone", dst: "phone", transform: asPhone},
			{src: "email", dst: "email", transform: asEmail},
			{src: "address", dst: "address"},
		},
	},
	taxonomy.CategoryStatus: {
		identity: "customer_id",
		fields: []field{
			{src: "customer_id", dst: "customer_id"},
			{src: "stage", dst: "stage"},
			{src: "previous_stage", dst: "previous_stage"},
			{src: "changed_at", dst: "changed_at", transform: asDate},
			{src: "reason", dst: "reason", transform: asText},
		},
	},
}

// Build returns the destination aggregate for a category payload and the
// aggregate key that identifies the entity. Absent and empty upstream
// fields never reach the aggregate. Build is total: an unknown category
// yields an empty aggregate.
func Build(category string, payload map[string]interface{}) (map[string]interface{}, string) {
	aggregate := make(map[string]interface{})

	b, ok := builders[category]
	if !ok {
		return aggregate, ""
	}

	for _, f := range b.fields {
		v := value.Normalize(payload[f.src])
		if !value.HasValue(v) {
			continue
		}
		if f.transform != nil {
			v = f.transform(v)
		}
		if value.HasValue(v) {
			aggregate[f.dst] = v
		}
	}

	if b.finish != nil {
		b.finish(payload, aggregate)
	}

	return aggregate, b.identity
}

// IdentityKey returns the aggregate key identifying entities of a
// category, without building anything.
func IdentityKey(category string) string {
	return builders[category].identity
}

// appointmentAdvisor flattens the assignment sub-object into advisor
// fields on the aggregate.
func appointmentAdvisor(payload, aggregate map[string]interface{}) {
	assigned, ok := value.Map(payload, "assigned_to")
	if !ok {
		return
	}
	if name, ok := value.String(assigned, "name"); ok {
		aggregate["advisor"] = format.Name(name)
	}
	if repID, ok := value.String(assigned, "rep_id"); ok {
		aggregate["advisor_id"] = repID
	}
}

func asDate(v interface{}) interface{} {
	return format.Date(v)
}

func asText(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return format.StripHTML(s)
	}
	return v
}

func asName(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return format.Name(s)
	}
	return v
}

func asPhone(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return format.Phone(s)
	}
	return v
}

func asEmail(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return v
}
