// Package taxonomy is the classification contract between the relay and
// its downstream consumers: the recognized webhook categories, the closed
// tag enumerations, and the per-category identity policy. The enum tables
// are owned by the destination team; the relay never guesses a tag that
// is not listed here.
package taxonomy

import "sort"

// Recognized category sub-object keys on the wire.
const (
	CategoryAppointment   = "appointment"
	CategoryCommunication = "communication"
	CategoryNotification  = "notification"
	CategoryShowroom      = "showroom"
	CategoryProfile       = "profile"
	CategoryStatus        = "status"
)

// Appointment lifecycle tags.
const (
	TagSet         = "set"
	TagConfirmed   = "confirmed"
	TagCurrent     = "current"
	TagMissed      = "missed"
	TagShown       = "shown"
	TagSold        = "sold"
	TagUnsold      = "unsold"
	TagCancelled   = "cancelled"
	TagRescheduled = "rescheduled"
	TagDeleted     = "deleted"
)

// Communication disposition and SMS consent tags.
const (
	TagVoicemail = "voicemail"
	TagNoAnswer  = "no_answer"
	TagBadNumber = "bad_number"
	TagConnected = "connected"
	TagSMSOptIn  = "sms_opt_in"
	TagSMSOptOut = "sms_opt_out"
	TagLogged    = "logged"
)

// Notification tags.
const (
	TagEscalated       = "escalated"
	TagLeadAssigned    = "lead_assigned"
	TagLeadReassigned  = "lead_reassigned"
	TagTaskDue         = "task_due"
	TagMessageReceived = "message_received"
	TagCampaignReply   = "campaign_reply"
)

// Showroom visit tags.
const (
	TagArrived = "arrived"
	TagWaiting = "waiting"
	TagWithRep = "with_rep"
	TagLeft    = "left"
)

// Customer profile change tags.
const (
	TagCreated  = "created"
	TagUpdated  = "updated"
	TagMerged   = "merged"
	TagArchived = "archived"
)

// Sales pipeline stage tags.
const (
	TagNew         = "new"
	TagWorking     = "working"
	TagNegotiation = "negotiation"
	TagLost        = "lost"
	TagInactive    = "inactive"
)

// Upstream status sentinels the appointment cascade keys on.
const (
	StatusActive      = "active"
	StatusRescheduled = "rescheduled"
)

// Category describes the contract for one webhook family: where its
// payload lives on the wire, how its identity is fingerprinted, and
// which aggregate field is its identifier.
type Category struct {
	// Name is the wire key of the category sub-object.
	Name string
	// Namespace prefixes the fingerprint hash input so identical content
	// in two categories can never share an identity.
	Namespace string
	// IncludeArrival selects the primary fingerprint flavor. True gives
	// every physical delivery its own identity (lifecycle events that
	// legitimately recur); false collapses redeliveries of the same
	// content onto one logical event.
	IncludeArrival bool
	// IdentityField is the aggregate field excluded from provenance
	// stamping.
	IdentityField string
}

var categories = map[string]Category{
	CategoryAppointment: {
		Name:           CategoryAppointment,
		Namespace:      "appointments",
		IncludeArrival: true,
		IdentityField:  "id",
	},
	CategoryCommunication: {
		Name:           CategoryCommunication,
		Namespace:      "communications",
		IncludeArrival: false,
		IdentityField:  "id",
	},
	CategoryNotification: {
		Name:           CategoryNotification,
		Namespace:      "notifications",
		IncludeArrival: false,
		IdentityField:  "id",
	},
	CategoryShowroom: {
		Name:           CategoryShowroom,
		Namespace:      "showroom-visits",
		IncludeArrival: false,
		IdentityField:  "id",
	},
	CategoryProfile: {
		Name:           CategoryProfile,
		Namespace:      "customer-profiles",
		IncludeArrival: false,
		IdentityField:  "customer_id",
	},
	CategoryStatus: {
		Name:           CategoryStatus,
		Namespace:      "pipeline-status",
		IncludeArrival: false,
		IdentityField:  "customer_id",
	},
}

// ByName resolves a category by its wire key.
func ByName(name string) (Category, bool) {
	c, ok := categories[name]
	return c, ok
}

// Names returns the recognized category keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AppointmentStatuses is the closed map from upstream appointment status
// strings to tags. "rescheduled" is deliberately absent: without the
// successor reference checked earlier in the cascade, a reschedule
// carries no evidence for its tag and the delivery is refused.
var AppointmentStatuses = map[string]string{
	"active":    TagCurrent,
	"missed":    TagMissed,
	"shown":     TagShown,
	"sold":      TagSold,
	"unsold":    TagUnsold,
	"cancelled": TagCancelled,
	"deleted":   TagDeleted,
}

// CommunicationChannels is the closed set of recognized channels.
var CommunicationChannels = map[string]struct{}{
	"call":  {},
	"sms":   {},
	"email": {},
}

// NotificationKinds is the closed map from notification kind strings to
// tags.
var NotificationKinds = map[string]string{
	"lead_assigned":    TagLeadAssigned,
	"lead_reassigned":  TagLeadReassigned,
	"task_due":         TagTaskDue,
	"message_received": TagMessageReceived,
	"campaign_reply":   TagCampaignReply,
}

// ShowroomStatuses is the closed map from visit status strings to tags.
var ShowroomStatuses = map[string]string{
	"arrived":  TagArrived,
	"waiting":  TagWaiting,
	"with_rep": TagWithRep,
	"left":     TagLeft,
}

// ProfileActions is the closed map from profile change actions to tags.
var ProfileActions = map[string]string{
	"created":  TagCreated,
	"updated":  TagUpdated,
	"merged":   TagMerged,
	"archived": TagArchived,
}

// PipelineStages is the closed map from sales pipeline stages to tags.
var PipelineStages = map[string]string{
	"new":         TagNew,
	"working":     TagWorking,
	"negotiation": TagNegotiation,
	"sold":        TagSold,
	"lost":        TagLost,
	"inactive":    TagInactive,
}
