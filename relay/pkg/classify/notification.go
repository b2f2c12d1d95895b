package classify

import (
	"github.com/lotwire-systems/lotwire-relay/common/value"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

// notificationCascade resolves internal lead/task notifications. The
// escalation flag overrides the kind map the same way an appointment's
// confirmation flag overrides its status text.
var notificationCascade = &Cascade{
	Category: taxonomy.CategoryNotification,
	Rules: []Rule{
		{
			Name: "escalation-flag",
			Match: func(p map[string]interface{}) bool {
				escalated, ok := value.Bool(p, "escalated")
				return ok && escalated
			},
			Tag: taxonomy.TagEscalated,
		},
	},
	Fallback: enumFallback("kind", taxonomy.NotificationKinds, "notification"),
}

// The remaining categories are single closed-map cascades. They run
// through the same machinery so every category rejects unknown enum
// values the same way.
var (
	showroomCascade = &Cascade{
		Category: taxonomy.CategoryShowroom,
		Fallback: enumFallback("status", taxonomy.ShowroomStatuses, "showroom visit"),
	}

	profileCascade = &Cascade{
		Category: taxonomy.CategoryProfile,
		Fallback: enumFallback("action", taxonomy.ProfileActions, "profile change"),
	}

	statusCascade = &Cascade{
		Category: taxonomy.CategoryStatus,
		Fallback: enumFallback("stage", taxonomy.PipelineStages, "pipeline status"),
	}
)
