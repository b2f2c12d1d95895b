package taxonomy

import "testing"

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		if !ok {
			t.Errorf("ByName(%q) not found", name)
			continue
		}
		if c.Name != name {
			t.Errorf("category %q reports name %q", name, c.Name)
		}
		if c.Namespace == "" {
			t.Errorf("category %q has no namespace", name)
		}
		if c.IdentityField == "" {
			t.Errorf("category %q has no identity field", name)
		}
	}

	if _, ok := ByName("invoice"); ok {
		t.Error("unknown categories must not resolve")
	}
}

func TestNamespacesAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, name := range Names() {
		c, _ := ByName(name)
		if other, dup := seen[c.Namespace]; dup {
			t.Errorf("namespace %q shared by %q and %q", c.Namespace, name, other)
		}
		seen[c.Namespace] = name
	}
}

func TestOnlyAppointmentsUseDeliveryIdentity(t *testing.T) {
	for _, name := range Names() {
		c, _ := ByName(name)
		want := name == CategoryAppointment
		if c.IncludeArrival != want {
			t.Errorf("category %q IncludeArrival = %v, want %v", name, c.IncludeArrival, want)
		}
	}
}

func TestAppointmentStatusMapIsClosed(t *testing.T) {
	valid := map[string]struct{}{
		TagCurrent: {}, TagMissed: {}, TagShown: {}, TagSold: {},
		TagUnsold: {}, TagCancelled: {}, TagDeleted: {},
	}
	for status, tag := range AppointmentStatuses {
		if _, ok := valid[tag]; !ok {
			t.Errorf("status %q maps to unexpected tag %q", status, tag)
		}
	}

	// The cascade handles reschedules explicitly; the fallback map must
	// not offer a second path to the tag.
	if _, present := AppointmentStatuses[StatusRescheduled]; present {
		t.Error("rescheduled must not appear in the closed status map")
	}
	if AppointmentStatuses[StatusActive] != TagCurrent {
		t.Errorf("active should map to %q, got %q", TagCurrent, AppointmentStatuses[StatusActive])
	}
}

func TestClosedMapsCoverDocumentedValues(t *testing.T) {
	tests := []struct {
		name   string
		m      map[string]string
		values []string
	}{
		{name: "notification kinds", m: NotificationKinds, values: []string{"lead_assigned", "lead_reassigned", "task_due", "message_received", "campaign_reply"}},
		{name: "showroom statuses", m: ShowroomStatuses, values: []string{"arrived", "waiting", "with_rep", "left"}},
		{name: "profile actions", m: ProfileActions, values: []string{"created", "updated", "merged", "archived"}},
		{name: "pipeline stages", m: PipelineStages, values: []string{"new", "working", "negotiation", "sold", "lost", "inactive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.m) != len(tt.values) {
				t.Errorf("map has %d entries, want %d", len(tt.m), len(tt.values))
			}
			for _, v := range tt.values {
				if _, ok := tt.m[v]; !ok {
					t.Errorf("missing value %q", v)
				}
			}
		})
	}
}
