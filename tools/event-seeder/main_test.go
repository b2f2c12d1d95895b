package main

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lotwire-systems/lotwire-relay/relay/pkg/classify"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

func TestGenerateAppointment(t *testing.T) {
	confirmed := 0
	rescheduled := 0
	runs := 1000

	for i := 0; i < runs; i++ {
		appt := generateAppointment()

		id, _ := appt["id"].(string)
		if !strings.HasPrefix(id, "appt-") {
			t.Fatalf("expected appt- id prefix, got %v", appt["id"])
		}

		status, _ := appt["status"].(string)
		if status == "rescheduled" {
			rescheduled++
			if appt["rescheduled_to"] == nil {
				t.Error("rescheduled appointment missing rescheduled_to")
			}
		} else if _, known := taxonomy.AppointmentStatuses[status]; !known {
			t.Errorf("status %q outside the appointment enumeration", status)
		}

		scheduledAt, _ := appt["scheduled_at"].(string)
		if _, err := time.Parse(time.RFC3339, scheduledAt); err != nil {
			t.Errorf("scheduled_at %q is not RFC 3339: %v", scheduledAt, err)
		}

		if appt["confirmed"] == true {
			confirmed++
		}
	}

	// Confirmation flips on about a quarter of the time.
	confirmedRate := float64(confirmed) / float64(runs)
	if confirmedRate < 0.15 || confirmedRate > 0.35 {
		t.Errorf("confirmed rate %.2f outside expected range (0.15-0.35)", confirmedRate)
	}

	// About one in ten appointments is a reschedule.
	rescheduledRate := float64(rescheduled) / float64(runs)
	if rescheduledRate < 0.04 || rescheduledRate > 0.18 {
		t.Errorf("rescheduled rate %.2f outside expected range (0.04-0.18)", rescheduledRate)
	}
}

func TestGenerateCommunication(t *testing.T) {
	for i := 0; i < 500; i++ {
		comm := generateCommunication()

		id, _ := comm["id"].(string)
		if !strings.HasPrefix(id, "comm-") {
			t.Fatalf("expected comm- id prefix, got %v", comm["id"])
		}

		channel, _ := comm["channel"].(string)
		if _, known := taxonomy.CommunicationChannels[channel]; !known {
			t.Fatalf("channel %q outside the communication enumeration", channel)
		}

		direction, _ := comm["direction"].(string)
		if direction != "inbound" && direction != "outbound" {
			t.Errorf("unexpected direction %q", direction)
		}

		switch channel {
		case "call":
			if comm["note"] == nil || comm["phone"] == nil || comm["duration_seconds"] == nil {
				t.Error("call record missing note, phone, or duration_seconds")
			}
		case "sms":
			if comm["body"] == nil || comm["phone"] == nil {
				t.Error("sms record missing body or phone")
			}
		case "email":
			if comm["note"] == nil {
				t.Error("email record missing note")
			}
		}
	}
}

func TestGenerateNotification(t *testing.T) {
	escalated := 0
	runs := 1000

	for i := 0; i < runs; i++ {
		n := generateNotification()

		kind, _ := n["kind"].(string)
		if _, known := taxonomy.NotificationKinds[kind]; !known {
			t.Errorf("kind %q outside the notification enumeration", kind)
		}
		if n["message"] == nil || n["assignee"] == nil {
			t.Error("notification missing message or assignee")
		}
		if n["escalated"] == true {
			escalated++
		}
	}

	escalatedRate := float64(escalated) / float64(runs)
	if escalatedRate > 0.30 {
		t.Errorf("escalated rate %.2f too high (expected around 0.15)", escalatedRate)
	}
}

func TestGenerateShowroom(t *testing.T) {
	visit := generateShowroom()

	status, _ := visit["status"].(string)
	if _, known := taxonomy.ShowroomStatuses[status]; !known {
		t.Errorf("status %q outside the showroom enumeration", status)
	}

	arrivedAt, _ := visit["arrived_at"].(string)
	if _, err := time.Parse(time.RFC3339, arrivedAt); err != nil {
		t.Errorf("arrived_at %q is not RFC 3339: %v", arrivedAt, err)
	}

	vehicle, _ := visit["vehicle_of_interest"].(string)
	if vehicle == "" {
		t.Error("vehicle_of_interest is empty")
	}
}

func TestGenerateProfile(t *testing.T) {
	profile := generateProfile("c-1007")

	if profile["customer_id"] != "c-1007" {
		t.Errorf("customer_id not carried through, got %v", profile["customer_id"])
	}

	action, _ := profile["action"].(string)
	if _, known := taxonomy.ProfileActions[action]; !known {
		t.Errorf("action %q outside the profile enumeration", action)
	}

	for _, field := range []string{"first_name", "last_name", "phone", "email"} {
		if profile[field] == nil {
			t.Errorf("profile missing %s", field)
		}
	}
}

func TestGenerateStatus(t *testing.T) {
	status := generateStatus("c-1042")

	if status["customer_id"] != "c-1042" {
		t.Errorf("customer_id not carried through, got %v", status["customer_id"])
	}

	stage, _ := status["stage"].(string)
	if _, known := taxonomy.PipelineStages[stage]; !known {
		t.Errorf("stage %q outside the pipeline enumeration", stage)
	}
}

func TestGenerateDelivery_Shape(t *testing.T) {
	for _, category := range taxonomy.Names() {
		delivery := generateDelivery(category, "d-1002", "c-1042")

		if delivery["dealer_id"] != "d-1002" {
			t.Errorf("%s: dealer_id not set", category)
		}
		if delivery["customer_id"] != "c-1042" {
			t.Errorf("%s: customer_id not set", category)
		}
		if delivery["event_id"] == nil {
			t.Errorf("%s: event_id not set", category)
		}

		// Exactly one category sub-object, the one asked for.
		present := 0
		for _, name := range taxonomy.Names() {
			if _, ok := delivery[name]; ok {
				present++
			}
		}
		if present != 1 {
			t.Errorf("%s: expected exactly one category sub-object, found %d", category, present)
		}
		if _, ok := delivery[category].(map[string]interface{}); !ok {
			t.Errorf("%s: category sub-object missing or wrong type", category)
		}

		if _, err := json.Marshal(delivery); err != nil {
			t.Errorf("%s: delivery does not marshal: %v", category, err)
		}
	}
}

// Every generated payload must survive the relay's classifier; the
// seeder exists to exercise the happy path, not to manufacture
// rejections.
func TestGeneratedDeliveriesClassify(t *testing.T) {
	for _, category := range taxonomy.Names() {
		for i := 0; i < 200; i++ {
			delivery := generateDelivery(category, "d-1000", "c-1000")
			payload, ok := delivery[category].(map[string]interface{})
			if !ok {
				t.Fatalf("%s: no category payload", category)
			}

			cls, err := classify.Classify(category, payload)
			if err != nil {
				t.Fatalf("%s: generated payload rejected: %v (payload %v)", category, err, payload)
			}
			if cls.Tag == "" {
				t.Fatalf("%s: classification produced an empty tag", category)
			}
		}
	}
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "single",
			input: "appointment",
			want:  []string{"appointment"},
		},
		{
			name:  "several with whitespace",
			input: " appointment, status ,profile",
			want:  []string{"appointment", "status", "profile"},
		},
		{
			name:  "default flag value",
			input: strings.Join(taxonomy.Names(), ","),
			want:  taxonomy.Names(),
		},
		{
			name:    "unknown category",
			input:   "appointment,invoices",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCategories(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIDPool(t *testing.T) {
	pool := idPool("d", 3)
	if len(pool) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(pool))
	}
	if pool[0] != "d-1000" || pool[2] != "d-1002" {
		t.Errorf("unexpected pool contents: %v", pool)
	}

	// A zero-sized pool still yields one id so callers can index it.
	if got := idPool("c", 0); len(got) != 1 {
		t.Errorf("expected 1 id for zero pool, got %d", len(got))
	}
}
