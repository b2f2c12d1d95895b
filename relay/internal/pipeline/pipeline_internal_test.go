package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/lotwire-systems/lotwire-relay/common/models"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/classify"
)

func classifiableDelivery() *models.Delivery {
	return &models.Delivery{
		ReceivedAt: 1766400000000,
		Raw: map[string]interface{}{
			"dealer_id":   "d-204",
			"customer_id": "c-9611",
			"received_at": int64(1766400000000),
			"notification": map[string]interface{}{
				"id":   "n-1",
				"kind": "task_due",
			},
		},
	}
}

func TestProcess_PanicDegradesInsteadOfCrashing(t *testing.T) {
	classifyFn = func(string, map[string]interface{}) (classify.Classification, error) {
		panic("rule table corrupted")
	}
	defer func() { classifyFn = classify.Classify }()

	result := Process(classifiableDelivery())

	if result.Status != models.StatusDegraded {
		t.Fatalf("Status = %q, want %q", result.Status, models.StatusDegraded)
	}
	if result.Degraded.Tag != models.TagUnknown {
		t.Errorf("Tag = %q, want %q", result.Degraded.Tag, models.TagUnknown)
	}
	if !strings.Contains(result.Degraded.Reason, "panic") ||
		!strings.Contains(result.Degraded.Reason, "rule table corrupted") {
		t.Errorf("Reason = %q, want the panic detail", result.Degraded.Reason)
	}
	if result.Degraded.Raw["dealer_id"] != "d-204" {
		t.Errorf("raw payload not preserved: %v", result.Degraded.Raw)
	}
}

func TestProcess_UnexpectedClassifierErrorDegrades(t *testing.T) {
	classifyFn = func(string, map[string]interface{}) (classify.Classification, error) {
		return classify.Classification{}, errors.New("enum table unavailable")
	}
	defer func() { classifyFn = classify.Classify }()

	result := Process(classifiableDelivery())

	if result.Status != models.StatusDegraded {
		t.Fatalf("Status = %q, want %q", result.Status, models.StatusDegraded)
	}
	if !strings.Contains(result.Degraded.Reason, "enum table unavailable") {
		t.Errorf("Reason = %q, want the classifier error", result.Degraded.Reason)
	}
}
