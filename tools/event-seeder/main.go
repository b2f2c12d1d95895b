// Command event-seeder floods a relay with realistic dealership CRM
// webhooks: fake deliveries across all six categories, a configurable
// share of exact redeliveries to exercise the idempotency path, and an
// NDJSON mode for generating fixture files offline.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/lotwire-systems/lotwire-relay/common/signature"
	"github.com/lotwire-systems/lotwire-relay/relay/pkg/taxonomy"
)

var (
	relayURL      = flag.String("relay-url", "http://localhost:8095", "Relay base URL")
	source        = flag.String("source", "seeder", "Source connector name in the intake path")
	secret        = flag.String("secret", "", "Webhook signing secret (requests go unsigned when empty)")
	count         = flag.Int("count", 100, "Number of deliveries to generate")
	interval      = flag.Duration("interval", 50*time.Millisecond, "Pause between sends")
	categoryFlag  = flag.String("categories", strings.Join(taxonomy.Names(), ","), "Comma-separated categories to draw from")
	duplicateRate = flag.Float64("duplicate-rate", 0.1, "Fraction of deliveries re-sent with the same delivery id")
	dealerCount   = flag.Int("dealers", 5, "Distinct dealers in the pool")
	customerCount = flag.Int("customers", 50, "Distinct customers in the pool")
	ndjson        = flag.Bool("ndjson", false, "Write deliveries to stdout as NDJSON instead of sending")
)

func main() {
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	categories, err := parseCategories(*categoryFlag)
	if err != nil {
		log.Fatalf("Invalid -categories: %v", err)
	}

	dealers := idPool("d", *dealerCount)
	customers := idPool("c", *customerCount)

	if *ndjson {
		enc := json.NewEncoder(os.Stdout)
		for i := 0; i < *count; i++ {
			delivery := generateDelivery(pick(categories), pick(dealers), pick(customers))
			if err := enc.Encode(delivery); err != nil {
				log.Fatalf("Failed to encode delivery: %v", err)
			}
		}
		return
	}

	log.Printf("Starting delivery seeder:")
	log.Printf("  Relay URL: %s", *relayURL)
	log.Printf("  Source: %s", *source)
	log.Printf("  Delivery count: %d", *count)
	log.Printf("  Categories: %v", categories)
	log.Printf("  Duplicate rate: %.0f%%", *duplicateRate*100)

	client := &http.Client{Timeout: 10 * time.Second}

	accepted := 0
	duplicates := 0
	rejected := 0
	failed := 0

	for i := 0; i < *count; i++ {
		delivery := generateDelivery(pick(categories), pick(dealers), pick(customers))
		deliveryID := "whd-" + gofakeit.UUID()[:8]

		status, err := sendDelivery(client, delivery, deliveryID)
		switch {
		case err != nil:
			log.Printf("Failed to send delivery: %v", err)
			failed++
		case status == http.StatusUnprocessableEntity:
			rejected++
		default:
			accepted++
		}

		// Re-send the same bytes under the same delivery id to give the
		// dedup cache something to catch.
		if err == nil && rand.Float64() < *duplicateRate {
			if _, err := sendDelivery(client, delivery, deliveryID); err != nil {
				log.Printf("Failed to re-send duplicate: %v", err)
				failed++
			} else {
				duplicates++
			}
		}

		if (i+1)%50 == 0 {
			log.Printf("Progress: %d/%d deliveries", i+1, *count)
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("Seeding complete:")
	log.Printf("  Accepted: %d", accepted)
	log.Printf("  Duplicates re-sent: %d", duplicates)
	log.Printf("  Rejected: %d", rejected)
	log.Printf("  Failed: %d", failed)
}

// parseCategories splits the flag value and validates every name against
// the recognized taxonomy keys.
func parseCategories(s string) ([]string, error) {
	var categories []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := taxonomy.ByName(name); !ok {
			return nil, fmt.Errorf("%q is not a category (known: %s)", name, strings.Join(taxonomy.Names(), ", "))
		}
		categories = append(categories, name)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories selected")
	}
	return categories, nil
}

// idPool builds stable correlation ids so a run clusters activity on a
// realistic number of dealers and customers.
func idPool(prefix string, n int) []string {
	if n < 1 {
		n = 1
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", prefix, 1000+i)
	}
	return ids
}

func pick(items []string) string {
	return items[rand.Intn(len(items))]
}

// generateDelivery assembles one webhook: the correlation keys at the
// top level and a single category sub-object, the shape the relay's
// classifier expects.
func generateDelivery(category, dealerID, customerID string) map[string]interface{} {
	var payload map[string]interface{}
	switch category {
	case taxonomy.CategoryAppointment:
		payload = generateAppointment()
	case taxonomy.CategoryCommunication:
		payload = generateCommunication()
	case taxonomy.CategoryNotification:
		payload = generateNotification()
	case taxonomy.CategoryShowroom:
		payload = generateShowroom()
	case taxonomy.CategoryProfile:
		payload = generateProfile(customerID)
	case taxonomy.CategoryStatus:
		payload = generateStatus(customerID)
	default:
		payload = generateAppointment()
	}

	return map[string]interface{}{
		"dealer_id":   dealerID,
		"customer_id": customerID,
		"event_id":    gofakeit.UUID(),
		category:      payload,
	}
}

func generateAppointment() map[string]interface{} {
	statuses := []string{"active", "missed", "shown", "sold", "unsold", "cancelled", "deleted"}
	status := pick(statuses)

	// Scheduler-created slots snap to quarter hours; walk-ins don't.
	scheduled := time.Now().Add(time.Duration(rand.Intn(14*24)) * time.Hour).UTC()
	if rand.Float32() < 0.7 {
		scheduled = scheduled.Truncate(15 * time.Minute)
	}

	appt := map[string]interface{}{
		"id":           "appt-" + gofakeit.UUID()[:8],
		"status":       status,
		"scheduled_at": scheduled.Format(time.RFC3339),
		"notes":        fmt.Sprintf("Interested in a %s %s", gofakeit.CarMaker(), gofakeit.CarModel()),
	}

	if rand.Float32() < 0.25 {
		appt["confirmed"] = true
	}
	if rand.Float32() < 0.4 {
		appt["assigned_to"] = map[string]interface{}{
			"rep_id": "rep-" + gofakeit.UUID()[:8],
			"name":   gofakeit.Name(),
		}
	}
	if rand.Float32() < 0.1 {
		appt["status"] = "rescheduled"
		appt["rescheduled_to"] = "appt-" + gofakeit.UUID()[:8]
	}

	return appt
}

func generateCommunication() map[string]interface{} {
	comm := map[string]interface{}{
		"id":          "comm-" + gofakeit.UUID()[:8],
		"direction":   pick([]string{"inbound", "outbound"}),
		"rep_name":    gofakeit.Name(),
		"occurred_at": time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour).UTC().Format(time.RFC3339),
	}

	switch pick([]string{"call", "sms", "email"}) {
	case "call":
		comm["channel"] = "call"
		comm["phone"] = gofakeit.Phone()
		comm["duration_seconds"] = rand.Intn(600)
		comm["note"] = pick([]string{
			"Left a voicemail about the service appointment",
			"No answer after six rings",
			"Spoke with customer about the trade-in value",
			"Wrong number, removed from call list",
			"Couldn't leave a message, mailbox full",
			"Talked to customer, will come in Saturday",
			"Called to confirm financing paperwork",
		})
	case "sms":
		comm["channel"] = "sms"
		comm["phone"] = gofakeit.Phone()
		if rand.Float32() < 0.2 {
			comm["body"] = pick([]string{"STOP", "UNSUBSCRIBE", "START", "YES"})
		} else {
			comm["body"] = pick([]string{
				"Is the blue one still available?",
				"Running 10 minutes late",
				"Can you send the out-the-door price?",
				"Thanks, see you tomorrow",
			})
		}
	default:
		comm["channel"] = "email"
		comm["note"] = "Sent follow-up email with the window sticker"
	}

	return comm
}

func generateNotification() map[string]interface{} {
	kinds := []string{"lead_assigned", "lead_reassigned", "task_due", "message_received", "campaign_reply"}

	n := map[string]interface{}{
		"id":       "ntf-" + gofakeit.UUID()[:8],
		"kind":     pick(kinds),
		"message":  gofakeit.Sentence(8),
		"assignee": gofakeit.Name(),
	}
	if rand.Float32() < 0.15 {
		n["escalated"] = true
	}
	if rand.Float32() < 0.5 {
		n["due_at"] = time.Now().Add(time.Duration(rand.Intn(48)) * time.Hour).UTC().Format(time.RFC3339)
	}
	return n
}

func generateShowroom() map[string]interface{} {
	return map[string]interface{}{
		"id":                  "visit-" + gofakeit.UUID()[:8],
		"status":              pick([]string{"arrived", "waiting", "with_rep", "left"}),
		"arrived_at":          time.Now().Add(-time.Duration(rand.Intn(180)) * time.Minute).UTC().Format(time.RFC3339),
		"rep_name":            gofakeit.Name(),
		"vehicle_of_interest": fmt.Sprintf("%d %s %s", 2020+rand.Intn(7), gofakeit.CarMaker(), gofakeit.CarModel()),
	}
}

func generateProfile(customerID string) map[string]interface{} {
	return map[string]interface{}{
		"customer_id": customerID,
		"action":      pick([]string{"created", "updated", "merged", "archived"}),
		"first_name":  gofakeit.FirstName(),
		"last_name":   gofakeit.LastName(),
		"phone":       gofakeit.Phone(),
		"email":       gofakeit.Email(),
	}
}

func generateStatus(customerID string) map[string]interface{} {
	stages := []string{"new", "working", "negotiation", "sold", "lost", "inactive"}

	s := map[string]interface{}{
		"customer_id": customerID,
		"stage":       pick(stages),
		"changed_at":  time.Now().UTC().Format(time.RFC3339),
	}
	if rand.Float32() < 0.6 {
		s["previous_stage"] = pick(stages)
	}
	return s
}

// sendDelivery posts one delivery to the relay intake, signing it when a
// secret is configured. The HTTP status comes back so the caller can
// tell acceptance from rejection.
func sendDelivery(client *http.Client, delivery map[string]interface{}, deliveryID string) (int, error) {
	body, err := json.Marshal(delivery)
	if err != nil {
		return 0, fmt.Errorf("failed to encode delivery: %w", err)
	}

	url := *relayURL + "/v1/webhooks/" + *source + "/events"
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", deliveryID)

	if *secret != "" {
		req.Header.Set(signature.Header, signature.New(*secret).Sign(body))
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusAccepted, http.StatusOK, http.StatusUnprocessableEntity:
		return resp.StatusCode, nil
	default:
		return resp.StatusCode, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
}
