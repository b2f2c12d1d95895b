// Package client talks to the relay HTTP API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lotwire-systems/lotwire-relay/common/signature"
)

// RelayClient is a thin wrapper over the relay's public and admin
// endpoints.
type RelayClient struct {
	baseURL string
	client  *http.Client
}

func NewRelayClient(baseURL string) *RelayClient {
	return &RelayClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// DeliveryResult is the intake answer: classification fields for
// accepted deliveries, code/field for rejections.
type DeliveryResult struct {
	Status              string `json:"status"`
	Category            string `json:"category,omitempty"`
	Tag                 string `json:"tag,omitempty"`
	Fingerprint         string `json:"fingerprint,omitempty"`
	LogicalFingerprint  string `json:"logical_fingerprint,omitempty"`
	DeliveryFingerprint string `json:"delivery_fingerprint,omitempty"`
	Duplicate           bool   `json:"duplicate,omitempty"`
	Code                string `json:"code,omitempty"`
	Field               string `json:"field,omitempty"`
	Error               string `json:"error,omitempty"`
	RequestID           string `json:"request_id,omitempty"`
}

// ClassifyOutcome mirrors the relay's dry-run result envelope.
type ClassifyOutcome struct {
	Status     string `json:"status"`
	Classified *struct {
		Category            string                 `json:"category"`
		Tag                 string                 `json:"tag"`
		DealerID            string                 `json:"dealer_id"`
		CustomerID          string                 `json:"customer_id"`
		Fingerprint         string                 `json:"fingerprint"`
		LogicalFingerprint  string                 `json:"logical_fingerprint"`
		DeliveryFingerprint string                 `json:"delivery_fingerprint"`
		Aggregate           map[string]interface{} `json:"aggregate"`
	} `json:"classified,omitempty"`
	Rejection *struct {
		Code    string `json:"code"`
		Field   string `json:"field,omitempty"`
		Message string `json:"message"`
	} `json:"rejection,omitempty"`
	Degraded *struct {
		Tag    string `json:"tag"`
		Reason string `json:"reason"`
	} `json:"degraded,omitempty"`
}

// DLQEntry is one dead-lettered delivery as the admin API reports it.
type DLQEntry struct {
	ID         string                 `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	Source     string                 `json:"source"`
	DeliveryID string                 `json:"delivery_id,omitempty"`
	Reason     string                 `json:"reason"`
	Error      string                 `json:"error"`
	Payload    map[string]interface{} `json:"payload"`
}

// Send posts one webhook delivery. The payload is signed when a signing
// secret is given. Rejections come back as a result, not an error: the
// relay answered, and the caller wants to see the code.
func (c *RelayClient) Send(source string, payload []byte, signingSecret, deliveryID string) (*DeliveryResult, error) {
	req, err := http.NewRequest("POST", c.baseURL+"/v1/webhooks/"+source+"/events", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if signingSecret != "" {
		req.Header.Set(signature.Header, signature.New(signingSecret).Sign(payload))
	}
	if deliveryID != "" {
		req.Header.Set("X-Delivery-Id", deliveryID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted, http.StatusOK, http.StatusUnprocessableEntity:
		var result DeliveryResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &result, nil
	default:
		return nil, apiError(resp)
	}
}

// Classify runs the relay's dry-run endpoint against the payload.
func (c *RelayClient) Classify(payload []byte) (*ClassifyOutcome, error) {
	req, err := http.NewRequest("POST", c.baseURL+"/v1/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var outcome ClassifyOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &outcome, nil
}

// DLQList fetches up to limit dead-lettered deliveries.
func (c *RelayClient) DLQList(token string, limit int) ([]DLQEntry, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/v1/admin/dlq?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var body struct {
		Entries []DLQEntry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.Entries, nil
}

// DLQPurge drops every entry in the queue.
func (c *RelayClient) DLQPurge(token string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+"/v1/admin/dlq", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// DLQStats fetches queue depth and the by-reason breakdown.
func (c *RelayClient) DLQStats(token string) (map[string]interface{}, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/v1/admin/dlq/stats", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return stats, nil
}

// apiError turns a non-2xx response into an error carrying the relay's
// error message when one is present.
func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("relay returned status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("relay returned status %d", resp.StatusCode)
}
