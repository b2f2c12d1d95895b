// Package destclient forwards classified outcomes to the marketing
// destination. The destination performs the provenance-driven merge; the
// relay only delivers.
package destclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lotwire-systems/lotwire-relay/common/models"
)

// HeaderAPIKey authenticates the relay to the destination.
const HeaderAPIKey = "X-API-Key"

// Client posts classified outcomes to the configured destination URL.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// New constructs a client for the destination endpoint.
func New(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Forward delivers one classified outcome. A non-2xx response is an
// error; the caller routes those to the DLQ so the event is not lost.
func (c *Client) Forward(ctx context.Context, classified *models.Classified) error {
	if c == nil {
		return fmt.Errorf("destination not configured")
	}

	reqBody := map[string]interface{}{
		"fingerprint":      classified.Fingerprint,
		"category":         classified.Category,
		"tag":              classified.Tag,
		"dealer_id":        classified.DealerID,
		"customer_id":      classified.CustomerID,
		"aggregate":        classified.Aggregate,
		"last_received_at": classified.LastReceivedAt,
		"last_received_by": classified.LastReceivedBy,
		"arrival":          classified.ReceivedAt,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		request.Header.Set(HeaderAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("send outcome: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return fmt.Errorf("destination response status %d: %s", resp.StatusCode, errBody["error"])
	}

	return nil
}
