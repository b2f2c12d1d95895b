// Package nats provides JetStream persistence on top of the core client.
package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/lotwire-systems/lotwire-relay/common/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamClient is a Client with a JetStream context on the same
// connection.
type JetStreamClient struct {
	*Client
	js jetstream.JetStream
}

// StreamConfig is the subset of jetstream.StreamConfig the relay sets.
type StreamConfig struct {
	Name      string
	Subjects  []string
	MaxAge    time.Duration
	MaxBytes  int64
	MaxMsgs   int64
	Retention jetstream.RetentionPolicy
	Storage   jetstream.StorageType
}

// RelayDLQStream holds dead-lettered deliveries. Retention is
// limits-based: listing does not consume entries, and only a purge or
// MaxAge removes them.
var RelayDLQStream = StreamConfig{
	Name:      "RELAY_DLQ",
	Subjects:  []string{messaging.SubjectDLQWildcard},
	MaxAge:    7 * 24 * time.Hour,
	MaxBytes:  512 * 1024 * 1024, // 512MB
	MaxMsgs:   100000,
	Retention: jetstream.LimitsPolicy,
	Storage:   jetstream.FileStorage,
}

// NewJetStreamClient connects to NATS and opens a JetStream context on
// the connection.
func NewJetStreamClient(cfg Config) (*JetStreamClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	js, err := jetstream.New(client.conn)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &JetStreamClient{Client: client, js: js}, nil
}

// CreateOrUpdateStream idempotently provisions a stream.
func (c *JetStreamClient) CreateOrUpdateStream(ctx context.Context, cfg StreamConfig) (jetstream.Stream, error) {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Name,
		Subjects:  cfg.Subjects,
		MaxAge:    cfg.MaxAge,
		MaxBytes:  cfg.MaxBytes,
		MaxMsgs:   cfg.MaxMsgs,
		Retention: cfg.Retention,
		Storage:   cfg.Storage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.Name, err)
	}
	return stream, nil
}

// PublishSync publishes and waits for the stream's acknowledgment.
func (c *JetStreamClient) PublishSync(ctx context.Context, subject string, data []byte) (*jetstream.PubAck, error) {
	return c.js.Publish(ctx, subject, data)
}
