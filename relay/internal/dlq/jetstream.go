package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lotwire-systems/lotwire-relay/common/messaging"
	"github.com/lotwire-systems/lotwire-relay/common/messaging/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// statsSample caps how many entries the by-reason breakdown reads.
const statsSample = 1000

// JetStreamQueue keeps failed deliveries in a shared NATS JetStream
// stream, so every relay instance feeds one queue and the admin API sees
// all of them.
type JetStreamQueue struct {
	js      *nats.JetStreamClient
	stream  jetstream.Stream
	written uint64
}

// NewJetStreamQueue ensures the DLQ stream exists and returns a queue
// publishing to it.
func NewJetStreamQueue(ctx context.Context, js *nats.JetStreamClient) (*JetStreamQueue, error) {
	if js == nil {
		return nil, fmt.Errorf("jetstream client is nil")
	}

	stream, err := js.CreateOrUpdateStream(ctx, nats.RelayDLQStream)
	if err != nil {
		return nil, fmt.Errorf("create dlq stream: %w", err)
	}

	log.Printf("DLQ: JetStream stream %s ready", nats.RelayDLQStream.Name)

	return &JetStreamQueue{js: js, stream: stream}, nil
}

func (q *JetStreamQueue) Add(ctx context.Context, failed *FailedDelivery) error {
	if q == nil {
		return nil
	}

	if failed.ID == "" {
		failed.ID = uuid.NewString()
	}
	if failed.Timestamp.IsZero() {
		failed.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(failed)
	if err != nil {
		log.Printf("ERROR: failed to marshal DLQ entry: %v", err)
		return err
	}

	if _, err := q.js.PublishSync(ctx, messaging.DLQSubject(failed.Reason), data); err != nil {
		log.Printf("ERROR: failed to publish DLQ entry: %v", err)
		return err
	}

	atomic.AddUint64(&q.written, 1)
	return nil
}

func (q *JetStreamQueue) List(ctx context.Context, limit int) ([]FailedDelivery, error) {
	if q == nil {
		return nil, errNotEnabled
	}
	if limit <= 0 {
		limit = 100
	}

	msgs, err := q.fetch(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]FailedDelivery, 0, limit)
	for msg := range msgs.Messages() {
		var failed FailedDelivery
		if err := json.Unmarshal(msg.Data(), &failed); err != nil {
			log.Printf("ERROR: failed to parse DLQ message: %v", err)
			continue
		}
		entries = append(entries, failed)
	}

	if msgs.Error() != nil {
		log.Printf("WARN: DLQ fetch completed with error: %v", msgs.Error())
	}

	return entries, nil
}

func (q *JetStreamQueue) Purge(ctx context.Context) error {
	if q == nil {
		return errNotEnabled
	}

	if err := q.stream.Purge(ctx); err != nil {
		return fmt.Errorf("purge dlq stream: %w", err)
	}
	return nil
}

func (q *JetStreamQueue) Stats(ctx context.Context) map[string]interface{} {
	if q == nil {
		return map[string]interface{}{"enabled": false, "backend": "jetstream"}
	}

	stats := map[string]interface{}{
		"enabled": true,
		"backend": "jetstream",
		"written": atomic.LoadUint64(&q.written),
	}

	info, err := q.stream.Info(ctx)
	if err != nil {
		log.Printf("ERROR: failed to get DLQ stream info: %v", err)
		stats["error"] = err.Error()
		return stats
	}
	stats["pending"] = info.State.Msgs
	stats["total_bytes"] = info.State.Bytes

	// The breakdown reads back a bounded sample; exact when the stream
	// holds fewer than statsSample entries.
	byReason := make(map[string]int)
	if entries, err := q.List(ctx, statsSample); err == nil {
		for _, e := range entries {
			byReason[e.Reason]++
		}
	}
	stats["by_reason"] = byReason

	return stats
}

func (q *JetStreamQueue) Close() error {
	return nil
}

// fetch reads up to limit entries through an ephemeral consumer, leaving
// the stream contents in place.
func (q *JetStreamQueue) fetch(ctx context.Context, limit int) (jetstream.MessageBatch, error) {
	consumer, err := q.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: messaging.SubjectDLQWildcard,
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		MaxDeliver:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("create list consumer: %w", err)
	}

	msgs, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return msgs, nil
}
