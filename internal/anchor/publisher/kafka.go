// Package publisher emits anchor events to Kafka so downstream auditors can
// mirror the chain. Publishing is best-effort: the chain in Postgres is the
// source of truth and a dropped event never fails an append.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"fundwatch/internal/anchor"
	"fundwatch/internal/platform/config"
)

// Kafka publishes anchor events with kgo. Keyed by record type so each
// chain's events stay ordered within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// anchorEvent is the wire shape produced to the anchors topic.
type anchorEvent struct {
	RecordType  string    `json:"record_type"`
	RecordID    string    `json:"record_id"`
	PrevHash    string    `json:"prev_hash"`
	CurrentHash string    `json:"current_hash"`
	BlockNumber int64     `json:"block_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewKafka connects to the brokers and ensures the anchors topic exists.
// Returns nil if no brokers are configured (publishing disabled).
func NewKafka(cfg config.KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adm := kadm.NewClient(client)
	responses, err := adm.CreateTopics(ctx, 1, 1, nil, cfg.AnchorTopic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create anchors topic: %w", err)
	}
	for _, res := range responses {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create anchors topic %q: %w", res.Topic, res.Err)
		}
	}

	return &Kafka{client: client, topic: cfg.AnchorTopic}, nil
}

// PublishAnchor produces one anchor event synchronously.
func (k *Kafka) PublishAnchor(ctx context.Context, a anchor.Anchor) error {
	payload, err := json.Marshal(anchorEvent{
		RecordType:  a.RecordType,
		RecordID:    a.RecordID,
		PrevHash:    a.PrevHash,
		CurrentHash: a.CurrentHash,
		BlockNumber: a.BlockNumber,
		CreatedAt:   a.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal anchor event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(a.RecordType),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce anchor event: %w", err)
	}
	return nil
}

// Close flushes and releases the Kafka client.
func (k *Kafka) Close() {
	k.client.Close()
}
