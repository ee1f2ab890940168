package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"expirytracker/internal/reminder"
)

// EventType identifies reminder events on the topic.
const EventType = "document.reminder"

// Producer is the subset of *kgo.Client used for publishing.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// DefaultPublishTimeout bounds one publish when no timeout is configured.
const DefaultPublishTimeout = 5 * time.Second

// KafkaPublisher emits every reminder as a JSON event keyed by user ID, so a
// user's reminders stay ordered within one partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
	timeout  time.Duration
}

// NewKafkaPublisher returns a publisher whose Deliver gives up after timeout.
func NewKafkaPublisher(p Producer, topic string, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &KafkaPublisher{producer: p, topic: topic, timeout: timeout}
}

var _ reminder.Deliverer = (*KafkaPublisher)(nil)

type reminderEvent struct {
	Type string `json:"type"`
	reminder.Notification
}

func (k *KafkaPublisher) Deliver(ctx context.Context, n reminder.Notification) error {
	payload, err := json.Marshal(reminderEvent{Type: EventType, Notification: n})
	if err != nil {
		return fmt.Errorf("encode reminder event: %w", err)
	}
	rec := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(n.UserID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "bucket", Value: []byte(n.Bucket.String())},
		},
	}
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()
	if err := k.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish reminder event: %w", err)
	}
	return nil
}

// NewKafkaClient connects a producer to brokers. Records that are not acknowledged
// within deliveryTimeout fail instead of being retried forever.
func NewKafkaClient(brokers []string, topic string, deliveryTimeout time.Duration) (*kgo.Client, error) {
	if deliveryTimeout <= 0 {
		deliveryTimeout = DefaultPublishTimeout
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(deliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return cl, nil
}

// TopicCreator is the subset of *kadm.Client used by EnsureTopic.
type TopicCreator interface {
	CreateTopic(ctx context.Context, partitions int32, replicationFactor int16, configs map[string]*string, topic string) (kadm.CreateTopicResponse, error)
}

// EnsureTopic creates topic with broker defaults; an existing topic is not an error.
func EnsureTopic(ctx context.Context, adm TopicCreator, topic string) error {
	_, err := adm.CreateTopic(ctx, -1, -1, nil, topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}
