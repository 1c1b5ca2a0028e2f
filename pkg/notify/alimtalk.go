// Package notify hands KakaoTalk alimtalk (with SMS fallback) messages to the
// messaging gateway through a Kafka topic. The gateway worker owns delivery,
// retries and the SMS fallback; this side only guarantees the message reached
// the topic.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matchtrip-be/internal/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Template codes registered with the alimtalk provider.
const (
	TemplatePaymentPaid          = "MT_PAYMENT_PAID"
	TemplateOfferAccepted        = "MT_OFFER_ACCEPTED"
	TemplateCancellationApproved = "MT_CANCEL_APPROVED"
	TemplateCancellationRejected = "MT_CANCEL_REJECTED"
	TemplateRefundCompleted      = "MT_REFUND_DONE"
)

type Message struct {
	ID           uuid.UUID         `json:"id"`
	RecipientID  uuid.UUID         `json:"recipient_id"`
	Phone        string            `json:"phone"`
	TemplateCode string            `json:"template_code"`
	Variables    map[string]string `json:"variables"`
	SMSFallback  bool              `json:"sms_fallback"`
	CreatedAt    time.Time         `json:"created_at"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	RetryMax int
	Timeout  time.Duration
}

// NewSaramaConfig returns the producer settings used against the gateway
// topic: acks from all replicas and idempotent writes so a retried send does
// not produce a second KakaoTalk message.
func NewSaramaConfig(cfg KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = "matchtrip-be"
	c.Version = sarama.V2_8_0_0
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Idempotent = true
	c.Net.MaxOpenRequests = 1
	c.Producer.Retry.Max = cfg.RetryMax
	if c.Producer.Retry.Max <= 0 {
		c.Producer.Retry.Max = 3
	}
	if cfg.Timeout > 0 {
		c.Producer.Timeout = cfg.Timeout
	}
	c.Producer.Partitioner = sarama.NewHashPartitioner
	return c
}

type KafkaDispatcher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.ILogger
}

func NewKafkaDispatcher(cfg KafkaConfig, log logger.ILogger) (*KafkaDispatcher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewDispatcherWithProducer(producer, cfg.Topic, log), nil
}

// NewDispatcherWithProducer wraps an existing producer, e.g. a sarama mock.
func NewDispatcherWithProducer(producer sarama.SyncProducer, topic string, log logger.ILogger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic, logger: log}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, msg Message) error {
	if msg.Phone == "" {
		return fmt.Errorf("alimtalk %s: recipient %s has no phone number", msg.TemplateCode, msg.RecipientID)
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal alimtalk message: %w", err)
	}

	pm := &sarama.ProducerMessage{
		Topic: d.topic,
		// Keyed by recipient so one user's messages stay ordered.
		Key:   sarama.StringEncoder(msg.RecipientID.String()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("message_id"), Value: []byte(msg.ID.String())},
			{Key: []byte("template_code"), Value: []byte(msg.TemplateCode)},
			{Key: []byte("producer"), Value: []byte("matchtrip-be")},
		},
		Timestamp: msg.CreatedAt,
	}

	partition, offset, err := d.producer.SendMessage(pm)
	if err != nil {
		return fmt.Errorf("failed to send alimtalk message: %w", err)
	}

	d.logger.Info("NOTIFY", "Alimtalk queued", map[string]interface{}{
		"template":  msg.TemplateCode,
		"recipient": msg.RecipientID.String(),
		"partition": partition,
		"offset":    offset,
	})
	return nil
}

func (d *KafkaDispatcher) Close() error {
	if d.producer == nil {
		return nil
	}
	return d.producer.Close()
}

// LogDispatcher is used when Kafka is disabled.
type LogDispatcher struct {
	Logger logger.ILogger
}

func (d LogDispatcher) Dispatch(_ context.Context, msg Message) error {
	d.Logger.Info("NOTIFY", "Kafka disabled, alimtalk not sent", map[string]interface{}{
		"template":  msg.TemplateCode,
		"recipient": msg.RecipientID.String(),
	})
	return nil
}

func (d LogDispatcher) Close() error { return nil }
