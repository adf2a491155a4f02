package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"tourly/internal/refunds"
	"tourly/internal/shared/config"
	"tourly/pkg/logger"
)

// Publisher emits completed refund payouts onto the finance ledger topic.
// It uses an idempotent sync producer with acks from all in-sync replicas so
// a ledger event is never silently dropped or duplicated by retries.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewPublisher creates a Kafka-backed ledger publisher.
func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keys events by booking so a booking's ledger entries
	// stay ordered within one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger producer: %w", err)
	}

	return &Publisher{
		producer: producer,
		topic:    cfg.LedgerTopic,
		log:      logger.GetDefault(),
	}, nil
}

// PublishRefundCompleted implements the refunds.LedgerPublisher interface
func (p *Publisher) PublishRefundCompleted(ctx context.Context, event refunds.RefundCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.BookingID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("refund.completed")},
			{Key: []byte("refund_request_id"), Value: []byte(event.RefundRequestID.String())},
		},
		Timestamp: event.CompletedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send ledger event: %w", err)
	}

	p.log.Info("ledger event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"refund_request_id", event.RefundRequestID,
		"net_refund_amount", event.NetRefundAmount.StringFixed(0),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
