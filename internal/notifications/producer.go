package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"tourly/pkg/logger"
)

// Producer interface defines the contract for publishing notifications
type Producer interface {
	PublishNotification(ctx context.Context, notification *Notification) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka notification producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	Compression      sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		Compression:      sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaProducer publishes refund notifications to Kafka
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	log      *logger.Logger
}

// NewKafkaProducer creates a new Kafka notification producer
func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.Compression
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one customer's notifications on one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		config:   config,
		log:      logger.GetDefault(),
	}, nil
}

// PublishNotification publishes a single notification to Kafka
func (kp *KafkaProducer) PublishNotification(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now().UTC()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: kp.config.Topic,
		Key:   sarama.StringEncoder(notification.GetPartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_type"), Value: []byte(notification.Type)},
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		},
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	kp.log.Debug("notification published",
		"topic", kp.config.Topic,
		"partition", partition,
		"offset", offset,
		"type", notification.Type,
		"customer_id", notification.CustomerID,
	)
	return nil
}

func (kp *KafkaProducer) Close() error {
	return kp.producer.Close()
}
