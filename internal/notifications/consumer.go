package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"tourly/pkg/logger"
)

// Consumer interface defines the contract for the notification workers
type Consumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

// ConsumerConfig contains configuration for the Kafka notification consumer
type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	HeartbeatInterval    time.Duration
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig(brokers []string, groupID string, topics []string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              brokers,
		GroupID:              groupID,
		Topics:               topics,
		SessionTimeout:       30 * time.Second,
		HeartbeatInterval:    3 * time.Second,
		MaxProcessingTime:    5 * time.Minute,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// KafkaConsumer runs a pool of consumer group workers delivering refund
// notifications to customers.
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	deliverer     Deliverer
	log           *logger.Logger
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewKafkaConsumer creates a new Kafka notification consumer
func NewKafkaConsumer(config *ConsumerConfig, deliverer Deliverer) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.HeartbeatInterval
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		deliverer:     deliverer,
		log:           logger.GetDefault(),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// StartConsumers launches the worker pool. Workers rejoin the group on
// rebalance until the context is cancelled.
func (kc *KafkaConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	kc.log.Info("starting notification consumer workers", "workers", numWorkers, "topics", kc.config.Topics)

	go kc.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}
	return nil
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		config:    kc.config,
		workerID:  workerID,
		deliverer: kc.deliverer,
		log:       kc.log,
	}

	for {
		select {
		case <-ctx.Done():
			kc.log.Info("notification worker shutting down", "worker", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				kc.log.WithError(err).Warn("notification worker consume error", "worker", workerID)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		kc.log.WithError(err).Warn("consumer group error")
	}
}

func (kc *KafkaConsumer) Stop() error {
	kc.cancel()
	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

func (kc *KafkaConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-kc.ctx.Done():
		return fmt.Errorf("consumer context is cancelled")
	default:
		if kc.deliverer == nil {
			return fmt.Errorf("deliverer not configured")
		}
		return nil
	}
}

type consumerGroupHandler struct {
	config    *ConsumerConfig
	workerID  int
	deliverer Deliverer
	log       *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.WithError(err).Warn("failed to process notification", "worker", h.workerID)
			} else {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification Notification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if notification.IsExpired() {
		h.log.Debug("notification expired, skipping", "notification_id", notification.ID)
		return nil
	}

	notification.Status = NotificationStatusSending
	if err := h.deliverWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	return nil
}

func (h *consumerGroupHandler) deliverWithRetry(ctx context.Context, notification *Notification) error {
	backoff := h.config.RetryBackoffDuration

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		err := h.deliverer.Deliver(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt == h.config.MaxRetries {
			return err
		}

		// Exponential backoff between attempts.
		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
