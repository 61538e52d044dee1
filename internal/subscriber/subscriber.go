package subscriber

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/retry"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Handler func(ctx context.Context, topic string, value []byte) error

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

type KafkaConsumer struct {
	Readers      []MessageReader
	DLQPublisher Publisher
	RetryConfig  config.RetryConfig
}

func NewMultiTopicConsumer(
	brokers []string,
	topics []string,
	groupID string,
	dlq Publisher,
	retryConfig config.RetryConfig,
) *KafkaConsumer {
	readers := make([]MessageReader, len(topics))
	for i, topic := range topics {
		readers[i] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		})
	}
	return NewConsumerWithReaders(readers, dlq, retryConfig)
}

func NewConsumerWithReaders(readers []MessageReader, dlq Publisher, retryConfig config.RetryConfig) *KafkaConsumer {
	return &KafkaConsumer{
		Readers:      readers,
		DLQPublisher: dlq,
		RetryConfig:  retry.WithDefaults(retryConfig),
	}
}

// Listen consumes every topic until ctx is done, then closes the readers.
func (c *KafkaConsumer) Listen(ctx context.Context, handler Handler) {
	var wg sync.WaitGroup
	for _, reader := range c.Readers {
		wg.Add(1)
		go func(r MessageReader) {
			defer wg.Done()
			defer r.Close()
			for {
				msg, err := r.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil || errors.Is(err, context.Canceled) {
						return
					}
					logrus.Errorf("Kafka error: %v", err)
					if retry.Wait(ctx, c.RetryConfig.BaseDelay) != nil {
						return
					}
					continue
				}
				c.processMessage(ctx, msg, handler)
			}
		}(reader)
	}
	wg.Wait()
}

func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message, handler Handler) {
	var lastErr error
	for attempt := 0; attempt < c.RetryConfig.MaxAttempts; attempt++ {
		lastErr = handler(ctx, msg.Topic, msg.Value)
		if lastErr == nil {
			return
		}
		if attempt == c.RetryConfig.MaxAttempts-1 {
			break
		}

		backoff := retry.Backoff(c.RetryConfig, attempt)
		logrus.Warnf("Handler error, attempt %d/%d: %v. Retrying in %v", attempt+1, c.RetryConfig.MaxAttempts, lastErr, backoff)
		if retry.Wait(ctx, backoff) != nil {
			return
		}
	}

	logrus.Errorf("Message failed after %d attempts: topic=%s, key=%s", c.RetryConfig.MaxAttempts, msg.Topic, string(msg.Key))
	if c.DLQPublisher == nil {
		return
	}
	dlqMessage := models.DLQMessage{
		OriginalTopic: msg.Topic,
		Key:           string(msg.Key),
		Value:         string(msg.Value),
		Error:         lastErr.Error(),
		Timestamp:     time.Now().UTC(),
		Attempts:      c.RetryConfig.MaxAttempts,
	}
	if err := c.DLQPublisher.Publish(ctx, models.TopUpDLQTopic, dlqMessage); err != nil {
		logrus.Errorf("Failed to send message to DLQ: %v", err)
		return
	}
	logrus.Infof("Message sent to DLQ: original topic=%s, key=%s", msg.Topic, string(msg.Key))
}
