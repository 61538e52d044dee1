package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/publisher"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	fails    int
	calls    int
	messages []kafka.Message
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.calls <= w.fails {
		return errors.New("leader not available")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var fastRetry = config.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

func TestPublish_KeysEventsByTag(t *testing.T) {
	w := &fakeWriter{}
	p := publisher.NewPublisherWithWriters(map[string]publisher.MessageWriter{models.TopUpBookedTopic: w}, fastRetry)

	evt := models.TopUpBookedEvent{TransactionID: "tx-1", Tag: "04AA"}
	require.NoError(t, p.Publish(context.Background(), models.TopUpBookedTopic, evt))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "04AA", string(w.messages[0].Key))
	var decoded models.TopUpBookedEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, "tx-1", decoded.TransactionID)
}

func TestPublish_RetriesThenSucceeds(t *testing.T) {
	w := &fakeWriter{fails: 2}
	p := publisher.NewPublisherWithWriters(map[string]publisher.MessageWriter{"t": w}, fastRetry)

	require.NoError(t, p.Publish(context.Background(), "t", map[string]string{"a": "b"}))
	assert.Equal(t, 3, w.calls)
	assert.Nil(t, w.messages[0].Key)
}

func TestPublish_GivesUp(t *testing.T) {
	w := &fakeWriter{fails: 10}
	p := publisher.NewPublisherWithWriters(map[string]publisher.MessageWriter{"t": w}, fastRetry)

	err := p.Publish(context.Background(), "t", "x")
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Equal(t, 3, w.calls)
}

func TestPublish_UnknownTopic(t *testing.T) {
	p := publisher.NewPublisherWithWriters(map[string]publisher.MessageWriter{}, fastRetry)
	assert.Error(t, p.Publish(context.Background(), "nope", "x"))
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := publisher.NewPublisherWithWriters(map[string]publisher.MessageWriter{"t": w}, fastRetry)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
