package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/model"
)

var approved = model.Event{
	UserID:    "user-1",
	Type:      model.NotifyRequestApproved,
	Title:     "Request approved",
	Message:   "Your request for Laptop was approved",
	RelatedID: "req-1",
}

func TestKafkaPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var env Envelope
		if err := json.Unmarshal(val, &env); err != nil {
			return err
		}
		if env.Type != model.NotifyRequestApproved || env.UserID != "user-1" || env.RelatedID != "req-1" {
			return errors.New("unexpected envelope")
		}
		if env.EventID == "" {
			return errors.New("missing event id")
		}
		return nil
	})

	k := NewKafkaWithProducer(producer, "", zap.NewNop())
	require.NoError(t, k.Publish(context.Background(), approved))
	require.NoError(t, k.Close())
}

func TestKafkaPublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaWithProducer(producer, "events", zap.NewNop())
	err := k.Publish(context.Background(), approved)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, k.Close())
}

func TestKafkaPublishCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	k := NewKafkaWithProducer(producer, "events", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, k.Publish(ctx, approved), context.Canceled)
	require.NoError(t, k.Close())
}

func TestKafkaMessage(t *testing.T) {
	k := NewKafkaWithProducer(mocks.NewSyncProducer(t, nil), "", zap.NewNop())

	msg, err := k.message(approved)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, msg.Topic)

	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "user-1", string(key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[string(h.Key)] = string(h.Value)
	}
	assert.Equal(t, "request_approved", headers["event-type"])
	assert.NotEmpty(t, headers["event-id"])
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), approved))
	assert.NoError(t, p.Close())
}
