package kafka_test

import (
	"context"
	"cowork/config"
	"cowork/infras/kafka"
	"cowork/infras/otel/mocks"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	message := kafka.Message{Key: "booking-1", Value: map[string]string{"action": "booking.created"}}

	msg, err := message.ToKafkaMessage("audit")

	assert.NoError(t, err)
	assert.Equal(t, "audit", msg.Topic)
	assert.Equal(t, []byte("booking-1"), msg.Key)
	assert.JSONEq(t, `{"action":"booking.created"}`, string(msg.Value))
}

func TestMessage_ToKafkaMessage_Unencodable(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage("audit")

	assert.Error(t, err)
}

func TestNew_Disabled(t *testing.T) {
	publisher := kafka.New(&config.Config{}, mocks.NewOtel())

	assert.NoError(t, publisher.Publish(context.Background(), "audit", kafka.Message{Key: "k", Value: "v"}))
	assert.NoError(t, publisher.Close())
}
