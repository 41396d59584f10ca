package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToKafkaMessages(t *testing.T) {
	e := Event{
		Type:       PurchaseCreated,
		PurchaseID: uuid.New(),
		UserID:     uuid.New(),
		Quantity:   2,
		TotalPrice: decimal.RequireFromString("4.50"),
		At:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	msgs, err := toKafkaMessages("purchases", []Event{e})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "purchases", msgs[0].Topic)
	assert.Equal(t, sarama.StringEncoder(e.UserID.String()), msgs[0].Key)

	raw, err := msgs[0].Value.Encode()
	require.NoError(t, err)
	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, e.PurchaseID, decoded.PurchaseID)
	assert.True(t, e.TotalPrice.Equal(decoded.TotalPrice))
}

func TestKafkaPublisherSends(t *testing.T) {
	conf := mocks.NewTestConfig()
	conf.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, conf)
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()

	p := &KafkaPublisher{topic: "purchases", conn: producer}
	err := p.Publish(context.Background(),
		Event{Type: PurchaseCreated, UserID: uuid.New()},
		Event{Type: PurchaseCreated, UserID: uuid.New()},
	)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

// closeRecorder is a sarama.Client that only records Close
type closeRecorder struct {
	sarama.Client
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestKafkaPublisherClosesClient(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	client := &closeRecorder{}

	p := &KafkaPublisher{topic: "purchases", conn: producer, client: client}
	require.NoError(t, p.Close())
	assert.Equal(t, 1, client.closed)
}

func TestKafkaPublisherNoEvents(t *testing.T) {
	p := &KafkaPublisher{topic: "purchases"}
	assert.NoError(t, p.Publish(context.Background()))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
