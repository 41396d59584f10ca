package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
)

// KafkaPublisher sends events to a single topic through a synchronous producer.
type KafkaPublisher struct {
	topic  string
	conn   sarama.SyncProducer
	client sarama.Client // Owned by the publisher; nil when conn was injected
}

// NewKafkaPublisher connects to brokers and waits for all in-sync replicas on every send.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true
	conf.Producer.RequiredAcks = sarama.WaitForAll

	client, err := sarama.NewClient(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	conn, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("create producer: %w", err)
	}
	return &KafkaPublisher{topic: topic, conn: conn, client: client}, nil
}

// Publish implements Publisher. Events are keyed by user so one member's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := toKafkaMessages(p.topic, events)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.conn.SendMessages(msgs); err != nil {
		return fmt.Errorf("publish %d events to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

// Close implements Publisher. The producer is closed before the client it was built from.
func (p *KafkaPublisher) Close() error {
	err := p.conn.Close()
	if p.client != nil {
		if cerr := p.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func toKafkaMessages(topic string, events []Event) ([]*sarama.ProducerMessage, error) {
	res := make([]*sarama.ProducerMessage, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		res = append(res, &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(e.UserID.String()),
			Value: sarama.ByteEncoder(value),
		})
	}
	return res, nil
}
