package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes message payloads as plain core NATS messages.
type NATSPublisher struct {
	TopicName string
	conn      *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn, topicName string) IPublisher {
	return &NATSPublisher{TopicName: topicName, conn: conn}
}

func (p *NATSPublisher) Publish(messages ...*message.Message) error {
	for _, msg := range messages {
		if err := p.conn.Publish(p.TopicName, msg.Payload); err != nil {
			return fmt.Errorf("publish to %s: %w", p.TopicName, err)
		}
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return nil
}

type NATSSubscriber struct {
	TopicName string
	conn      *nats.Conn
}

func NewNATSSubscriber(conn *nats.Conn, topicName string) ISubscriber {
	return &NATSSubscriber{TopicName: topicName, conn: conn}
}

func (s *NATSSubscriber) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	bridge := NewBridge(ctx)

	sub, err := s.conn.Subscribe(s.TopicName, func(m *nats.Msg) {
		bridge.Deliver(watermill.NewUUID(), m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", s.TopicName, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
		bridge.Close()
	}()

	return bridge.Messages(), nil
}

func (s *NATSSubscriber) Close() error {
	return nil
}
