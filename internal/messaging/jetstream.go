package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/jetstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
	natsJs "github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

const watermillUUIDHeader = "_watermill_message_uuid"

type JetStreamPublisher struct {
	TopicName string
	publisher *jetstream.Publisher
}

// NewJetStreamPublisher publishes on an existing connection; the subject must
// be covered by a stream.
func NewJetStreamPublisher(nc *nats.Conn, topicName string) (IPublisher, error) {
	publisher, err := jetstream.NewPublisher(jetstream.PublisherConfig{
		Conn:   nc,
		Logger: watermill.NopLogger{},
	})
	if err != nil {
		return nil, fmt.Errorf("create JetStream publisher: %w", err)
	}

	return &JetStreamPublisher{TopicName: topicName, publisher: publisher}, nil
}

func (p *JetStreamPublisher) Publish(messages ...*message.Message) error {
	return p.publisher.Publish(p.TopicName, messages...)
}

func (p *JetStreamPublisher) Close() error {
	return p.publisher.Close()
}

// JetStreamSubscriber reads one subject through an ordered consumer that only
// delivers messages published after it was created.
type JetStreamSubscriber struct {
	TopicName string
	stream    string
	js        natsJs.JetStream
}

func NewJetStreamSubscriber(js natsJs.JetStream, stream, topicName string) ISubscriber {
	return &JetStreamSubscriber{TopicName: topicName, stream: stream, js: js}
}

func (s *JetStreamSubscriber) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	consumer, err := s.js.OrderedConsumer(ctx, s.stream, natsJs.OrderedConsumerConfig{
		FilterSubjects: []string{s.TopicName},
		DeliverPolicy:  natsJs.DeliverNewPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("create ordered consumer for %s: %w", s.TopicName, err)
	}

	bridge := NewBridge(ctx)
	consumeCtx, err := consumer.Consume(func(msg natsJs.Msg) {
		uuid := msg.Headers().Get(watermillUUIDHeader)
		if uuid == "" {
			uuid = watermill.NewUUID()
		}
		bridge.Deliver(uuid, msg.Data())
	})
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", s.TopicName, err)
	}

	go func() {
		<-ctx.Done()
		consumeCtx.Stop()
		bridge.Close()
		zap.L().Debug("JetStream subscription stopped", zap.String("topic", s.TopicName))
	}()

	return bridge.Messages(), nil
}

func (s *JetStreamSubscriber) Close() error {
	return nil
}
