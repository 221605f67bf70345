package messaging

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// MemoryPublisher and MemorySubscriber share a GoChannel owned by the caller;
// closing them leaves the channel open.
type MemoryPublisher struct {
	topicName string
	channel   *gochannel.GoChannel
}

type MemorySubscriber struct {
	topicName string
	channel   *gochannel.GoChannel
}

func NewMemoryChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 16,
	}, watermill.NopLogger{})
}

func NewMemoryPublisher(channel *gochannel.GoChannel, topicName string) IPublisher {
	return &MemoryPublisher{topicName: topicName, channel: channel}
}

func NewMemorySubscriber(channel *gochannel.GoChannel, topicName string) ISubscriber {
	return &MemorySubscriber{topicName: topicName, channel: channel}
}

func (p *MemoryPublisher) Publish(messages ...*message.Message) error {
	return p.channel.Publish(p.topicName, messages...)
}

func (p *MemoryPublisher) Close() error {
	return nil
}

func (s *MemorySubscriber) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	sub, err := s.channel.Subscribe(ctx, s.topicName)
	if err != nil {
		return nil, fmt.Errorf("subscribe to memory topic %s: %w", s.topicName, err)
	}
	return sub, nil
}

func (s *MemorySubscriber) Close() error {
	return nil
}
