package messaging

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisher publishes to one subject.
type IPublisher interface {
	Publish(messages ...*message.Message) error
	Close() error
}

// ISubscriber delivers the messages of one subject until ctx is done.
// Every delivered message must be acked.
type ISubscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
	Close() error
}
