package push

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

const connectTimeout = 5 * time.Second

// StateHandler receives every connected/disconnected transition of a transport,
// including the initial connect and each automatic reconnect.
type StateHandler func(connected bool)

// ITransport is a reliable reconnecting pub/sub connection to the shop event channel.
// Reconnection is the transport's own business.
type ITransport interface {
	Name() string
	Connect(ctx context.Context, onState StateHandler) error
	Subscribe(ctx context.Context, event string) (<-chan *message.Message, error)
	Publish(event string, payload []byte) error
	Close() error
}

func subject(prefix, event string) string {
	return prefix + "." + event
}
