package push

import (
	"context"
	"sync"

	c "backoffice/internal/configuration"
	"backoffice/internal/messaging"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// MemoryTransport is an in-process event channel. Events published by the
// shop side of the same process reach the console through it.
type MemoryTransport struct {
	prefix  string
	channel *gochannel.GoChannel

	mu      sync.Mutex
	onState StateHandler
}

func NewMemoryTransport(prefix string) *MemoryTransport {
	return &MemoryTransport{prefix: prefix, channel: messaging.NewMemoryChannel()}
}

func (t *MemoryTransport) Name() string { return c.ProviderMemory }

func (t *MemoryTransport) Connect(ctx context.Context, onState StateHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	t.onState = onState
	t.mu.Unlock()

	onState(true)
	return nil
}

func (t *MemoryTransport) Subscribe(ctx context.Context, event string) (<-chan *message.Message, error) {
	return messaging.NewMemorySubscriber(t.channel, subject(t.prefix, event)).Subscribe(ctx)
}

func (t *MemoryTransport) Publish(event string, payload []byte) error {
	return messaging.NewMemoryPublisher(t.channel, subject(t.prefix, event)).
		Publish(message.NewMessage(watermill.NewUUID(), payload))
}

// Interrupt and Resume emulate a dropped and restored connection.
func (t *MemoryTransport) Interrupt() { t.signal(false) }
func (t *MemoryTransport) Resume()    { t.signal(true) }

func (t *MemoryTransport) signal(connected bool) {
	t.mu.Lock()
	onState := t.onState
	t.mu.Unlock()
	if onState != nil {
		onState(connected)
	}
}

func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	t.onState = nil
	t.mu.Unlock()
	return t.channel.Close()
}
