package messaging

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Bridge hands deliveries from a transport callback to a watermill channel.
// Each message is delivered only after the previous one was acked or nacked.
type Bridge struct {
	ctx    context.Context
	mu     sync.RWMutex
	closed bool
	out    chan *message.Message
}

func NewBridge(ctx context.Context) *Bridge {
	return &Bridge{ctx: ctx, out: make(chan *message.Message)}
}

func (b *Bridge) Messages() <-chan *message.Message {
	return b.out
}

// Deliver blocks until the message is consumed or the bridge context ends.
func (b *Bridge) Deliver(uuid string, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	msg := message.NewMessage(uuid, payload)
	select {
	case b.out <- msg:
	case <-b.ctx.Done():
		return
	}

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
	case <-b.ctx.Done():
	}
}

// Close waits for in-flight deliveries to return and closes the channel.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.out)
	}
}
