package push

import (
	"context"
	"fmt"
	"sync"
	"time"

	c "backoffice/internal/configuration"
	"backoffice/internal/messaging"
	"backoffice/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
	natsJs "github.com/nats-io/nats.go/jetstream"
)

const streamMaxAge = time.Hour

// JetStreamTransport reads through per-subscription ordered consumers and
// publishes through the watermill JetStream publisher.
type JetStreamTransport struct {
	config models.JetStreamPushConfiguration
	prefix string
	wait   int

	mu         sync.RWMutex
	conn       *nats.Conn
	js         natsJs.JetStream
	publishers map[string]messaging.IPublisher
}

func NewJetStreamTransport(config models.JetStreamPushConfiguration, prefix string, reconnectWaitSeconds int) *JetStreamTransport {
	return &JetStreamTransport{
		config:     config,
		prefix:     prefix,
		wait:       reconnectWaitSeconds,
		publishers: make(map[string]messaging.IPublisher),
	}
}

func (t *JetStreamTransport) Name() string { return c.ProviderJetstream }

func (t *JetStreamTransport) Connect(ctx context.Context, onState StateHandler) error {
	conn, err := connectNATS(t.config.Host, t.config.Port, t.wait, t.Name(), onState)
	if err != nil {
		return err
	}

	js, err := natsJs.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, natsJs.StreamConfig{
		Name:      t.config.Stream,
		Subjects:  []string{t.prefix + ".>"},
		Retention: natsJs.LimitsPolicy,
		MaxAge:    streamMaxAge,
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("create stream %s: %w", t.config.Stream, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.js = js
	t.mu.Unlock()

	onState(true)
	return nil
}

func (t *JetStreamTransport) Subscribe(ctx context.Context, event string) (<-chan *message.Message, error) {
	t.mu.RLock()
	js := t.js
	t.mu.RUnlock()
	if js == nil {
		return nil, errNotConnected
	}
	return messaging.NewJetStreamSubscriber(js, t.config.Stream, subject(t.prefix, event)).Subscribe(ctx)
}

func (t *JetStreamTransport) Publish(event string, payload []byte) error {
	publisher, err := t.publisher(event)
	if err != nil {
		return err
	}
	return publisher.Publish(message.NewMessage(watermill.NewUUID(), payload))
}

func (t *JetStreamTransport) publisher(event string) (messaging.IPublisher, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, errNotConnected
	}
	if p, ok := t.publishers[event]; ok {
		return p, nil
	}

	p, err := messaging.NewJetStreamPublisher(t.conn, subject(t.prefix, event))
	if err != nil {
		return nil, err
	}
	t.publishers[event] = p
	return p, nil
}

func (t *JetStreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for event, p := range t.publishers {
		_ = p.Close()
		delete(t.publishers, event)
	}
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
		t.js = nil
	}
	return nil
}
