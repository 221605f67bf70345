package push

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	c "backoffice/internal/configuration"
	"backoffice/internal/messaging"
	"backoffice/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var errNotConnected = errors.New("transport not connected")

// NATSTransport talks core NATS. nats.go reconnects forever with a fixed wait.
type NATSTransport struct {
	config models.NATSPushConfiguration
	prefix string

	mu   sync.RWMutex
	conn *nats.Conn
}

func NewNATSTransport(config models.NATSPushConfiguration, prefix string) *NATSTransport {
	return &NATSTransport{config: config, prefix: prefix}
}

func (t *NATSTransport) Name() string { return c.ProviderNATS }

func (t *NATSTransport) Connect(ctx context.Context, onState StateHandler) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := connectNATS(t.config.Host, t.config.Port, t.config.ReconnectWaitSeconds, t.Name(), onState)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	onState(true)
	return nil
}

func (t *NATSTransport) connection() (*nats.Conn, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn == nil {
		return nil, errNotConnected
	}
	return t.conn, nil
}

func (t *NATSTransport) Subscribe(ctx context.Context, event string) (<-chan *message.Message, error) {
	conn, err := t.connection()
	if err != nil {
		return nil, err
	}
	return messaging.NewNATSSubscriber(conn, subject(t.prefix, event)).Subscribe(ctx)
}

func (t *NATSTransport) Publish(event string, payload []byte) error {
	conn, err := t.connection()
	if err != nil {
		return err
	}
	return messaging.NewNATSPublisher(conn, subject(t.prefix, event)).
		Publish(message.NewMessage(watermill.NewUUID(), payload))
}

func (t *NATSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	return nil
}

// connectNATS dials once and reports later disconnects and reconnects to onState.
func connectNATS(host, port string, reconnectWaitSeconds int, transport string, onState StateHandler) (*nats.Conn, error) {
	url := "nats://" + net.JoinHostPort(host, port)

	conn, err := nats.Connect(url,
		nats.Name(c.AppName),
		nats.Timeout(connectTimeout),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Duration(reconnectWaitSeconds)*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			zap.L().Warn("Push transport disconnected", zap.String("transport", transport), zap.Error(err))
			onState(false)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			zap.L().Info("Push transport reconnected", zap.String("transport", transport))
			onState(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}
	return conn, nil
}
