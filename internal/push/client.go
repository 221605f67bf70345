package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/models"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler receives the raw payload of one push event.
type Handler func(payload []byte)

// Client keeps the console subscribed to the shop event channel. It connects
// through the first transport that accepts a connection and joins the admin
// room on every connect, initial or automatic.
type Client struct {
	transports []ITransport
	room       string
	clientID   string

	mu        sync.RWMutex
	active    ITransport
	connected bool
	listeners []func(bool)
}

func NewClient(transports []ITransport, room, clientID string) *Client {
	return &Client{transports: transports, room: room, clientID: clientID}
}

// Connect tries the transports in order. When none connects the client stays
// offline and the console runs pull-only.
func (c *Client) Connect(ctx context.Context) error {
	for _, t := range c.transports {
		err := t.Connect(ctx, c.stateHandler(t))
		if err != nil {
			zap.L().Warn("Push transport unavailable, trying next",
				zap.String("transport", t.Name()),
				zap.Error(err))
			continue
		}

		c.mu.Lock()
		c.active = t
		c.mu.Unlock()

		zap.L().Info("Push channel connected", zap.String("transport", t.Name()))
		return nil
	}

	c.setConnected(false)
	zap.L().Warn("No push transport could connect, running without live updates")
	return apierrors.ErrNoTransport
}

func (c *Client) stateHandler(t ITransport) StateHandler {
	return func(connected bool) {
		if connected {
			c.joinRoom(t)
		}
		c.setConnected(connected)
	}
}

func (c *Client) joinRoom(t ITransport) {
	payload, err := json.Marshal(models.JoinRoomPayload{Room: c.room, ClientID: c.clientID})
	if err != nil {
		zap.L().Error("Failed to encode join payload", zap.Error(err))
		return
	}
	if err = t.Publish(models.EventJoinAdmin, payload); err != nil {
		zap.L().Warn("Failed to join admin room",
			zap.String("transport", t.Name()),
			zap.Error(err))
		return
	}
	zap.L().Debug("Joined admin room", zap.String("room", c.room), zap.String("transport", t.Name()))
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	changed := c.connected != connected
	c.connected = connected
	listeners := append([]func(bool){}, c.listeners...)
	c.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(connected)
	}
}

// OnConnectionStateChanged registers fn for every connected/disconnected change.
func (c *Client) OnConnectionStateChanged(fn func(connected bool)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// On runs handler for each event until ctx is done. Handlers run sequentially.
func (c *Client) On(ctx context.Context, event string, handler Handler) error {
	c.mu.RLock()
	active := c.active
	c.mu.RUnlock()
	if active == nil {
		return apierrors.ErrNoTransport
	}

	messages, err := active.Subscribe(ctx, event)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", event, err)
	}

	go consume(messages, handler)
	return nil
}

func consume(messages <-chan *message.Message, handler Handler) {
	for msg := range messages {
		handler(msg.Payload)
		msg.Ack()
	}
}

// Disconnect closes the active transport and reports the client offline.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	active := c.active
	c.active = nil
	c.mu.Unlock()

	c.setConnected(false)
	if active == nil {
		return nil
	}
	return active.Close()
}

func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) Status() models.PushStatus {
	if c.Connected() {
		return models.PushStatusLive
	}
	return models.PushStatusOffline
}

// Transport names the transport in use, or "" when offline.
func (c *Client) Transport() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return ""
	}
	return c.active.Name()
}
