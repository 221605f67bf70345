package push

import (
	"context"
	"time"

	"backoffice/internal/models"

	"go.uber.org/zap"
)

// Listener turns the two order events into typed PushEvents on a bounded channel.
type Listener struct {
	client *Client
	events chan models.PushEvent
	now    func() time.Time
}

func NewListener(client *Client, bufferSize int) *Listener {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Listener{
		client: client,
		events: make(chan models.PushEvent, bufferSize),
		now:    time.Now,
	}
}

func (l *Listener) Events() <-chan models.PushEvent {
	return l.events
}

// Start binds the handlers. Undecodable payloads are logged and dropped.
func (l *Listener) Start(ctx context.Context) error {
	bindings := map[string]func([]byte, time.Time) (models.PushEvent, error){
		models.EventNewOrder:           decodeNewOrder,
		models.EventOrderStatusUpdated: decodeStatusChange,
	}

	for event, decode := range bindings {
		err := l.client.On(ctx, event, func(payload []byte) {
			ev, err := decode(payload, l.now())
			if err != nil {
				zap.L().Warn("Dropping malformed push event", zap.String("event", event), zap.Error(err))
				return
			}
			select {
			case l.events <- ev:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
