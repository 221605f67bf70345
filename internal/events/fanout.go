package events

import (
	"context"
	"fmt"

	"backoffice/internal/helpers"
	"backoffice/internal/models"
	"backoffice/internal/notifier"
	"backoffice/internal/toast"

	"go.uber.org/zap"
)

const (
	newOrderTitle      = "New Order Received!"
	statusUpdatedTitle = "Order Status Updated"
)

// FanOut reacts to each push event: it queues the event, raises the toast and
// the OS notification, and wakes the dashboard refresh.
type FanOut struct {
	queue    *PendingQueue
	toaster  toast.IToaster
	notifier notifier.INotifier
	trigger  chan struct{}
}

func NewFanOut(queue *PendingQueue, toaster toast.IToaster, n notifier.INotifier) *FanOut {
	return &FanOut{
		queue:    queue,
		toaster:  toaster,
		notifier: n,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger fires at least once after one or more enqueues. Bursts coalesce.
func (f *FanOut) Trigger() <-chan struct{} {
	return f.trigger
}

func (f *FanOut) Queue() *PendingQueue {
	return f.queue
}

func (f *FanOut) OnPushEvent(ctx context.Context, ev models.PushEvent) {
	switch ev.Kind {
	case models.PushEventNewOrder:
		f.onNewOrder(ctx, ev)
	case models.PushEventOrderStatusChanged:
		f.onStatusChanged(ctx, ev)
	default:
		zap.L().Warn("Ignoring push event of unknown kind", zap.String("kind", string(ev.Kind)))
	}
}

func (f *FanOut) onNewOrder(ctx context.Context, ev models.PushEvent) {
	if ev.NewOrder == nil {
		return
	}
	order := *ev.NewOrder
	total := helpers.FormatAmount(order.Total)

	seq := f.queue.Push(ev)
	f.signal()

	f.toaster.Success(fmt.Sprintf("New order from %s! %s", order.CustomerName, total))
	f.notify(ctx, models.Notification{
		Title:     newOrderTitle,
		Body:      fmt.Sprintf("Order from %s - %s", order.CustomerName, total),
		Tag:       models.EventNewOrder,
		CreatedAt: ev.ReceivedAt,
	})

	zap.L().Info("New order received",
		zap.Uint64("seq", seq),
		zap.String("order_id", order.OrderID),
		zap.String("customer", order.CustomerName))
}

// Status changes are queued without a toast so the dashboard re-fetches them.
func (f *FanOut) onStatusChanged(ctx context.Context, ev models.PushEvent) {
	if ev.StatusChange == nil {
		return
	}
	change := *ev.StatusChange

	f.queue.Push(ev)
	f.signal()

	f.notify(ctx, models.Notification{
		Title: statusUpdatedTitle,
		Body: fmt.Sprintf("Order #%s status changed to %s",
			helpers.ShortOrderID(change.OrderID), change.NewStatus),
		Tag:       models.EventOrderStatusUpdated,
		CreatedAt: ev.ReceivedAt,
	})

	zap.L().Info("Order status changed",
		zap.String("order_id", change.OrderID),
		zap.String("status", change.NewStatus))
}

func (f *FanOut) notify(ctx context.Context, n models.Notification) {
	if f.notifier == nil {
		return
	}
	if err := f.notifier.Notify(ctx, n); err != nil {
		zap.L().Warn("Failed to raise notification", zap.String("title", n.Title), zap.Error(err))
	}
}

func (f *FanOut) signal() {
	select {
	case f.trigger <- struct{}{}:
	default:
	}
}

// Run drains push events until ctx is done or the channel closes.
func (f *FanOut) Run(ctx context.Context, events <-chan models.PushEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			f.OnPushEvent(ctx, ev)
		}
	}
}
