package workers

import (
	"context"
	"time"
)

// OrderPoller is the part of the order list controller the poller drives.
type OrderPoller interface {
	Poll(ctx context.Context) (int, error)
}

// OrderPollerWorker re-fetches the current order page on a fixed interval
// while an admin session is active. Failures stay silent.
type OrderPollerWorker struct {
	Orders        OrderPoller
	Authenticated func() bool
	RunInterval   time.Duration
}

func (w *OrderPollerWorker) Start(ctx context.Context) {
	StartPeriodicWorker(ctx, "order_poller", w.RunInterval, false, []WorkerTask{
		{Name: "current_page", Fn: w.pollCurrentPage},
	})
}

func (w *OrderPollerWorker) pollCurrentPage(ctx context.Context) (int, error) {
	if w.Authenticated != nil && !w.Authenticated() {
		return 0, nil
	}
	return w.Orders.Poll(ctx)
}
