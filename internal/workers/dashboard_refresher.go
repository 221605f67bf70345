package workers

import (
	"context"
	"time"
)

type StaleRefresher interface {
	RefreshIfStale(ctx context.Context) (int, error)
}

// DashboardRefresherWorker refreshes the dashboard snapshot once it is older
// than the staleness window, standing in for a visit to the dashboard view.
type DashboardRefresherWorker struct {
	Dashboard     StaleRefresher
	Authenticated func() bool
	RunInterval   time.Duration
}

func (w *DashboardRefresherWorker) Start(ctx context.Context) {
	StartPeriodicWorker(ctx, "dashboard_refresher", w.RunInterval, true, []WorkerTask{
		{Name: "stale_refresh", Fn: w.refreshIfStale},
	})
}

func (w *DashboardRefresherWorker) refreshIfStale(ctx context.Context) (int, error) {
	if w.Authenticated != nil && !w.Authenticated() {
		return 0, nil
	}
	return w.Dashboard.RefreshIfStale(ctx)
}
