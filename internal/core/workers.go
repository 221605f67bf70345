package core

import (
	"context"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/workers"

	"go.uber.org/zap"
)

func StartWorkers(ctx context.Context, profile models.Profile, console *Console) {
	config := console.Config

	startWorker(ctx, profile.Workers.OrderPoller, "order_poller", func(ctx context.Context) {
		worker := &workers.OrderPollerWorker{
			Orders:        console.Orders,
			Authenticated: console.Sessions.Authenticated,
			RunInterval:   time.Duration(config.Orders.PollIntervalSeconds) * time.Second,
		}
		worker.Start(ctx)
	})

	startWorker(ctx, profile.Workers.DashboardRefresher, "dashboard_refresher", func(ctx context.Context) {
		worker := &workers.DashboardRefresherWorker{
			Dashboard:     console.Dashboard,
			Authenticated: console.Sessions.Authenticated,
			RunInterval:   time.Duration(config.Dashboard.RefreshIntervalSeconds) * time.Second,
		}
		worker.Start(ctx)
	})
}

func startWorker(ctx context.Context, mode models.WorkerMode, workerName string, runWorker func(context.Context)) {
	if mode == models.WorkerModeDisabled {
		return
	}

	go runWorker(ctx)
	zap.L().Info("Started worker", zap.String("worker", workerName))
}
