package services

import (
	"context"

	"backoffice/internal/dashboard"
	"backoffice/internal/events"
	"backoffice/internal/handlers"
	"backoffice/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DashboardService struct {
	Dashboard *dashboard.Controller
	Queue     *events.PendingQueue
}

func (s DashboardService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", handlers.GetOneHandler(s.GetSnapshot))
	r.Post("/refresh", handlers.GetOneHandler(s.Refresh))

	r.Route("/pending", func(r chi.Router) {
		r.Get("/", handlers.GetOneHandler(s.GetPending))
		r.Delete("/", handlers.DeleteHandler(s.ClearPending))
	})

	return r
}

// GetSnapshot serves the cached snapshot while it is fresh.
func (s DashboardService) GetSnapshot(
	ctx context.Context,
	_ *zap.Logger,
	_ []string,
) (models.DashboardSnapshot, error) {
	return s.Dashboard.Snapshot(ctx)
}

func (s DashboardService) Refresh(ctx context.Context, _ *zap.Logger, _ []string) (models.DashboardSnapshot, error) {
	return s.Dashboard.Refresh(ctx)
}

func (s DashboardService) GetPending(_ context.Context, _ *zap.Logger, _ []string) (models.PendingResponse, error) {
	return models.PendingResponse{
		Events:        s.Queue.Display(),
		NewOrderCount: s.Queue.NewOrderCount(),
	}, nil
}

func (s DashboardService) ClearPending(_ context.Context, logger *zap.Logger, _ []string) error {
	s.Dashboard.ClearPending()
	logger.Debug("Pending events cleared")
	return nil
}
