package services

import (
	"context"

	"backoffice/internal/configuration"
	"backoffice/internal/dashboard"
	"backoffice/internal/events"
	"backoffice/internal/handlers"
	"backoffice/internal/models"
	"backoffice/internal/push"
	"backoffice/internal/toast"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusService exposes the connection indicator, pending counters and toasts.
type StatusService struct {
	Push    *push.Client
	Queue   *events.PendingQueue
	Fetcher *dashboard.Fetcher
	Toasts  *toast.Board
}

func (s StatusService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", handlers.GetOneHandler(s.GetStatus))
	r.Get("/toasts", handlers.GetOneHandler(s.GetToasts))

	return r
}

func (s StatusService) GetStatus(_ context.Context, _ *zap.Logger, _ []string) (models.StatusResponse, error) {
	response := models.StatusResponse{
		Push:          s.Push.Status(),
		Transport:     s.Push.Transport(),
		Pending:       s.Queue.Len(),
		NewOrderCount: s.Queue.NewOrderCount(),
	}
	if lastFetched, ok := s.Fetcher.LastFetched(); ok {
		response.LastFetched = &lastFetched
	}
	return response, nil
}

func (s StatusService) GetToasts(_ context.Context, _ *zap.Logger, _ []string) ([]models.Toast, error) {
	return s.Toasts.Recent(configuration.ToastHistorySize), nil
}
