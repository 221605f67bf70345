package services

import (
	"context"

	"backoffice/internal/handlers"
	m "backoffice/internal/middlewares"
	"backoffice/internal/models"
	"backoffice/internal/orders"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderService struct {
	Orders *orders.Controller
}

func (s OrderService) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(m.ValidateQuery[models.OrderListQueryParams]).
		Get("/", handlers.GetOneWithQueryHandler(s.ListOrders))

	r.Route("/{id0}", func(r chi.Router) {
		r.With(m.Validate[models.OrderStatusBody]).
			Put("/status", handlers.BodyHandler(s.UpdateStatus))
		r.Post("/cancel", handlers.ActionHandler(s.CancelOrder))
	})

	return r
}

// ListOrders fetches one page and filters it by display status. Stats cover the
// whole fetched page.
func (s OrderService) ListOrders(
	ctx context.Context,
	_ *zap.Logger,
	_ []string,
	query models.OrderListQueryParams,
) (models.OrderListResponse, error) {
	page, err := s.Orders.List(ctx, query.Page, query.Limit)
	if err != nil {
		return models.OrderListResponse{}, err
	}

	stats := orders.Stats(page.Orders)
	page.Orders = orders.Filter(page.Orders, query.Status)

	return models.OrderListResponse{OrderPage: page, Stats: stats}, nil
}

func (s OrderService) UpdateStatus(
	ctx context.Context,
	_ *zap.Logger,
	ids []string,
	body models.OrderStatusBody,
) error {
	return s.Orders.SetStatus(ctx, ids[0], models.OrderStatus(body.Status))
}

func (s OrderService) CancelOrder(ctx context.Context, _ *zap.Logger, ids []string) error {
	return s.Orders.Cancel(ctx, ids[0])
}
