package orders

import (
	"context"
	"fmt"
	"sync"

	"backoffice/internal/activity"
	apierrors "backoffice/internal/errors"
	"backoffice/internal/models"
	"backoffice/internal/toast"

	"go.uber.org/zap"
)

const (
	msgFetchFailed    = "Failed to fetch orders"
	msgUpdateSuccess  = "Order status updated successfully"
	msgUpdateFailed   = "Failed to update order status"
	msgCancelSuccess  = "Order cancelled successfully"
	msgCancelFailed   = "Failed to cancel order"
	orderActivityType = "order"
)

// Backend is the order part of the shop REST API.
type Backend interface {
	ListOrders(ctx context.Context, page, limit int) (models.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) error
}

// Controller drives the paginated order list. Overlapping fetches are not
// fenced; the last response to arrive wins.
type Controller struct {
	backend  Backend
	toaster  toast.IToaster
	activity activity.IActivityLogger
	pageSize int

	mu      sync.RWMutex
	page    int
	current models.OrderPage
}

func NewController(
	backend Backend,
	toaster toast.IToaster,
	activityLogger activity.IActivityLogger,
	pageSize int,
) *Controller {
	return &Controller{
		backend:  backend,
		toaster:  toaster,
		activity: activityLogger,
		pageSize: pageSize,
		page:     1,
	}
}

// List fetches one page and makes it current.
func (c *Controller) List(ctx context.Context, page, pageSize int) (models.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = c.pageSize
	}

	result, err := c.backend.ListOrders(ctx, page, pageSize)
	if err != nil {
		zap.L().Warn("Failed to fetch orders", zap.Int("page", page), zap.Error(err))
		c.toaster.Error(msgFetchFailed)
		return models.OrderPage{}, err
	}
	result.Orders = Normalize(result.Orders)

	c.mu.Lock()
	c.page = page
	c.current = result
	c.mu.Unlock()

	return result, nil
}

// Refresh re-fetches the current page.
func (c *Controller) Refresh(ctx context.Context) (models.OrderPage, error) {
	c.mu.RLock()
	page := c.page
	c.mu.RUnlock()
	return c.List(ctx, page, c.pageSize)
}

// Poll is the periodic refresh task. It stays silent on failure.
func (c *Controller) Poll(ctx context.Context) (int, error) {
	c.mu.RLock()
	page := c.page
	c.mu.RUnlock()

	result, err := c.backend.ListOrders(ctx, page, c.pageSize)
	if err != nil {
		return 0, fmt.Errorf("poll orders page %d: %w", page, err)
	}
	result.Orders = Normalize(result.Orders)

	c.mu.Lock()
	if c.page == page {
		c.current = result
	}
	c.mu.Unlock()

	return len(result.Orders), nil
}

// ChangePage moves to page, clamped to the known page range.
func (c *Controller) ChangePage(ctx context.Context, page int) (models.OrderPage, error) {
	c.mu.RLock()
	totalPages := c.current.Pagination.TotalPages
	c.mu.RUnlock()

	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return c.List(ctx, page, c.pageSize)
}

func (c *Controller) Current() models.OrderPage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Controller) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return c.updateStatus(ctx, id, status, msgUpdateSuccess, msgUpdateFailed, models.ActivityOrderStatusUpdated)
}

func (c *Controller) Cancel(ctx context.Context, id string) error {
	return c.updateStatus(ctx, id, models.OrderStatusCancelled, msgCancelSuccess, msgCancelFailed, models.ActivityOrderCancelled)
}

func (c *Controller) updateStatus(
	ctx context.Context,
	id string,
	status models.OrderStatus,
	success, failure, action string,
) error {
	if err := c.backend.UpdateOrderStatus(ctx, id, string(status)); err != nil {
		zap.L().Warn("Failed to update order status",
			zap.String("order_id", id),
			zap.String("status", string(status)),
			zap.Error(err))
		c.toaster.Error(apierrors.MessageOr(err, failure))
		return err
	}

	c.toaster.Success(success)
	activity.Record(c.activity, activity.NewActivity(
		action, orderActivityType, id,
		fmt.Sprintf("Order %s set to %s", id, status),
		map[string]string{"status": string(status)}))

	if _, err := c.Refresh(ctx); err != nil {
		zap.L().Debug("Order list refresh after status update failed", zap.Error(err))
	}
	return nil
}
