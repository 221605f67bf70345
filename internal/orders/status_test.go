package orders

import (
	"testing"

	"backoffice/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatusForDisplay(t *testing.T) {
	tests := []struct {
		raw  string
		want models.OrderStatus
	}{
		{"pending", models.OrderStatusPending},
		{"approved", models.OrderStatusProcessing},
		{"APPROVED", models.OrderStatusProcessing},
		{"processing", models.OrderStatusProcessing},
		{" Shipped ", models.OrderStatusShipped},
		{"delivered", models.OrderStatusDelivered},
		{"cancelled", models.OrderStatusCancelled},
		{"", models.OrderStatusPending},
		{"refunded", models.OrderStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatStatusForDisplay(tt.raw))
		})
	}
}

func TestFormatStatusForDisplay_Idempotent(t *testing.T) {
	for _, status := range models.OrderStatuses {
		assert.Equal(t, status, FormatStatusForDisplay(string(status)))
	}
}

func TestNormalize(t *testing.T) {
	orders := Normalize([]models.Order{
		{ID: "a", RawStatus: "approved"},
		{ID: "b"},
		{ID: "c", Status: models.OrderStatusShipped},
	})

	assert.Equal(t, models.OrderStatusProcessing, orders[0].Status)
	assert.Equal(t, "approved", orders[0].RawStatus)
	assert.Equal(t, models.OrderStatusPending, orders[1].Status)
	assert.Equal(t, models.OrderStatusShipped, orders[2].Status)
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(models.Order{Status: models.OrderStatusPending}))
	assert.True(t, Cancellable(models.Order{Status: models.OrderStatusShipped}))
	assert.False(t, Cancellable(models.Order{Status: models.OrderStatusDelivered}))
	assert.False(t, Cancellable(models.Order{Status: models.OrderStatusCancelled}))
}

func TestFilterAndStats(t *testing.T) {
	orders := []models.Order{
		{ID: "1", Status: models.OrderStatusPending},
		{ID: "2", Status: models.OrderStatusShipped},
		{ID: "3", Status: models.OrderStatusPending},
	}

	assert.Len(t, Filter(orders, AllStatuses), 3)
	assert.Len(t, Filter(orders, ""), 3)
	pending := Filter(orders, "Pending")
	assert.Len(t, pending, 2)
	assert.Empty(t, Filter(orders, "Delivered"))

	stats := Stats(orders)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.OrderStatusPending])
	assert.Equal(t, 1, stats.ByStatus[models.OrderStatusShipped])
	assert.Equal(t, 0, stats.ByStatus[models.OrderStatusCancelled])
	assert.Len(t, stats.ByStatus, len(models.OrderStatuses))
}
