package orders

import (
	"strings"

	"backoffice/internal/models"
)

// AllStatuses disables status filtering.
const AllStatuses = "All"

var displayStatuses = map[string]models.OrderStatus{
	"pending":    models.OrderStatusPending,
	"approved":   models.OrderStatusProcessing,
	"processing": models.OrderStatusProcessing,
	"shipped":    models.OrderStatusShipped,
	"delivered":  models.OrderStatusDelivered,
	"cancelled":  models.OrderStatusCancelled,
}

// FormatStatusForDisplay maps any backend status onto the display vocabulary.
// Unknown or empty statuses read as Pending.
func FormatStatusForDisplay(raw string) models.OrderStatus {
	key := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if status, ok := displayStatuses[key]; ok {
		return status
	}
	return models.OrderStatusPending
}

// Normalize sets the display status of every order from its raw status.
func Normalize(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, order := range orders {
		if order.RawStatus == "" && order.Status != "" {
			order.RawStatus = string(order.Status)
		}
		order.Status = FormatStatusForDisplay(order.RawStatus)
		out[i] = order
	}
	return out
}

// Cancellable reports whether the cancel action applies to order.
func Cancellable(order models.Order) bool {
	return order.Status != models.OrderStatusCancelled && order.Status != models.OrderStatusDelivered
}

// Filter keeps orders with the given display status. "All" and "" keep everything.
func Filter(orders []models.Order, status string) []models.Order {
	if status == "" || status == AllStatuses {
		return orders
	}
	want := FormatStatusForDisplay(status)
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == want {
			out = append(out, order)
		}
	}
	return out
}

// Stats counts orders per display status. Every status is present, zero or not.
func Stats(orders []models.Order) models.OrderStats {
	stats := models.OrderStats{
		Total:    len(orders),
		ByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
	}
	for _, status := range models.OrderStatuses {
		stats.ByStatus[status] = 0
	}
	for _, order := range orders {
		stats.ByStatus[order.Status]++
	}
	return stats
}
