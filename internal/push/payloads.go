package push

import (
	"encoding/json"
	"fmt"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

const unnamedCustomer = "Customer"

type newOrderPayload struct {
	OrderID      string           `json:"orderId"`
	ID           string           `json:"_id"`
	CustomerName string           `json:"customerName"`
	Total        *decimal.Decimal `json:"total"`
	TotalAmount  *decimal.Decimal `json:"totalAmount"`
}

type statusPayload struct {
	OrderID   string `json:"orderId"`
	NewStatus string `json:"newStatus"`
	Status    string `json:"status"`
}

// decodeNewOrder accepts every known new-order shape. Missing totals read as zero.
func decodeNewOrder(data []byte, at time.Time) (models.PushEvent, error) {
	var p newOrderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return models.PushEvent{}, fmt.Errorf("decode new-order payload: %w", err)
	}

	summary := models.OrderSummary{
		OrderID:      p.OrderID,
		CustomerName: p.CustomerName,
		Total:        decimal.Zero,
	}
	if summary.OrderID == "" {
		summary.OrderID = p.ID
	}
	if summary.CustomerName == "" {
		summary.CustomerName = unnamedCustomer
	}
	switch {
	case p.Total != nil:
		summary.Total = *p.Total
	case p.TotalAmount != nil:
		summary.Total = *p.TotalAmount
	}

	return models.NewOrderEvent(summary, at), nil
}

func decodeStatusChange(data []byte, at time.Time) (models.PushEvent, error) {
	var p statusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return models.PushEvent{}, fmt.Errorf("decode order-status-updated payload: %w", err)
	}

	status := p.NewStatus
	if status == "" {
		status = p.Status
	}
	if p.OrderID == "" || status == "" {
		return models.PushEvent{}, fmt.Errorf("order-status-updated payload without order id or status")
	}

	return models.OrderStatusChangedEvent(models.OrderStatusChange{OrderID: p.OrderID, NewStatus: status}, at), nil
}
