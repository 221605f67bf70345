package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Push channel event names.
const (
	EventNewOrder           = "new-order"
	EventOrderStatusUpdated = "order-status-updated"
	EventJoinAdmin          = "join-admin"
)

type PushEventKind string

const (
	PushEventNewOrder           PushEventKind = "new_order"
	PushEventOrderStatusChanged PushEventKind = "order_status_changed"
)

type OrderSummary struct {
	OrderID      string          `json:"orderId,omitempty"`
	CustomerName string          `json:"customerName"`
	Total        decimal.Decimal `json:"total"`
}

type OrderStatusChange struct {
	OrderID   string `json:"orderId"`
	NewStatus string `json:"newStatus"`
}

// PushEvent is a tagged union: exactly one of NewOrder or StatusChange is set,
// matching Kind.
type PushEvent struct {
	Kind         PushEventKind      `json:"kind"`
	NewOrder     *OrderSummary      `json:"newOrder,omitempty"`
	StatusChange *OrderStatusChange `json:"statusChange,omitempty"`
	ReceivedAt   time.Time          `json:"receivedAt"`
}

func NewOrderEvent(summary OrderSummary, at time.Time) PushEvent {
	return PushEvent{Kind: PushEventNewOrder, NewOrder: &summary, ReceivedAt: at}
}

func OrderStatusChangedEvent(change OrderStatusChange, at time.Time) PushEvent {
	return PushEvent{Kind: PushEventOrderStatusChanged, StatusChange: &change, ReceivedAt: at}
}

// PendingEvent is a queued push event with its arrival sequence number.
type PendingEvent struct {
	Seq   uint64    `json:"seq"`
	Event PushEvent `json:"event"`
}

type JoinRoomPayload struct {
	Room     string `json:"room"`
	ClientID string `json:"clientId"`
}

type PushStatus string

const (
	PushStatusLive    PushStatus = "Live"
	PushStatusOffline PushStatus = "Offline"
)
