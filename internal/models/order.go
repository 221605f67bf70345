package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the user-facing order status vocabulary.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the display vocabulary in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Order struct {
	ID              string          `json:"id"`
	Customer        Customer        `json:"customer"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	RawStatus       string          `json:"rawStatus,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalOrders int  `json:"totalOrders"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type OrderPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// OrderStats counts the orders of one fetched page by display status.
type OrderStats struct {
	Total    int                 `json:"total"`
	ByStatus map[OrderStatus]int `json:"byStatus"`
}

type OrderListResponse struct {
	OrderPage
	Stats OrderStats `json:"stats"`
}

type OrderListQueryParams struct {
	Page   int    `json:"page"   validate:"omitempty,gte=1"`
	Limit  int    `json:"limit"  validate:"omitempty,gte=1,lte=500"`
	Status string `json:"status" validate:"omitempty,oneof=All Pending Processing Shipped Delivered Cancelled"`
}

type OrderStatusBody struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}
