package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats are the backend ledger aggregates.
type DashboardStats struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
	TotalUsers   int             `json:"totalUsers"`
}

type DashboardSnapshot struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	TotalUsers        int             `json:"totalUsers"`
	TotalProducts     int             `json:"totalProducts"`
	ActiveProducts    int             `json:"activeProducts"`
	OutOfStock        int             `json:"outOfStock"`
	Categories        int             `json:"categories"`
	CategoryHistogram []CategoryCount `json:"categoryHistogram"`
	RecentOrders      []Order         `json:"recentOrders"`
	RecentProducts    []Product       `json:"recentProducts"`
	LowStockProducts  []Product       `json:"lowStockProducts"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

type PendingResponse struct {
	Events        []PendingEvent `json:"events"`
	NewOrderCount int            `json:"newOrderCount"`
}

type StatusResponse struct {
	Push          PushStatus `json:"push"`
	Transport     string     `json:"transport,omitempty"`
	Pending       int        `json:"pending"`
	NewOrderCount int        `json:"newOrderCount"`
	LastFetched   *time.Time `json:"lastFetched,omitempty"`
}
