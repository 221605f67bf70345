package dashboard

import (
	"cmp"
	"slices"
	"time"

	"backoffice/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	outOfStockThreshold = 5
	lowStockThreshold   = 10
	topN                = 5
)

// Build derives the dashboard snapshot from the four fetched slices. It is
// pure: the same inputs give the same snapshot, GeneratedAt aside.
func Build(
	stats models.DashboardStats,
	recentOrders []models.Order,
	productStats []models.CategoryCount,
	products []models.Product,
) models.DashboardSnapshot {
	histogram := productStats
	if len(histogram) == 0 {
		histogram = deriveHistogram(products)
	}

	active := 0
	outOfStock := 0
	for _, p := range products {
		if p.Active() {
			active++
		}
		if p.Stock <= outOfStockThreshold {
			outOfStock++
		}
	}

	return models.DashboardSnapshot{
		TotalRevenue:      stats.TotalRevenue,
		TotalOrders:       stats.TotalOrders,
		TotalUsers:        stats.TotalUsers,
		TotalProducts:     len(products),
		ActiveProducts:    active,
		OutOfStock:        outOfStock,
		Categories:        len(histogram),
		CategoryHistogram: slices.Clone(histogram),
		RecentOrders:      slices.Clone(recentOrders),
		RecentProducts:    recentProducts(products),
		LowStockProducts:  lowStockProducts(products),
	}
}

// deriveHistogram counts products per category in first-seen order.
func deriveHistogram(products []models.Product) []models.CategoryCount {
	index := make(map[string]int)
	var histogram []models.CategoryCount
	for _, p := range products {
		category := string(p.Category)
		if category == "" {
			continue
		}
		if i, ok := index[category]; ok {
			histogram[i].Count++
			continue
		}
		index[category] = len(histogram)
		histogram = append(histogram, models.CategoryCount{Category: category, Count: 1})
	}
	return histogram
}

// lowStockProducts lists products with 0 < stock <= 10, lowest stock first.
func lowStockProducts(products []models.Product) []models.Product {
	var low []models.Product
	for _, p := range products {
		if p.Stock > 0 && p.Stock <= lowStockThreshold {
			low = append(low, p)
		}
	}
	slices.SortStableFunc(low, func(a, b models.Product) int {
		return cmp.Compare(a.Stock, b.Stock)
	})
	return head(low, topN)
}

// recentProducts lists the newest products. A missing createdAt falls back
// to the creation time embedded in the document id.
func recentProducts(products []models.Product) []models.Product {
	recent := slices.Clone(products)
	slices.SortStableFunc(recent, func(a, b models.Product) int {
		return createdAt(b).Compare(createdAt(a))
	})
	return head(recent, topN)
}

func createdAt(p models.Product) time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	if id, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		return id.Timestamp()
	}
	return time.Time{}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return items
}
