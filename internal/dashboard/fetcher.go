package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/models"
	"backoffice/internal/orders"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	sliceCount      = 4
	singleflightKey = "dashboard"
)

// Source is the part of the shop REST API the dashboard reads.
type Source interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	ListOrders(ctx context.Context, page, limit int) (models.OrderPage, error)
	ProductStats(ctx context.Context) ([]models.CategoryCount, error)
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
}

// Fetcher serves the dashboard snapshot, re-fetching only when the cached one
// is older than the staleness window or a refresh is forced.
type Fetcher struct {
	source        Source
	staleness     time.Duration
	recentOrders  int
	productsLimit int
	now           func() time.Time
	tracer        trace.Tracer

	// Unforced fetches collapse into one; forced fetches always run.
	group singleflight.Group

	mu         sync.RWMutex
	mark       time.Time
	snapshot   models.DashboardSnapshot
	generation uint64
}

func NewFetcher(source Source, config models.DashboardConfiguration) *Fetcher {
	return &Fetcher{
		source:        source,
		staleness:     time.Duration(config.StalenessMinutes) * time.Minute,
		recentOrders:  config.RecentOrdersLimit,
		productsLimit: config.ProductsLimit,
		now:           time.Now,
		tracer:        otel.Tracer("backoffice/dashboard"),
	}
}

// Fetch returns the cached snapshot while it is fresh, otherwise re-fetches
// all four slices. A slice that fails degrades to its empty value; an error is
// returned only when every slice failed, and the previous snapshot is kept.
// Cancelling ctx does not abort a fetch already in flight.
func (f *Fetcher) Fetch(ctx context.Context, forceRefresh bool) (models.DashboardSnapshot, error) {
	if !forceRefresh {
		if snapshot, ok := f.fresh(); ok {
			return snapshot, nil
		}
		v, err, _ := f.group.Do(singleflightKey, func() (any, error) {
			return f.refresh(ctx)
		})
		return v.(models.DashboardSnapshot), err
	}
	return f.refresh(ctx)
}

// Stale reports whether the next unforced Fetch will hit the backend.
func (f *Fetcher) Stale() bool {
	_, ok := f.fresh()
	return !ok
}

func (f *Fetcher) fresh() (models.DashboardSnapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.mark.IsZero() || f.now().Sub(f.mark) >= f.staleness {
		return models.DashboardSnapshot{}, false
	}
	return f.snapshot, true
}

func (f *Fetcher) refresh(ctx context.Context) (snapshot models.DashboardSnapshot, err error) {
	ctx, span := f.tracer.Start(context.WithoutCancel(ctx), "dashboard.fetch")
	defer span.End()

	f.mu.RLock()
	generation := f.generation
	f.mu.RUnlock()

	var (
		stats        models.DashboardStats
		recentOrders []models.Order
		productStats []models.CategoryCount
		products     []models.Product
		failures     atomic.Int32
	)

	var g errgroup.Group
	g.Go(f.slice(ctx, "stats", &failures, func(ctx context.Context) error {
		s, err := f.source.DashboardStats(ctx)
		if err == nil {
			stats = s
		}
		return err
	}))
	g.Go(f.slice(ctx, "recent_orders", &failures, func(ctx context.Context) error {
		page, err := f.source.ListOrders(ctx, 1, f.recentOrders)
		if err == nil {
			recentOrders = orders.Normalize(page.Orders)
		}
		return err
	}))
	g.Go(f.slice(ctx, "product_stats", &failures, func(ctx context.Context) error {
		counts, err := f.source.ProductStats(ctx)
		if err == nil {
			productStats = counts
		}
		return err
	}))
	g.Go(f.slice(ctx, "products", &failures, func(ctx context.Context) error {
		list, err := f.source.ListProducts(ctx, f.productsLimit)
		if err == nil {
			products = list
		}
		return err
	}))
	_ = g.Wait()

	now := f.now()
	failed := int(failures.Load())
	span.SetAttributes(attribute.Int("dashboard.failed_slices", failed))

	f.mu.Lock()
	defer f.mu.Unlock()

	// Invalidated while in flight: the result belongs to the previous session.
	current := f.generation == generation
	if current {
		f.mark = now
	}

	if failed == sliceCount {
		span.SetStatus(codes.Error, apierrors.ErrAllSlicesFailed.Error())
		zap.L().Warn("Dashboard refresh failed, keeping previous snapshot")
		return f.snapshot, apierrors.ErrAllSlicesFailed
	}

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Dashboard snapshot build panicked", zap.Any("panic", r))
			span.SetStatus(codes.Error, "snapshot build panicked")
			snapshot, err = f.snapshot, fmt.Errorf("build dashboard snapshot: %v", r)
		}
	}()

	snapshot = Build(stats, recentOrders, productStats, products)
	snapshot.GeneratedAt = now
	if current {
		f.snapshot = snapshot
	}

	zap.L().Debug("Dashboard refreshed", zap.Int("failed_slices", failed))
	return snapshot, nil
}

// slice wraps one fetch so that its error or panic stays local to it.
func (f *Fetcher) slice(
	ctx context.Context,
	name string,
	failures *atomic.Int32,
	fn func(context.Context) error,
) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				failures.Add(1)
				zap.L().Warn("Dashboard slice panicked", zap.String("slice", name), zap.Any("panic", r))
			}
		}()
		if err := fn(ctx); err != nil {
			failures.Add(1)
			zap.L().Warn("Dashboard slice failed", zap.String("slice", name), zap.Error(err))
		}
		return nil
	}
}

// LastFetched returns the freshness mark, or ok=false before the first fetch.
func (f *Fetcher) LastFetched() (time.Time, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mark, !f.mark.IsZero()
}

// Invalidate drops the snapshot and its freshness mark, so the next Fetch
// hits the backend. Fetches in flight at the time do not repopulate it.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	f.generation++
	f.mark = time.Time{}
	f.snapshot = models.DashboardSnapshot{}
	f.mu.Unlock()

	f.group.Forget(singleflightKey)
	zap.L().Debug("Dashboard snapshot invalidated")
}
