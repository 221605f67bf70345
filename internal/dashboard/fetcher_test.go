package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls atomic.Int32

	mu           sync.Mutex
	revenue      int64
	statsErr     error
	ordersErr    error
	productsErr  error
	histogramErr error
	panicOnStats bool
	block        chan struct{}
	started      chan struct{}
}

func (f *fakeSource) wait() {
	f.mu.Lock()
	block, started := f.block, f.started
	f.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}
}

func (f *fakeSource) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	f.calls.Add(1)
	f.wait()
	if err := ctx.Err(); err != nil {
		return models.DashboardStats{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnStats {
		panic("malformed stats")
	}
	return models.DashboardStats{TotalRevenue: decimal.NewFromInt(f.revenue), TotalOrders: 3}, f.statsErr
}

// ListOrders returns its page even alongside an error.
func (f *fakeSource) ListOrders(ctx context.Context, _, _ int) (models.OrderPage, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return models.OrderPage{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.OrderPage{Orders: []models.Order{{ID: "o1", RawStatus: "approved"}}}, f.ordersErr
}

func (f *fakeSource) ProductStats(ctx context.Context) ([]models.CategoryCount, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return []models.CategoryCount{{Category: "Flour Products", Count: 2}}, f.histogramErr
}

func (f *fakeSource) ListProducts(ctx context.Context, _ int) ([]models.Product, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return []models.Product{{ID: "p1", Stock: 3}, {ID: "p2", Stock: 30}}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestFetcher(source Source) (*Fetcher, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	fetcher := NewFetcher(source, models.DashboardConfiguration{
		StalenessMinutes:  5,
		RecentOrdersLimit: 5,
		ProductsLimit:     100,
	})
	fetcher.now = clock.Now
	return fetcher, clock
}

func TestFetcher_StalenessGate(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{revenue: 100}
	fetcher, clock := newTestFetcher(source)

	_, ok := fetcher.LastFetched()
	assert.False(t, ok)

	first, err := fetcher.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(4), source.calls.Load())

	clock.Advance(4 * time.Minute)
	second, err := fetcher.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(4), source.calls.Load())
	assert.Equal(t, first, second)

	clock.Advance(time.Minute)
	_, err = fetcher.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(8), source.calls.Load())
}

func TestFetcher_ForceBypassesGate(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{revenue: 100}
	fetcher, _ := newTestFetcher(source)

	_, err := fetcher.Fetch(ctx, false)
	require.NoError(t, err)

	source.mu.Lock()
	source.revenue = 250
	source.mu.Unlock()

	snapshot, err := fetcher.Fetch(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int32(8), source.calls.Load())
	assert.True(t, decimal.NewFromInt(250).Equal(snapshot.TotalRevenue))
}

func TestFetcher_SliceFailureIsIsolated(t *testing.T) {
	source := &fakeSource{revenue: 100, productsErr: errors.New("timeout")}
	fetcher, clock := newTestFetcher(source)

	snapshot, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(100).Equal(snapshot.TotalRevenue))
	assert.Zero(t, snapshot.TotalProducts)
	assert.Equal(t, 1, snapshot.Categories)
	require.Len(t, snapshot.RecentOrders, 1)
	assert.Equal(t, models.OrderStatusProcessing, snapshot.RecentOrders[0].Status)

	mark, ok := fetcher.LastFetched()
	assert.True(t, ok)
	assert.Equal(t, clock.Now(), mark)
}

func TestFetcher_PanickingSliceIsIsolated(t *testing.T) {
	source := &fakeSource{panicOnStats: true}
	fetcher, _ := newTestFetcher(source)

	snapshot, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, snapshot.TotalRevenue.IsZero())
	assert.Equal(t, 2, snapshot.TotalProducts)
}

func TestFetcher_AllSlicesFail(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{revenue: 100}
	fetcher, clock := newTestFetcher(source)

	previous, err := fetcher.Fetch(ctx, false)
	require.NoError(t, err)

	down := errors.New("backend down")
	source.mu.Lock()
	source.statsErr, source.ordersErr, source.productsErr, source.histogramErr = down, down, down, down
	source.mu.Unlock()

	clock.Advance(10 * time.Minute)
	snapshot, err := fetcher.Fetch(ctx, false)
	require.ErrorIs(t, err, apierrors.ErrAllSlicesFailed)
	assert.Equal(t, previous, snapshot)

	// The mark still moves, so the failed fetch is not retried immediately.
	mark, _ := fetcher.LastFetched()
	assert.Equal(t, clock.Now(), mark)
	assert.False(t, fetcher.Stale())
}

func TestFetcher_ConcurrentUnforcedFetchesCollapse(t *testing.T) {
	source := &fakeSource{revenue: 1, block: make(chan struct{}), started: make(chan struct{}, 1)}
	fetcher, _ := newTestFetcher(source)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fetcher.Fetch(context.Background(), false)
			assert.NoError(t, err)
		}()
	}

	<-source.started
	time.Sleep(20 * time.Millisecond)
	close(source.block)
	wg.Wait()

	assert.Equal(t, int32(4), source.calls.Load())
}

func TestFetcher_FailedOrdersSliceIsEmpty(t *testing.T) {
	source := &fakeSource{revenue: 100, ordersErr: errors.New("timeout")}
	fetcher, _ := newTestFetcher(source)

	snapshot, err := fetcher.Fetch(context.Background(), true)
	require.NoError(t, err)

	assert.Empty(t, snapshot.RecentOrders)
	assert.True(t, decimal.NewFromInt(100).Equal(snapshot.TotalRevenue))
	assert.Equal(t, 2, snapshot.TotalProducts)
	assert.Equal(t, 1, snapshot.Categories)
}

func TestFetcher_CallerCancellationDoesNotAbortFetch(t *testing.T) {
	source := &fakeSource{revenue: 100}
	fetcher, clock := newTestFetcher(source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snapshot, err := fetcher.Fetch(ctx, false)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(snapshot.TotalRevenue))
	require.Len(t, snapshot.RecentOrders, 1)

	clock.Advance(time.Minute)
	cached, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, snapshot, cached)
	assert.Equal(t, int32(4), source.calls.Load())
}

func TestFetcher_Invalidate(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{revenue: 100}
	fetcher, _ := newTestFetcher(source)

	_, err := fetcher.Fetch(ctx, false)
	require.NoError(t, err)
	assert.False(t, fetcher.Stale())

	fetcher.Invalidate()
	assert.True(t, fetcher.Stale())
	_, ok := fetcher.LastFetched()
	assert.False(t, ok)

	_, err = fetcher.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(8), source.calls.Load())
}

func TestFetcher_InvalidateDuringFetchDiscardsResult(t *testing.T) {
	source := &fakeSource{revenue: 100, block: make(chan struct{}), started: make(chan struct{}, 1)}
	fetcher, _ := newTestFetcher(source)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := fetcher.Fetch(context.Background(), false)
		assert.NoError(t, err)
	}()

	<-source.started
	fetcher.Invalidate()
	close(source.block)
	<-done

	assert.True(t, fetcher.Stale())
	_, ok := fetcher.LastFetched()
	assert.False(t, ok)
}
