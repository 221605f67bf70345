package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/events"
	"backoffice/internal/models"
	"backoffice/internal/toast"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushOrder(fanOut *events.FanOut, name string) {
	fanOut.OnPushEvent(context.Background(), models.NewOrderEvent(models.OrderSummary{
		CustomerName: name,
		Total:        decimal.NewFromInt(10),
	}, time.Now()))
}

func TestController_DrainKeepsEventsArrivingMidFetch(t *testing.T) {
	source := &fakeSource{block: make(chan struct{}), started: make(chan struct{}, 1)}
	fetcher, _ := newTestFetcher(source)
	fanOut := events.NewFanOut(events.NewPendingQueue(), toast.NewBoard(10), nil)
	controller := NewController(fetcher, fanOut.Queue(), fanOut.Trigger(), nil)

	pushOrder(fanOut, "A")

	done := make(chan struct{})
	go func() {
		controller.drain(context.Background())
		close(done)
	}()

	<-source.started
	pushOrder(fanOut, "B")
	close(source.block)
	<-done

	remaining := fanOut.Queue().Arrival()
	require.Len(t, remaining, 1)
	assert.Equal(t, "B", remaining[0].Event.NewOrder.CustomerName)
	assert.Equal(t, int32(4), source.calls.Load())
}

func TestController_RunDrainsOnTrigger(t *testing.T) {
	source := &fakeSource{revenue: 10}
	fetcher, _ := newTestFetcher(source)
	fanOut := events.NewFanOut(events.NewPendingQueue(), toast.NewBoard(10), nil)
	controller := NewController(fetcher, fanOut.Queue(), fanOut.Trigger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)

	require.Eventually(t, func() bool { return source.calls.Load() == 4 }, 2*time.Second, 10*time.Millisecond)

	pushOrder(fanOut, "A")
	pushOrder(fanOut, "B")

	require.Eventually(t, func() bool { return fanOut.Queue().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, source.calls.Load(), int32(8))
}

func TestController_EmptyQueueSkipsFetch(t *testing.T) {
	source := &fakeSource{}
	fetcher, _ := newTestFetcher(source)
	controller := NewController(fetcher, events.NewPendingQueue(), nil, nil)

	controller.drain(context.Background())
	assert.Zero(t, source.calls.Load())
}

func TestController_RefreshIfStale(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{}
	fetcher, clock := newTestFetcher(source)
	controller := NewController(fetcher, events.NewPendingQueue(), nil, nil)

	count, err := controller.RefreshIfStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = controller.RefreshIfStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	clock.Advance(6 * time.Minute)
	count, err = controller.RefreshIfStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, int32(8), source.calls.Load())
}

func TestController_ClearPending(t *testing.T) {
	fetcher, _ := newTestFetcher(&fakeSource{})
	fanOut := events.NewFanOut(events.NewPendingQueue(), toast.NewBoard(10), nil)
	controller := NewController(fetcher, fanOut.Queue(), fanOut.Trigger(), nil)

	pushOrder(fanOut, "A")
	controller.ClearPending()
	assert.Zero(t, fanOut.Queue().Len())
}

func TestController_RefreshFailureToasts(t *testing.T) {
	source := &fakeSource{
		statsErr:     errors.New("down"),
		ordersErr:    errors.New("down"),
		productsErr:  errors.New("down"),
		histogramErr: errors.New("down"),
	}
	fetcher, _ := newTestFetcher(source)
	board := toast.NewBoard(10)
	controller := NewController(fetcher, events.NewPendingQueue(), nil, board)

	_, err := controller.Refresh(context.Background())
	require.ErrorIs(t, err, apierrors.ErrAllSlicesFailed)

	toasts := board.Recent(0)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Failed to load dashboard data", toasts[0].Message)
}

func TestController_RunWaitsForSession(t *testing.T) {
	source := &fakeSource{revenue: 10}
	fetcher, _ := newTestFetcher(source)
	controller := NewController(fetcher, events.NewPendingQueue(), nil, nil)
	controller.sessionPoll = 5 * time.Millisecond

	var authenticated atomic.Bool
	controller.RequireSession(authenticated.Load)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, source.calls.Load())

	authenticated.Store(true)
	require.Eventually(t, func() bool { return source.calls.Load() == 4 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, fetcher.Stale())
}
