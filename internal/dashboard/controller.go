package dashboard

import (
	"context"
	"time"

	"backoffice/internal/events"
	"backoffice/internal/models"
	"backoffice/internal/toast"

	"go.uber.org/zap"
)

// Controller keeps the dashboard in step with push events. After each forced
// re-fetch it clears only the pending entries that existed before the fetch
// started, so an event arriving mid-fetch triggers another one.
type Controller struct {
	fetcher *Fetcher
	queue   *events.PendingQueue
	trigger <-chan struct{}
	toaster toast.IToaster

	authenticated func() bool
	sessionPoll   time.Duration
}

const (
	msgLoadFailed      = "Failed to load dashboard data"
	defaultSessionPoll = time.Second
)

// NewController wires the fetcher to the fan-out queue and trigger. toaster may be nil.
func NewController(
	fetcher *Fetcher,
	queue *events.PendingQueue,
	trigger <-chan struct{},
	toaster toast.IToaster,
) *Controller {
	return &Controller{
		fetcher:     fetcher,
		queue:       queue,
		trigger:     trigger,
		toaster:     toaster,
		sessionPoll: defaultSessionPoll,
	}
}

// RequireSession makes Run hold its initial fetch until authenticated reports true.
func (c *Controller) RequireSession(authenticated func() bool) {
	c.authenticated = authenticated
}

// Run performs the initial fetch, then re-fetches on every trigger until ctx ends.
func (c *Controller) Run(ctx context.Context) {
	if !c.waitForSession(ctx) {
		return
	}

	if _, err := c.fetcher.Fetch(ctx, false); err != nil {
		zap.L().Warn("Initial dashboard fetch failed", zap.Error(err))
		c.loadFailed()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.trigger:
			c.drain(ctx)
		}
	}
}

func (c *Controller) waitForSession(ctx context.Context) bool {
	if c.authenticated == nil || c.authenticated() {
		return true
	}

	zap.L().Debug("Dashboard waiting for an administrator session")
	ticker := time.NewTicker(c.sessionPoll)
	defer ticker.Stop()

	for !c.authenticated() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}

func (c *Controller) drain(ctx context.Context) {
	if c.queue.Len() == 0 {
		return
	}

	seq := c.queue.LastSeq()
	if _, err := c.fetcher.Fetch(ctx, true); err != nil {
		zap.L().Warn("Dashboard re-fetch after push event failed", zap.Error(err))
	}
	cleared := c.queue.ClearThrough(seq)
	zap.L().Debug("Pending events drained", zap.Int("cleared", cleared), zap.Uint64("through", seq))
}

// RefreshIfStale is the periodic staleness task.
func (c *Controller) RefreshIfStale(ctx context.Context) (int, error) {
	if !c.fetcher.Stale() {
		return 0, nil
	}
	if _, err := c.fetcher.Fetch(ctx, false); err != nil {
		return 0, err
	}
	return 1, nil
}

// Refresh is the manual refresh; it always hits the backend.
func (c *Controller) Refresh(ctx context.Context) (models.DashboardSnapshot, error) {
	snapshot, err := c.fetcher.Fetch(ctx, true)
	if err != nil {
		c.loadFailed()
	}
	return snapshot, err
}

// Snapshot returns the snapshot, fetching first when it is stale.
func (c *Controller) Snapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	snapshot, err := c.fetcher.Fetch(ctx, false)
	if err != nil {
		c.loadFailed()
	}
	return snapshot, err
}

func (c *Controller) loadFailed() {
	if c.toaster != nil {
		c.toaster.Error(msgLoadFailed)
	}
}

func (c *Controller) ClearPending() {
	c.queue.Clear()
}
