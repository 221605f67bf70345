package notifier

import (
	"context"
	"sync"

	"backoffice/internal/cache"
	c "backoffice/internal/configuration"
	"backoffice/internal/models"

	"go.uber.org/zap"
)

// PermissionGate forwards notifications to a sink only when permission is
// granted. A default state is resolved by asking the sink once; the answer is
// persisted and never asked for again. While the state cannot be read from the
// store the gate stays undecided and retries on the next call.
type PermissionGate struct {
	sink    INotifier
	store   cache.ICache
	initial models.PermissionState

	mu         sync.Mutex
	state      models.PermissionState
	resolved   bool
	requesting bool
}

func NewPermissionGate(sink INotifier, store cache.ICache, initial models.PermissionState) *PermissionGate {
	if initial == "" {
		initial = models.PermissionDefault
	}
	return &PermissionGate{sink: sink, store: store, initial: initial, state: models.PermissionDefault}
}

// State returns the permission, requesting it from the sink when still undecided.
// Callers arriving while a request is in flight see the default state.
func (g *PermissionGate) State(ctx context.Context) models.PermissionState {
	g.mu.Lock()
	if g.resolved || g.requesting {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.requesting = true
	g.mu.Unlock()

	state, err := g.load(ctx)
	if err != nil {
		zap.L().Warn("Failed to load notification permission, will retry", zap.Error(err))
		g.finish(models.PermissionDefault, false)
		return models.PermissionDefault
	}

	if state == models.PermissionDefault {
		state = g.request(ctx)
	}

	g.finish(state, true)
	return state
}

func (g *PermissionGate) request(ctx context.Context) models.PermissionState {
	state, err := g.sink.RequestPermission(ctx)
	if err != nil {
		zap.L().Warn("Notification permission request failed", zap.Error(err))
		state = models.PermissionDenied
	}
	if err = g.store.Set(ctx, c.StorePermissionKey, string(state), 0); err != nil {
		zap.L().Warn("Failed to persist notification permission", zap.Error(err))
	}
	zap.L().Info("Notification permission requested", zap.String("state", string(state)))
	return state
}

func (g *PermissionGate) finish(state models.PermissionState, resolved bool) {
	g.mu.Lock()
	g.state = state
	g.resolved = resolved
	g.requesting = false
	g.mu.Unlock()
}

func (g *PermissionGate) load(ctx context.Context) (models.PermissionState, error) {
	stored, ok, err := g.store.Get(ctx, c.StorePermissionKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return g.initial, nil
	}
	return models.PermissionState(stored), nil
}

// Notify raises the notification when permitted and is a no-op otherwise.
func (g *PermissionGate) Notify(ctx context.Context, notification models.Notification) error {
	if g.State(ctx) != models.PermissionGranted {
		zap.L().Debug("Notification suppressed, permission not granted", zap.String("title", notification.Title))
		return nil
	}
	return g.sink.Notify(ctx, notification)
}

func (g *PermissionGate) RequestPermission(ctx context.Context) (models.PermissionState, error) {
	return g.State(ctx), nil
}
