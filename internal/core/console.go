package core

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/activity"
	"backoffice/internal/backend"
	"backoffice/internal/cache"
	"backoffice/internal/configuration"
	"backoffice/internal/dashboard"
	apierrors "backoffice/internal/errors"
	"backoffice/internal/events"
	"backoffice/internal/models"
	"backoffice/internal/notifier"
	"backoffice/internal/orders"
	"backoffice/internal/products"
	"backoffice/internal/push"
	"backoffice/internal/session"
	"backoffice/internal/toast"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pushRetryInterval = 15 * time.Second

// Console holds every long-lived component of one admin console process.
type Console struct {
	Config     models.Configuration
	InstanceID string

	Cache     cache.ICache
	Activity  activity.IActivityLogger
	Toasts    *toast.Board
	Backend   *backend.Client
	Sessions  *session.Manager
	Notifier  *notifier.PermissionGate
	Push      *push.Client
	Listener  *push.Listener
	FanOut    *events.FanOut
	Fetcher   *dashboard.Fetcher
	Dashboard *dashboard.Controller
	Orders    *orders.Controller
	Products  *products.Controller
}

func NewConsole(config models.Configuration) *Console {
	c := &Console{
		Config:     config,
		InstanceID: uuid.NewString(),
		Cache:      NewCache(config.Cache),
		Activity:   NewActivityLogger(config.Activity),
		Toasts:     toast.NewBoard(configuration.ToastHistorySize),
	}

	c.Sessions = session.NewManager(NewSessionStore(config.Session, c.Cache), nil, c.Toasts, c.Activity)
	c.Backend = backend.NewClient(config.Backend, c.Sessions.Token)
	c.Sessions.SetAuthenticator(c.Backend)

	c.Notifier = NewNotifier(config.Notifier, c.Cache)
	c.Push = push.NewClient(NewPushTransports(config.Push), config.Push.Room, c.InstanceID)
	c.Listener = push.NewListener(c.Push, config.Push.BufferSize)
	c.FanOut = events.NewFanOut(events.NewPendingQueue(), c.Toasts, c.Notifier)

	c.Fetcher = dashboard.NewFetcher(c.Backend, config.Dashboard)
	c.Dashboard = dashboard.NewController(c.Fetcher, c.FanOut.Queue(), c.FanOut.Trigger(), c.Toasts)
	c.Dashboard.RequireSession(c.Sessions.Authenticated)
	c.Orders = orders.NewController(c.Backend, c.Toasts, c.Activity, config.Orders.PageSize)
	c.Products = products.NewController(c.Backend, c.Toasts, c.Activity, config.Products)

	c.Sessions.OnSessionChanged(func(authenticated bool) {
		zap.L().Info("Administrator session changed", zap.Bool("authenticated", authenticated))
		c.Fetcher.Invalidate()
	})
	c.Toasts.SetOnToast(func(t models.Toast) {
		zap.L().Info("Toast",
			zap.String("level", string(t.Level)),
			zap.String("message", t.Message))
	})
	c.Push.OnConnectionStateChanged(func(connected bool) {
		zap.L().Info("Push channel state changed", zap.Bool("connected", connected))
	})

	return c
}

// Start restores the stored session and runs the push pipeline and the
// dashboard loop until ctx ends.
func (c *Console) Start(ctx context.Context) {
	if _, err := c.Sessions.Restore(ctx); err != nil {
		zap.L().Warn("Failed to restore session", zap.Error(err))
	}

	state := c.Notifier.State(ctx)
	zap.L().Info("Notification permission", zap.String("state", string(state)))

	go c.FanOut.Run(ctx, c.Listener.Events())
	go c.Dashboard.Run(ctx)
	go c.connectPush(ctx)
}

// connectPush retries until a transport connects, then binds the listener.
// Transports reconnect on their own after that.
func (c *Console) connectPush(ctx context.Context) {
	ticker := time.NewTicker(pushRetryInterval)
	defer ticker.Stop()

	for {
		err := c.Push.Connect(ctx)
		if err == nil {
			if err = c.Listener.Start(ctx); err != nil {
				zap.L().Error("Failed to bind push events", zap.Error(err))
			}
			return
		}
		if !errors.Is(err, apierrors.ErrNoTransport) {
			zap.L().Error("Push connect failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close releases the push connection, the cache and the audit index.
func (c *Console) Close() {
	if err := c.Push.Disconnect(); err != nil {
		zap.L().Warn("Failed to disconnect push channel", zap.Error(err))
	}
	if err := c.Activity.Close(); err != nil {
		zap.L().Warn("Failed to close activity index", zap.Error(err))
	}
	if err := c.Cache.Close(); err != nil {
		zap.L().Warn("Failed to close cache", zap.Error(err))
	}
}
