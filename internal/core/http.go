package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	m "backoffice/internal/middlewares"
	"backoffice/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// NewRouter mounts the console API under /api.
func NewRouter(console *Console) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(m.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   console.Config.App.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Mount("/auth", services.AuthService{Sessions: console.Sessions}.Routes())

		apiRouter.Mount("/", services.StatusService{
			Push:    console.Push,
			Queue:   console.FanOut.Queue(),
			Fetcher: console.Fetcher,
			Toasts:  console.Toasts,
		}.Routes())

		apiRouter.Group(func(protected chi.Router) {
			protected.Use(m.RequireSession(console.Sessions))

			protected.Mount("/dashboard", services.DashboardService{
				Dashboard: console.Dashboard,
				Queue:     console.FanOut.Queue(),
			}.Routes())

			protected.Mount("/orders", services.OrderService{
				Orders: console.Orders,
			}.Routes())

			protected.Mount("/products", services.ProductService{
				Products: console.Products,
				PageSize: console.Config.Products.PageSize,
			}.Routes())

			protected.Mount("/activity", services.ActivityService{
				ActivityLogger: console.Activity,
			}.Routes())
		})
	})

	return r
}

// StartHTTPServer serves the console API until ctx ends.
func StartHTTPServer(ctx context.Context, console *Console) {
	port := console.Config.App.Port
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      otelhttp.NewHandler(NewRouter(console), "console-api"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	zap.L().Info("HTTP server starting", zap.Int("port", port))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("Failed to start the app", zap.Error(err))
	}
}
