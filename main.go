package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"backoffice/internal/configuration"
	"backoffice/internal/core"

	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	config := configuration.Read()
	core.NewLogger(config.App.LogLevel)

	profile := configuration.GetProfile(config.App.Profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := core.InitTelemetry(ctx, config.Telemetry)

	console := core.NewConsole(config)
	console.Start(ctx)

	if profile.Workers.AnyEnabled() {
		core.StartWorkers(ctx, profile, console)
	}

	if profile.HTTPServer {
		core.StartHTTPServer(ctx, console)
	} else {
		zap.L().Info("Running in headless mode")
		<-ctx.Done()
	}

	console.Close()
	if err := shutdownTelemetry(context.Background()); err != nil {
		zap.L().Warn("Failed to flush telemetry", zap.Error(err))
	}
	_ = zap.L().Sync()
}
