package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/configuration"
	"backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()

	config, err := configuration.LoadForTesting(map[string]any{
		"backend.url":     "http://127.0.0.1:1",
		"session.type":    configuration.ProviderCache,
		"push.transports": []string{configuration.ProviderMemory},
		"notifier.type":   configuration.ProviderNone,
	})
	require.NoError(t, err)

	console := NewConsole(config)
	t.Cleanup(console.Close)
	return console
}

func TestNewRouter_Guards(t *testing.T) {
	router := NewRouter(newTestConsole(t))

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/api/auth/session", http.StatusOK},
		{http.MethodGet, "/api/status", http.StatusOK},
		{http.MethodGet, "/api/toasts", http.StatusOK},
		{http.MethodGet, "/api/dashboard/", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders/", http.StatusUnauthorized},
		{http.MethodDelete, "/api/products/p1/", http.StatusUnauthorized},
		{http.MethodGet, "/api/activity/", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestConsole_ConnectsPushChannel(t *testing.T) {
	console := newTestConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console.Start(ctx)
	require.Eventually(t, console.Push.Connected, 2*time.Second, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	NewRouter(console).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var status models.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, models.PushStatusLive, status.Push)
	assert.Equal(t, configuration.ProviderMemory, status.Transport)
}

func TestNewPushTransports_KeepsOrder(t *testing.T) {
	transports := NewPushTransports(models.PushConfiguration{
		Transports:    []string{configuration.ProviderMemory, configuration.ProviderNATS},
		SubjectPrefix: "shop",
		NATS:          models.NATSPushConfiguration{Host: "localhost", Port: "4222", ReconnectWaitSeconds: 1},
	})

	require.Len(t, transports, 2)
	assert.Equal(t, configuration.ProviderMemory, transports[0].Name())
	assert.Equal(t, configuration.ProviderNATS, transports[1].Name())
}

func TestConsole_LogoutInvalidatesDashboard(t *testing.T) {
	console := newTestConsole(t)
	ctx := context.Background()

	// Every slice fails against the unreachable backend but the mark still moves.
	_, err := console.Fetcher.Fetch(ctx, false)
	require.Error(t, err)
	require.False(t, console.Fetcher.Stale())

	require.NoError(t, console.Sessions.Logout(ctx))
	assert.True(t, console.Fetcher.Stale())
}
