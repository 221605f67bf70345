package services

import (
	"context"

	"backoffice/internal/handlers"
	m "backoffice/internal/middlewares"
	"backoffice/internal/models"
	"backoffice/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthService struct {
	Sessions *session.Manager
}

func (s AuthService) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(m.Validate[models.AuthLoginBody]).Post("/login", handlers.CreateHandler(s.Login))
	r.With(m.RequireSession(s.Sessions)).Post("/logout", handlers.ActionHandler(s.Logout))
	r.Get("/session", handlers.GetOneHandler(s.GetSession))

	return r
}

func (s AuthService) Login(
	ctx context.Context,
	logger *zap.Logger,
	_ []string,
	body models.AuthLoginBody,
) (models.SessionResponse, error) {
	current, err := s.Sessions.Login(ctx, body.Email, body.Password)
	if err != nil {
		logger.Info("Admin login rejected", zap.String("email", body.Email), zap.Error(err))
		return models.SessionResponse{}, err
	}
	return models.SessionResponse{Authenticated: current.Authenticated()}, nil
}

func (s AuthService) Logout(ctx context.Context, _ *zap.Logger, _ []string) error {
	return s.Sessions.Logout(ctx)
}

func (s AuthService) GetSession(_ context.Context, _ *zap.Logger, _ []string) (models.SessionResponse, error) {
	return models.SessionResponse{Authenticated: s.Sessions.Authenticated()}, nil
}
