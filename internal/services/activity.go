package services

import (
	"context"

	"backoffice/internal/activity"
	"backoffice/internal/handlers"
	m "backoffice/internal/middlewares"
	"backoffice/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultActivityDays = 7

type ActivityService struct {
	ActivityLogger activity.IActivityLogger
}

func (s ActivityService) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(m.ValidateQuery[models.ActivitySearchQueryParams]).
		Get("/", handlers.GetListHandler(s.SearchActivity))
	r.With(m.ValidateQuery[models.ActivitySearchQueryParams]).
		Get("/daily", handlers.GetListHandler(s.CountActivityByDay))

	return r
}

func criteria(query models.ActivitySearchQueryParams) map[string][]string {
	searchCriteria := map[string][]string{}
	if query.Action != "" {
		searchCriteria["action"] = []string{query.Action}
	}
	return searchCriteria
}

func (s ActivityService) SearchActivity(
	_ context.Context,
	_ *zap.Logger,
	_ []string,
	query models.ActivitySearchQueryParams,
) ([]map[string]any, error) {
	return s.ActivityLogger.Search(criteria(query))
}

func (s ActivityService) CountActivityByDay(
	_ context.Context,
	_ *zap.Logger,
	_ []string,
	query models.ActivitySearchQueryParams,
) ([]models.TimeSeriesPoint, error) {
	days := query.Days
	if days == 0 {
		days = defaultActivityDays
	}
	return s.ActivityLogger.CountByDay(criteria(query), days)
}
