package handlers

import (
	"context"
	"errors"
	"net/http"

	apierrors "backoffice/internal/errors"
	h "backoffice/internal/helpers"
	m "backoffice/internal/middlewares"
	"backoffice/internal/models"

	"go.uber.org/zap"
)

type (
	CreateTargetFunc[In any, Out any]         func(context.Context, *zap.Logger, []string, In) (Out, error)
	GetOneTargetFunc[Out any]                 func(context.Context, *zap.Logger, []string) (Out, error)
	GetOneWithQueryTargetFunc[Q any, Out any] func(context.Context, *zap.Logger, []string, Q) (Out, error)
	GetListTargetFunc[Q any, Out any]         func(context.Context, *zap.Logger, []string, Q) ([]Out, error)
	BodyTargetFunc[In any]                    func(context.Context, *zap.Logger, []string, In) error
	ActionTargetFunc                          func(context.Context, *zap.Logger, []string) error
)

// ListResponse wraps list endpoints so the payload can grow without breaking clients.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// CreateHandler reads the body stored by m.Validate and responds 201 with the result.
func CreateHandler[In any, Out any](create CreateTargetFunc[In, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := r.Context().Value(models.BodyKey{}).(In)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		logger := m.GetLogger(r.Context())
		resp, err := create(r.Context(), logger, h.ParseIDs(r), body)
		if err != nil {
			respondWithError(w, logger, err)
			return
		}
		h.RespondWithJSON(w, http.StatusCreated, resp)
	}
}

func GetOneHandler[Out any](getOne GetOneTargetFunc[Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := m.GetLogger(r.Context())
		resp, err := getOne(r.Context(), logger, h.ParseIDs(r))
		if err != nil {
			respondWithError(w, logger, err)
			return
		}
		h.RespondWithJSON(w, http.StatusOK, resp)
	}
}

// GetOneWithQueryHandler reads the query stored by m.ValidateQuery.
func GetOneWithQueryHandler[Q any, Out any](getOne GetOneWithQueryTargetFunc[Q, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, ok := r.Context().Value(models.QueryKey{}).(Q)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		logger := m.GetLogger(r.Context())
		resp, err := getOne(r.Context(), logger, h.ParseIDs(r), query)
		if err != nil {
			respondWithError(w, logger, err)
			return
		}
		h.RespondWithJSON(w, http.StatusOK, resp)
	}
}

func GetListHandler[Q any, Out any](getList GetListTargetFunc[Q, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, ok := r.Context().Value(models.QueryKey{}).(Q)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		logger := m.GetLogger(r.Context())
		list, err := getList(r.Context(), logger, h.ParseIDs(r), query)
		if err != nil {
			respondWithError(w, logger, err)
			return
		}
		if list == nil {
			list = []Out{}
		}
		h.RespondWithJSON(w, http.StatusOK, ListResponse[Out]{Data: list})
	}
}

// BodyHandler applies a validated body and responds 204.
func BodyHandler[In any](apply BodyTargetFunc[In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := r.Context().Value(models.BodyKey{}).(In)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		logger := m.GetLogger(r.Context())
		if err := apply(r.Context(), logger, h.ParseIDs(r), body); err != nil {
			respondWithError(w, logger, err)
			return
		}
		h.RespondWithJSON(w, http.StatusNoContent, nil)
	}
}

// ActionHandler runs a bodiless command and responds 204.
func ActionHandler(action ActionTargetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := m.GetLogger(r.Context())
		if err := action(r.Context(), logger, h.ParseIDs(r)); err != nil {
			respondWithError(w, logger, err)
			return
		}
		h.RespondWithJSON(w, http.StatusNoContent, nil)
	}
}

func DeleteHandler(del ActionTargetFunc) http.HandlerFunc {
	return ActionHandler(del)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		h.RespondWithError(w, apiErr.Code, []string{apiErr.Message})
		return
	}

	logger.Error("Request failed", zap.Error(err))
	h.RespondWithError(w, http.StatusInternalServerError, []string{"INTERNAL_SERVER_ERROR"})
}
