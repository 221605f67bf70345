package services

import (
	"context"
	"net/http"
	"strconv"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/handlers"
	h "backoffice/internal/helpers"
	m "backoffice/internal/middlewares"
	"backoffice/internal/models"
	"backoffice/internal/products"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const multipartMemory = 1 << 20

type ProductService struct {
	Products *products.Controller
	PageSize int
}

func (s ProductService) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(m.ValidateQuery[models.ProductListQueryParams]).
		Get("/", handlers.GetOneWithQueryHandler(s.ListProducts))
	r.Post("/", s.CreateProduct)

	r.Route("/{id0}", func(r chi.Router) {
		r.With(m.Validate[models.ProductPatch]).
			Put("/", handlers.BodyHandler(s.UpdateProduct))
		r.Delete("/", handlers.DeleteHandler(s.DeleteProduct))
	})

	return r
}

// ListProducts re-fetches the catalog, then searches, filters and pages it locally.
func (s ProductService) ListProducts(
	ctx context.Context,
	_ *zap.Logger,
	_ []string,
	query models.ProductListQueryParams,
) (models.ProductListResponse, error) {
	catalog, err := s.Products.List(ctx)
	if err != nil {
		return models.ProductListResponse{}, err
	}

	matched := products.Search(catalog, query.Q, query.Category)
	matched, err = products.Query(matched, query.Filter)
	if err != nil {
		return models.ProductListResponse{}, err
	}

	page := max(query.Page, 1)
	pageItems, totalPages := products.Paginate(matched, page, s.PageSize)

	return models.ProductListResponse{
		Products:   pageItems,
		Page:       page,
		TotalPages: totalPages,
		Matched:    len(matched),
		Inventory:  products.Inventory(catalog),
	}, nil
}

// CreateProduct accepts the multipart create form with its "image" file.
func (s ProductService) CreateProduct(w http.ResponseWriter, r *http.Request) {
	logger := m.GetLogger(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		logger.Debug("Invalid multipart form", zap.Error(err))
		h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
		return
	}

	draft, err := parseDraft(r)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, []string{err.Message})
		return
	}

	var image models.ImageUpload
	file, header, fileErr := r.FormFile("image")
	if fileErr == nil {
		defer func() { _ = file.Close() }()
		image = models.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
	}

	product, createErr := s.Products.Create(r.Context(), draft, image)
	if createErr != nil {
		h.RespondWithError(w,
			apierrors.StatusOr(createErr, http.StatusBadGateway),
			[]string{apierrors.MessageOr(createErr, "Failed to add product. Please try again.")})
		return
	}
	h.RespondWithJSON(w, http.StatusCreated, product)
}

func parseDraft(r *http.Request) (models.ProductDraft, *apierrors.APIError) {
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil {
		return models.ProductDraft{}, apierrors.NewAPIError(http.StatusBadRequest, "Invalid price")
	}

	stock := 0
	if raw := r.FormValue("stock"); raw != "" {
		if stock, err = strconv.Atoi(raw); err != nil {
			return models.ProductDraft{}, apierrors.NewAPIError(http.StatusBadRequest, "Invalid stock")
		}
	}

	return models.ProductDraft{
		Name:        r.FormValue("name"),
		FullName:    r.FormValue("fullName"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    models.Category(r.FormValue("category")),
		Stock:       stock,
		Weight:      r.FormValue("weight"),
		Features:    r.FormValue("features"),
	}, nil
}

func (s ProductService) UpdateProduct(
	ctx context.Context,
	_ *zap.Logger,
	ids []string,
	patch models.ProductPatch,
) error {
	return s.Products.Update(ctx, ids[0], patch)
}

func (s ProductService) DeleteProduct(ctx context.Context, _ *zap.Logger, ids []string) error {
	return s.Products.Delete(ctx, ids[0])
}
