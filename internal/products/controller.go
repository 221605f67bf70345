package products

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"backoffice/internal/activity"
	apierrors "backoffice/internal/errors"
	"backoffice/internal/models"
	"backoffice/internal/toast"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgFetchFailed     = "Failed to fetch products"
	msgUploading       = "Uploading product and image..."
	msgCreateSuccess   = "Product added successfully with image!"
	msgCreateFailed    = "Failed to add product. Please try again."
	msgImageTooLarge   = "Image size should be less than 5MB"
	msgImageInvalid    = "Please upload a valid image file"
	msgUpdateSuccess   = "Product updated successfully"
	msgUpdateFailed    = "Failed to update product"
	msgDeleteSuccess   = "Product deleted successfully"
	msgDeleteFailed    = "Failed to delete product"
	productActivityObj = "product"
)

// Backend is the product part of the shop REST API.
type Backend interface {
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, draft models.ProductDraft, image models.ImageUpload) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
}

// Controller drives the product catalog list and its mutations.
type Controller struct {
	backend      Backend
	toaster      toast.IToaster
	activity     activity.IActivityLogger
	validate     *validator.Validate
	listingLimit int
	maxImageSize int64

	mu       sync.RWMutex
	products []models.Product
}

func NewController(
	backend Backend,
	toaster toast.IToaster,
	activityLogger activity.IActivityLogger,
	config models.ProductsConfiguration,
) *Controller {
	return &Controller{
		backend:      backend,
		toaster:      toaster,
		activity:     activityLogger,
		validate:     validator.New(),
		listingLimit: config.ListingLimit,
		maxImageSize: config.MaxImageSize,
	}
}

// List fetches the catalog. On failure the list is emptied.
func (c *Controller) List(ctx context.Context) ([]models.Product, error) {
	products, err := c.backend.ListProducts(ctx, c.listingLimit)
	if err != nil {
		zap.L().Warn("Failed to fetch products", zap.Error(err))
		c.toaster.Error(msgFetchFailed)
		products = nil
	}

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()

	return products, err
}

// Current returns the last fetched catalog.
func (c *Controller) Current() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Product(nil), c.products...)
}

// Create validates the draft and its image before any network call, then uploads both.
func (c *Controller) Create(ctx context.Context, draft models.ProductDraft, image models.ImageUpload) (models.Product, error) {
	if err := c.checkImage(image); err != nil {
		c.toaster.Error(err.Message)
		return models.Product{}, err
	}
	if err := c.checkDraft(draft.Price, draft.Category, draft); err != nil {
		c.toaster.Error(err.Message)
		return models.Product{}, err
	}

	c.toaster.Info(msgUploading)
	product, err := c.backend.CreateProduct(ctx, draft, image)
	if err != nil {
		zap.L().Warn("Failed to create product", zap.String("name", draft.Name), zap.Error(err))
		c.toaster.Error(apierrors.MessageOr(err, msgCreateFailed))
		return models.Product{}, err
	}

	c.toaster.Success(msgCreateSuccess)
	activity.Record(c.activity, activity.NewActivity(
		models.ActivityProductCreated, productActivityObj, product.ID,
		fmt.Sprintf("Product %s created", draft.Name), draft))

	return product, nil
}

func (c *Controller) Update(ctx context.Context, id string, patch models.ProductPatch) error {
	if err := c.checkDraft(patch.Price, patch.Category, patch); err != nil {
		c.toaster.Error(err.Message)
		return err
	}

	if err := c.backend.UpdateProduct(ctx, id, patch); err != nil {
		zap.L().Warn("Failed to update product", zap.String("product_id", id), zap.Error(err))
		c.toaster.Error(apierrors.MessageOr(err, msgUpdateFailed))
		return err
	}

	c.toaster.Success(msgUpdateSuccess)
	activity.Record(c.activity, activity.NewActivity(
		models.ActivityProductUpdated, productActivityObj, id,
		fmt.Sprintf("Product %s updated", patch.Name), patch))

	c.refresh(ctx)
	return nil
}

func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteProduct(ctx, id); err != nil {
		zap.L().Warn("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		c.toaster.Error(apierrors.MessageOr(err, msgDeleteFailed))
		return err
	}

	c.toaster.Success(msgDeleteSuccess)
	activity.Record(c.activity, activity.NewActivity(
		models.ActivityProductDeleted, productActivityObj, id,
		fmt.Sprintf("Product %s deleted", id), nil))

	c.refresh(ctx)
	return nil
}

func (c *Controller) refresh(ctx context.Context) {
	if _, err := c.List(ctx); err != nil {
		zap.L().Debug("Product list refresh after mutation failed", zap.Error(err))
	}
}

func (c *Controller) checkImage(image models.ImageUpload) *apierrors.APIError {
	if image.Reader == nil || image.Size <= 0 {
		return apierrors.NewAPIError(http.StatusBadRequest, msgImageInvalid)
	}
	if image.Size > c.maxImageSize {
		return apierrors.NewAPIError(http.StatusRequestEntityTooLarge, msgImageTooLarge)
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return apierrors.NewAPIError(http.StatusUnsupportedMediaType, msgImageInvalid)
	}
	return nil
}

func (c *Controller) checkDraft(price decimal.Decimal, category models.Category, form any) *apierrors.APIError {
	if err := c.validate.Struct(form); err != nil {
		return apierrors.NewAPIError(http.StatusBadRequest, "Invalid product: "+err.Error())
	}
	if !price.IsPositive() {
		return apierrors.NewAPIError(http.StatusBadRequest, "Price must be greater than zero")
	}
	if !category.Valid() {
		return apierrors.NewAPIError(http.StatusBadRequest, "Unknown category "+string(category))
	}
	return nil
}
