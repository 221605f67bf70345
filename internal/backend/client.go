package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/helpers"
	"backoffice/internal/models"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	pathLogin         = "/sithee/login"
	pathStats         = "/sithee/dashboard/stats"
	pathProducts      = "/api/products"
	pathProductStats  = "/api/products/stats"
	pathProductCreate = "/api/products/add"
	pathProduct       = "/api/products/{id}"
	pathOrders        = "/api/orders"
	pathOrderStatus   = "/api/orders/{id}/status"
)

// TokenSource returns the current bearer token, or "" when logged out.
type TokenSource func() string

// IClient is the shop REST backend as seen by the console.
type IClient interface {
	Login(ctx context.Context, email, password string) (models.AuthLoginResponse, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	ListOrders(ctx context.Context, page, limit int) (models.OrderPage, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) error
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	ProductStats(ctx context.Context) ([]models.CategoryCount, error)
	CreateProduct(ctx context.Context, draft models.ProductDraft, image models.ImageUpload) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
}

type Client struct {
	http  *resty.Client
	token TokenSource
}

func NewClient(config models.BackendConfiguration, token TokenSource) *Client {
	httpClient := resty.New().
		SetBaseURL(config.URL).
		SetHeader("Accept", "application/json").
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	if config.TimeoutSeconds > 0 {
		httpClient.SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second)
	}

	if token == nil {
		token = func() string { return "" }
	}

	return &Client{http: httpClient, token: token}
}

func (c *Client) request(ctx context.Context, result any) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token()).
		ForceContentType("application/json").
		SetResult(result).
		SetError(&envelope{})
}

// check turns transport failures, HTTP errors and {success:false} bodies into errors.
func check(resp *resty.Response, err error, body *envelope, operation string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	if resp.IsError() {
		message := ""
		if e, ok := resp.Error().(*envelope); ok && e != nil {
			message = e.Message
		}
		zap.L().Debug("Backend returned an error",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode()),
			zap.String("message", message))
		return fmt.Errorf("%s: %w", operation, apierrors.NewAPIError(resp.StatusCode(), message))
	}

	if body != nil && body.failed() {
		return fmt.Errorf("%s: %w", operation, apierrors.NewAPIError(http.StatusBadGateway, body.Message))
	}

	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (models.AuthLoginResponse, error) {
	var payload loginPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.AuthLoginBody{Email: email, Password: password}).
		ForceContentType("application/json").
		SetResult(&payload).
		SetError(&envelope{}).
		Post(pathLogin)

	// A {success:false} login body is an answer, not a transport failure.
	if err = check(resp, err, nil, "login"); err != nil {
		return models.AuthLoginResponse{}, err
	}
	return payload.normalize(), nil
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var payload statsPayload
	resp, err := c.request(ctx, &payload).Get(pathStats)
	if err = check(resp, err, &payload.envelope, "dashboard stats"); err != nil {
		return models.DashboardStats{}, err
	}
	return payload.normalize(), nil
}

func (c *Client) ListOrders(ctx context.Context, page, limit int) (models.OrderPage, error) {
	var payload orderListPayload
	resp, err := c.request(ctx, &payload).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(pathOrders)
	if err = check(resp, err, &payload.envelope, "list orders"); err != nil {
		return models.OrderPage{}, err
	}
	return payload.normalize(page), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	var payload envelope
	resp, err := c.request(ctx, &payload).
		SetPathParam("id", id).
		SetBody(map[string]string{"status": status}).
		Put(pathOrderStatus)
	return check(resp, err, &payload, "update order status")
}

func (c *Client) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var payload productListPayload
	resp, err := c.request(ctx, &payload).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(pathProducts)
	if err = check(resp, err, &payload.envelope, "list products"); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

func (c *Client) ProductStats(ctx context.Context) ([]models.CategoryCount, error) {
	var payload productStatsPayload
	resp, err := c.request(ctx, &payload).Get(pathProductStats)
	if err = check(resp, err, &payload.envelope, "product stats"); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

func (c *Client) CreateProduct(
	ctx context.Context,
	draft models.ProductDraft,
	image models.ImageUpload,
) (models.Product, error) {
	form := url.Values{}
	form.Set("name", draft.Name)
	form.Set("fullName", draft.FullName)
	form.Set("description", draft.Description)
	form.Set("price", draft.Price.String())
	form.Set("category", string(draft.Category))
	form.Set("stock", strconv.Itoa(draft.Stock))
	form.Set("weight", draft.Weight)
	for _, feature := range helpers.SplitFeatures(draft.Features) {
		form.Add("features[]", feature)
	}

	var payload productPayloadEnvelope
	resp, err := c.request(ctx, &payload).
		SetFormDataFromValues(form).
		SetMultipartField("image", image.Filename, image.ContentType, image.Reader).
		Post(pathProductCreate)
	if err = check(resp, err, &payload.envelope, "create product"); err != nil {
		return models.Product{}, err
	}
	return payload.normalize(), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	var payload envelope
	resp, err := c.request(ctx, &payload).
		SetPathParam("id", id).
		SetBody(patch).
		Put(pathProduct)
	return check(resp, err, &payload, "update product")
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	var payload envelope
	resp, err := c.request(ctx, &payload).
		SetPathParam("id", id).
		Delete(pathProduct)
	return check(resp, err, &payload, "delete product")
}
