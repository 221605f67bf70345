package backend

import (
	"encoding/json"
	"strings"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// The shop backend is inconsistent about field names. Every known variant is
// decoded here once and folded into the typed models.

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (e envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

type statsPayload struct {
	envelope
	Stats struct {
		TotalRevenue *decimal.Decimal `json:"totalRevenue"`
		TotalOrders  int              `json:"totalOrders"`
		TotalUsers   int              `json:"totalUsers"`
	} `json:"stats"`
}

func (p statsPayload) normalize() models.DashboardStats {
	return models.DashboardStats{
		TotalRevenue: firstAmount(p.Stats.TotalRevenue),
		TotalOrders:  p.Stats.TotalOrders,
		TotalUsers:   p.Stats.TotalUsers,
	}
}

type userPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type addressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type itemPayload struct {
	Name        string           `json:"name"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
}

type orderPayload struct {
	ID              string           `json:"_id"`
	AltID           string           `json:"id"`
	UserID          json.RawMessage  `json:"userId"`
	UserDetails     *userPayload     `json:"userDetails"`
	Items           []itemPayload    `json:"items"`
	FinalAmount     *decimal.Decimal `json:"finalAmount"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	Total           *decimal.Decimal `json:"total"`
	Status          string           `json:"status"`
	PaymentMethod   string           `json:"paymentMethod"`
	DeliveryAddress json.RawMessage  `json:"deliveryAddress"`
	ShippingAddress *addressPayload  `json:"shippingAddress"`
	CreatedAt       *time.Time       `json:"createdAt"`
}

const (
	guestCustomer  = "Guest User"
	unknownPhone   = "N/A"
	defaultCountry = "India"
)

// userFromID decodes userId, which is either a populated user document or a bare id.
func (p orderPayload) userFromID() *userPayload {
	if len(p.UserID) == 0 || p.UserID[0] != '{' {
		return nil
	}
	var user userPayload
	if err := json.Unmarshal(p.UserID, &user); err != nil {
		return nil
	}
	return &user
}

func (p orderPayload) normalize() models.Order {
	user := p.userFromID()
	details := p.UserDetails

	customer := models.Customer{
		Name:  firstString(guestCustomer, nameOf(user), nameOf(details)),
		Email: firstString("", emailOf(user), emailOf(details)),
		Phone: firstString(unknownPhone, phoneOf(details), phoneOf(user)),
	}

	items := make([]models.OrderItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, models.OrderItem{
			Name:     firstString("", item.Name, item.ProductName),
			Quantity: item.Quantity,
			Price:    firstAmount(item.Price),
			Image:    item.Image,
		})
	}

	order := models.Order{
		ID:              firstString("", p.ID, p.AltID),
		Customer:        customer,
		Items:           items,
		Total:           firstAmount(p.FinalAmount, p.TotalAmount, p.Total),
		RawStatus:       p.Status,
		PaymentMethod:   p.PaymentMethod,
		DeliveryAddress: rawText(p.DeliveryAddress),
	}
	if p.ShippingAddress != nil {
		order.ShippingAddress = models.ShippingAddress{
			Street:  p.ShippingAddress.Street,
			City:    p.ShippingAddress.City,
			State:   p.ShippingAddress.State,
			ZipCode: p.ShippingAddress.ZipCode,
			Country: firstString(defaultCountry, p.ShippingAddress.Country),
		}
	}
	if p.CreatedAt != nil {
		order.CreatedAt = *p.CreatedAt
	}
	return order
}

type orderListPayload struct {
	envelope
	Orders     []orderPayload `json:"orders"`
	Data       []orderPayload `json:"data"`
	Pagination *struct {
		CurrentPage int  `json:"currentPage"`
		TotalPages  int  `json:"totalPages"`
		TotalOrders int  `json:"totalOrders"`
		HasNext     bool `json:"hasNext"`
		HasPrev     bool `json:"hasPrev"`
	} `json:"pagination"`
}

func (p orderListPayload) normalize(page int) models.OrderPage {
	raw := p.Data
	if raw == nil {
		raw = p.Orders
	}

	orders := make([]models.Order, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, o.normalize())
	}

	pagination := models.Pagination{CurrentPage: page, TotalPages: 1, TotalOrders: len(orders)}
	if p.Pagination != nil {
		pagination = models.Pagination{
			CurrentPage: p.Pagination.CurrentPage,
			TotalPages:  p.Pagination.TotalPages,
			TotalOrders: p.Pagination.TotalOrders,
			HasNext:     p.Pagination.HasNext,
			HasPrev:     p.Pagination.HasPrev,
		}
	}
	return models.OrderPage{Orders: orders, Pagination: pagination}
}

type productPayload struct {
	ID          string           `json:"_id"`
	AltID       string           `json:"id"`
	Name        string           `json:"name"`
	FullName    string           `json:"fullName"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Stock       int              `json:"stock"`
	Image       json.RawMessage  `json:"image"`
	Weight      string           `json:"weight"`
	Features    []string         `json:"features"`
	IsActive    *bool            `json:"isActive"`
	CreatedAt   *time.Time       `json:"createdAt"`
}

func (p productPayload) normalize() models.Product {
	product := models.Product{
		ID:          firstString("", p.ID, p.AltID),
		Name:        p.Name,
		FullName:    p.FullName,
		Description: p.Description,
		Price:       firstAmount(p.Price),
		Category:    models.Category(p.Category),
		Stock:       max(p.Stock, 0),
		Image:       imageURL(p.Image),
		Weight:      p.Weight,
		Features:    p.Features,
		IsActive:    p.IsActive,
	}
	if p.CreatedAt != nil {
		product.CreatedAt = *p.CreatedAt
	}
	return product
}

type productListPayload struct {
	envelope
	Data     []productPayload `json:"data"`
	Products []productPayload `json:"products"`
}

func (p productListPayload) normalize() []models.Product {
	raw := p.Data
	if raw == nil {
		raw = p.Products
	}
	products := make([]models.Product, 0, len(raw))
	for _, product := range raw {
		products = append(products, product.normalize())
	}
	return products
}

type productPayloadEnvelope struct {
	envelope
	Data    *productPayload `json:"data"`
	Product *productPayload `json:"product"`
}

func (p productPayloadEnvelope) normalize() models.Product {
	switch {
	case p.Data != nil:
		return p.Data.normalize()
	case p.Product != nil:
		return p.Product.normalize()
	default:
		return models.Product{}
	}
}

type productStatsPayload struct {
	envelope
	Data struct {
		CategoryCounts []struct {
			ID       string `json:"_id"`
			Category string `json:"category"`
			Count    int    `json:"count"`
		} `json:"categoryCounts"`
	} `json:"data"`
}

func (p productStatsPayload) normalize() []models.CategoryCount {
	counts := make([]models.CategoryCount, 0, len(p.Data.CategoryCounts))
	for _, c := range p.Data.CategoryCounts {
		counts = append(counts, models.CategoryCount{
			Category: firstString("", c.Category, c.ID),
			Count:    c.Count,
		})
	}
	return counts
}

type loginPayload struct {
	envelope
	Role  string `json:"role"`
	Token string `json:"token"`
	User  *struct {
		Role string `json:"role"`
	} `json:"user"`
}

func (p loginPayload) normalize() models.AuthLoginResponse {
	role := p.Role
	if role == "" && p.User != nil {
		role = p.User.Role
	}
	return models.AuthLoginResponse{
		Success: p.Success != nil && *p.Success,
		Role:    role,
		Token:   p.Token,
		Message: p.Message,
	}
}

func firstString(fallback string, values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return fallback
}

func firstAmount(values ...*decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return decimal.Zero
}

func nameOf(u *userPayload) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func emailOf(u *userPayload) string {
	if u == nil {
		return ""
	}
	return u.Email
}

func phoneOf(u *userPayload) string {
	if u == nil {
		return ""
	}
	return u.Phone
}

// imageURL accepts either a plain URL or an object carrying a url field.
func imageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var url string
	if err := json.Unmarshal(raw, &url); err == nil {
		return url
	}
	var object struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &object); err == nil {
		return object.URL
	}
	return ""
}

// rawText renders a free-form JSON value as text; strings are unquoted.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}
