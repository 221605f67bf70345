package models

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFlourProducts      Category = "Flour Products"
	CategoryRavaSooji          Category = "Rava & Sooji"
	CategoryNoodlesVermicelli  Category = "Noodles & Vermicelli"
	CategoryGramFlourVarieties Category = "Gram Flour Varieties"
	CategorySpecialtyProducts  Category = "Specialty Products"
)

// CategoryAll disables category filtering.
const CategoryAll = "All"

var Categories = []Category{
	CategoryFlourProducts,
	CategoryRavaSooji,
	CategoryNoodlesVermicelli,
	CategoryGramFlourVarieties,
	CategorySpecialtyProducts,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	FullName    string          `json:"fullName,omitempty"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	Weight      string          `json:"weight,omitempty"`
	Features    []string        `json:"features,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Active treats a missing flag as active.
func (p Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

type StockStatus string

const (
	StockStatusOut StockStatus = "Out of Stock"
	StockStatusLow StockStatus = "Low Stock"
	StockStatusIn  StockStatus = "In Stock"
)

// ProductDraft is the create form. Features is the comma separated input.
type ProductDraft struct {
	Name        string          `json:"name"        validate:"required,max=200"`
	FullName    string          `json:"fullName"    validate:"max=400"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"    validate:"required"`
	Stock       int             `json:"stock"       validate:"gte=0"`
	Weight      string          `json:"weight"`
	Features    string          `json:"features"`
}

type ProductPatch struct {
	Name        string          `json:"name"        validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"    validate:"required"`
	Stock       int             `json:"stock"       validate:"gte=0"`
	Image       string          `json:"image"`
}

// ImageUpload is an image attachment awaiting upload.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Inventory struct {
	Total      int `json:"total"`
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

type ProductListQueryParams struct {
	Q        string `json:"q"        validate:"max=200"`
	Category string `json:"category" validate:"max=100"`
	Filter   string `json:"filter"   validate:"max=500"`
	Page     int    `json:"page"     validate:"omitempty,gte=1"`
}

type ProductListResponse struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Matched    int       `json:"matched"`
	Inventory  Inventory `json:"inventory"`
}
