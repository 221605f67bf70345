package products

import (
	"net/http"
	"strings"

	apierrors "backoffice/internal/errors"
	"backoffice/internal/models"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	DefaultPerPage = 12
	lowStockLimit  = 10
)

// Search keeps products whose name or description contains term, ignoring
// case, within category. Category "All" or "" matches every product.
func Search(products []models.Product, term, category string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.CategoryAll && string(p.Category) != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Paginate returns the 1-based page of items and the page count.
func Paginate[T any](items []T, page, perPage int) ([]T, int) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (len(items) + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := min(start+perPage, len(items))
	return items[start:end], totalPages
}

func StockStatus(stock int) models.StockStatus {
	switch {
	case stock <= 0:
		return models.StockStatusOut
	case stock < lowStockLimit:
		return models.StockStatusLow
	default:
		return models.StockStatusIn
	}
}

func Inventory(products []models.Product) models.Inventory {
	inventory := models.Inventory{Total: len(products)}
	for _, p := range products {
		if p.Stock > 0 {
			inventory.InStock++
		} else {
			inventory.OutOfStock++
		}
	}
	return inventory
}

// productEnv is what a filter expression sees, e.g. `Stock < 10 && Category == "Rava & Sooji"`.
type productEnv struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Stock       int
	Active      bool
	Weight      string
	Features    []string
}

func envOf(p models.Product) productEnv {
	return productEnv{
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		Active:      p.Active(),
		Weight:      p.Weight,
		Features:    p.Features,
	}
}

// CompileQuery checks a boolean filter expression over product fields.
func CompileQuery(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(productEnv{}), expr.AsBool())
	if err != nil {
		return nil, apierrors.NewAPIError(http.StatusBadRequest, "Invalid filter: "+err.Error())
	}
	return program, nil
}

// Query keeps the products matching expression. An empty expression keeps all.
func Query(products []models.Product, expression string) ([]models.Product, error) {
	if strings.TrimSpace(expression) == "" {
		return products, nil
	}

	program, err := CompileQuery(expression)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		result, err := expr.Run(program, envOf(p))
		if err != nil {
			return nil, apierrors.NewAPIError(http.StatusBadRequest, "Invalid filter: "+err.Error())
		}
		if matched, _ := result.(bool); matched {
			out = append(out, p)
		}
	}
	return out, nil
}
