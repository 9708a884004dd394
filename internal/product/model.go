package product

import (
	"strings"
	"time"

	"catalog-be/internal/result"

	"github.com/shopspring/decimal"
)

const (
	MaxStock      = 99_999
	MinNameLength = 3
	MaxNameLength = 100
	MaxDescLength = 500
)

var (
	MinPrice = decimal.RequireFromString("0.01")
	MaxPrice = decimal.RequireFromString("999999.99")
)

// Categories accepted by the catalog.
var Categories = []string{"Electronics", "Books", "Clothing", "Food", "Other"}

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Stock        int             `json:"stock"`
	Active       bool            `json:"active"`
	ContactEmail string          `json:"contact_email"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type NewProductParams struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	Stock        int
	ContactEmail string
}

type UpdateDetailsParams struct {
	Name         *string
	Description  *string
	Category     *string
	ContactEmail *string
}

// New builds an active product. Request-level validation happens before this;
// New only guards the rules the entity itself depends on.
func New(p NewProductParams) result.Value[*Product] {
	name := strings.TrimSpace(p.Name)
	switch {
	case len(name) < MinNameLength:
		return result.FailValue[*Product](result.InvalidArgument, "product name must be at least 3 characters")
	case p.Price.LessThan(MinPrice):
		return result.FailValue[*Product](result.InvalidArgument, "price must be at least 0.01")
	case p.Stock < 0:
		return result.FailValue[*Product](result.InvalidArgument, "stock cannot be negative")
	case p.Stock > MaxStock:
		return result.FailValue[*Product](result.InvalidArgument, "stock cannot exceed 99999")
	case strings.TrimSpace(p.ContactEmail) == "":
		return result.FailValue[*Product](result.InvalidArgument, "contact email is required")
	}

	now := time.Now().UTC()
	return result.OkValue(&Product{
		Name:         name,
		Description:  strings.TrimSpace(p.Description),
		Price:        p.Price,
		Category:     p.Category,
		Stock:        p.Stock,
		Active:       true,
		ContactEmail: strings.TrimSpace(p.ContactEmail),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (p *Product) UpdatePrice(price decimal.Decimal) result.Result {
	if price.LessThan(MinPrice) {
		return result.Fail(result.InvalidArgument, "price must be at least 0.01")
	}
	if price.Equal(p.Price) {
		return result.Fail(result.InvalidArgument, "new price must differ from the current price")
	}

	p.Price = price
	p.touch()
	return result.Ok()
}

func (p *Product) UpdateDetails(d UpdateDetailsParams) result.Result {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		if len(name) < MinNameLength {
			return result.Fail(result.InvalidArgument, "product name must be at least 3 characters")
		}
		p.Name = name
	}
	if d.Description != nil {
		p.Description = strings.TrimSpace(*d.Description)
	}
	if d.Category != nil {
		p.Category = *d.Category
	}
	if d.ContactEmail != nil {
		p.ContactEmail = strings.TrimSpace(*d.ContactEmail)
	}

	p.touch()
	return result.Ok()
}

func (p *Product) Restock(quantity int) result.Result {
	if quantity <= 0 {
		return result.Fail(result.InvalidArgument, "restock quantity must be positive")
	}
	if p.Stock+quantity > MaxStock {
		return result.Failf(result.InvalidArgument, "stock cannot exceed %d", MaxStock)
	}

	p.Stock += quantity
	p.touch()
	return result.Ok()
}

// AdjustStock overwrites the stock level. Callers validate the range first.
func (p *Product) AdjustStock(stock int) {
	if stock < 0 || stock > MaxStock {
		panic("product: stock out of range")
	}
	p.Stock = stock
	p.touch()
}

// Deactivate is the soft delete.
func (p *Product) Deactivate() result.Result {
	if !p.Active {
		return result.Fail(result.InvalidState, "product is already inactive")
	}

	p.Active = false
	p.touch()
	return result.Ok()
}

func (p *Product) HasAvailableStock(quantity int) bool {
	return p.Active && p.Stock >= quantity
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

/* ---------- INPUTS ---------- */

type CreateProductInput struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Stock        int             `json:"stock"`
	ContactEmail string          `json:"contact_email"`
}

type UpdateProductInput struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Stock        *int             `json:"stock,omitempty"`
	ContactEmail *string          `json:"contact_email,omitempty"`
}

type GetOptions struct {
	ID         int64
	OnlyActive bool
}

type ListOptions struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

type ListResult struct {
	Items      []*Product
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}
