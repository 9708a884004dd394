package product

import (
	"testing"

	"catalog-be/internal/result"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	res := New(NewProductParams{
		Name:         "Mechanical Keyboard",
		Description:  "Hot-swappable switches",
		Price:        decimal.RequireFromString("49.90"),
		Category:     "Electronics",
		Stock:        10,
		ContactEmail: "sales@example.com",
	})
	require.True(t, res.IsSuccess(), res.Message())
	return res.Value()
}

func TestNew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		p := newTestProduct(t)
		assert.True(t, p.Active)
		assert.Equal(t, 10, p.Stock)
		assert.False(t, p.CreatedAt.IsZero())
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	})

	tests := []struct {
		name   string
		params NewProductParams
		msg    string
	}{
		{
			name:   "ShortName",
			params: NewProductParams{Name: "ab", Price: decimal.NewFromInt(1), ContactEmail: "a@b.com"},
			msg:    "product name must be at least 3 characters",
		},
		{
			name:   "PriceBelowMinimum",
			params: NewProductParams{Name: "Cable", Price: decimal.Zero, ContactEmail: "a@b.com"},
			msg:    "price must be at least 0.01",
		},
		{
			name:   "NegativeStock",
			params: NewProductParams{Name: "Cable", Price: decimal.NewFromInt(1), Stock: -1, ContactEmail: "a@b.com"},
			msg:    "stock cannot be negative",
		},
		{
			name:   "MissingEmail",
			params: NewProductParams{Name: "Cable", Price: decimal.NewFromInt(1)},
			msg:    "contact email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.params)
			assert.True(t, res.IsFailure())
			assert.Equal(t, result.InvalidArgument, res.Kind())
			assert.Equal(t, tt.msg, res.Message())
			assert.Nil(t, res.Value())
		})
	}
}

func TestProduct_UpdatePrice(t *testing.T) {
	p := newTestProduct(t)

	res := p.UpdatePrice(decimal.RequireFromString("49.90"))
	assert.True(t, res.IsFailure())

	res = p.UpdatePrice(decimal.Zero)
	assert.True(t, res.IsFailure())

	res = p.UpdatePrice(decimal.RequireFromString("59.90"))
	assert.True(t, res.IsSuccess())
	assert.True(t, p.Price.Equal(decimal.RequireFromString("59.90")))
}

func TestProduct_Restock(t *testing.T) {
	p := newTestProduct(t)

	assert.True(t, p.Restock(0).IsFailure())
	assert.True(t, p.Restock(MaxStock).IsFailure())
	assert.Equal(t, 10, p.Stock)

	assert.True(t, p.Restock(5).IsSuccess())
	assert.Equal(t, 15, p.Stock)
}

func TestProduct_AdjustStock(t *testing.T) {
	p := newTestProduct(t)

	p.AdjustStock(0)
	assert.Equal(t, 0, p.Stock)

	assert.Panics(t, func() { p.AdjustStock(-1) })
	assert.Panics(t, func() { p.AdjustStock(MaxStock + 1) })
}

func TestProduct_UpdateDetails(t *testing.T) {
	p := newTestProduct(t)

	short := "ab"
	res := p.UpdateDetails(UpdateDetailsParams{Name: &short})
	assert.True(t, res.IsFailure())
	assert.Equal(t, "Mechanical Keyboard", p.Name)

	name := "  Wireless Keyboard "
	category := "Other"
	res = p.UpdateDetails(UpdateDetailsParams{Name: &name, Category: &category})
	assert.True(t, res.IsSuccess())
	assert.Equal(t, "Wireless Keyboard", p.Name)
	assert.Equal(t, "Other", p.Category)
	assert.Equal(t, "Hot-swappable switches", p.Description)
}

func TestProduct_Deactivate(t *testing.T) {
	p := newTestProduct(t)

	assert.True(t, p.Deactivate().IsSuccess())
	assert.False(t, p.Active)

	res := p.Deactivate()
	assert.True(t, res.IsFailure())
	assert.Equal(t, result.InvalidState, res.Kind())
}

func TestProduct_HasAvailableStock(t *testing.T) {
	p := newTestProduct(t)

	assert.True(t, p.HasAvailableStock(10))
	assert.False(t, p.HasAvailableStock(11))

	p.Active = false
	assert.False(t, p.HasAvailableStock(1))
}
