package order

import (
	"fmt"
	"testing"
	"time"

	"catalog-be/internal/product"
	"catalog-be/internal/result"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id int64, name, price string, stock int) *product.Product {
	return &product.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Active: true,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNew(t *testing.T) {
	o := New()

	assert.Equal(t, StatusDraft, o.Status())
	assert.True(t, o.Total().IsZero())
	assert.Empty(t, o.Items())
	assert.Zero(t, o.ID())
	assert.False(t, o.CreatedAt().IsZero())
	assert.Nil(t, o.ConfirmedAt())
	assert.Nil(t, o.CancelledAt())
	assert.Empty(t, o.ValidateInvariants())
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("TotalIsSumOfSubtotals", func(t *testing.T) {
		o := New()
		require.True(t, o.AddItem(testProduct(1, "Mouse", "19.90", 10), 3).IsSuccess())
		require.True(t, o.AddItem(testProduct(2, "Cable", "5.05", 10), 2).IsSuccess())

		assert.True(t, o.Total().Equal(dec("69.80")), o.Total().String())
		assert.Empty(t, o.ValidateInvariants())
	})

	t.Run("MergesSameProduct", func(t *testing.T) {
		o := New()
		p := testProduct(1, "Mouse", "10.00", 10)

		require.True(t, o.AddItem(p, 2).IsSuccess())
		require.True(t, o.AddItem(p, 3).IsSuccess())

		items := o.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity())
		assert.True(t, o.Total().Equal(dec("50.00")))
	})

	t.Run("SnapshotsPrice", func(t *testing.T) {
		o := New()
		p := testProduct(1, "Mouse", "10.00", 10)
		require.True(t, o.AddItem(p, 1).IsSuccess())

		p.Price = dec("99.00")
		p.Name = "Renamed"

		items := o.Items()
		assert.True(t, items[0].UnitPrice().Equal(dec("10.00")))
		assert.Equal(t, "Mouse", items[0].ProductName())
		assert.True(t, o.Total().Equal(dec("10.00")))
	})

	t.Run("TwentyDistinctItemsAllowed", func(t *testing.T) {
		o := New()
		for i := 1; i <= MaxDistinctItems; i++ {
			res := o.AddItem(testProduct(int64(i), fmt.Sprintf("P%d", i), "1.00", 10), 1)
			require.True(t, res.IsSuccess(), res.Message())
		}

		res := o.AddItem(testProduct(21, "P21", "1.00", 10), 1)
		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Contains(t, res.Message(), "20")
		assert.Len(t, o.Items(), 20)
		assert.True(t, o.Total().Equal(dec("20.00")))
	})

	t.Run("MergingIntoFullOrderStillWorks", func(t *testing.T) {
		o := New()
		for i := 1; i <= MaxDistinctItems; i++ {
			require.True(t, o.AddItem(testProduct(int64(i), "P", "1.00", 10), 1).IsSuccess())
		}
		assert.True(t, o.AddItem(testProduct(1, "P", "1.00", 10), 2).IsSuccess())
		assert.Equal(t, 3, o.Items()[0].Quantity())
	})

	t.Run("QuantityBounds", func(t *testing.T) {
		p := testProduct(1, "Bulk", "1.00", 5000)

		o := New()
		res := o.AddItem(p, 1000)
		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InvalidArgument, res.Kind())
		assert.Contains(t, res.Message(), "999")

		res = o.AddItem(p, 0)
		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InvalidArgument, res.Kind())

		assert.True(t, o.AddItem(p, 999).IsSuccess())
	})

	t.Run("MergedQuantityCap", func(t *testing.T) {
		p := testProduct(1, "Bulk", "1.00", 5000)

		o := New()
		require.True(t, o.AddItem(p, 500).IsSuccess())

		res := o.AddItem(p, 500)
		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InvalidArgument, res.Kind())
		assert.Contains(t, res.Message(), "999")
		assert.Equal(t, 500, o.Items()[0].Quantity())
		assert.True(t, o.Total().Equal(dec("500.00")))

		assert.True(t, o.AddItem(p, 499).IsSuccess())
		assert.Equal(t, 999, o.Items()[0].Quantity())
	})

	t.Run("InsufficientStockLeavesOrderUntouched", func(t *testing.T) {
		o := New()
		res := o.AddItem(testProduct(1, "Scarce", "10.00", 1), 5)

		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InsufficientStock, res.Kind())
		assert.Contains(t, res.Message(), "Scarce")
		assert.Contains(t, res.Message(), "stock")
		assert.Empty(t, o.Items())
		assert.True(t, o.Total().IsZero())
	})

	t.Run("InactiveProductRejected", func(t *testing.T) {
		p := testProduct(1, "Gone", "10.00", 100)
		p.Active = false

		res := New().AddItem(p, 1)
		assert.Equal(t, result.InsufficientStock, res.Kind())
	})

	t.Run("StatusCheckedFirst", func(t *testing.T) {
		o := New()
		require.True(t, o.Cancel("changed my mind").IsSuccess())

		res := o.AddItem(testProduct(1, "Scarce", "10.00", 0), 5000)
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Equal(t, "items can only be added to draft orders", res.Message())
	})
}

func TestOrder_Confirm(t *testing.T) {
	t.Run("NoItems", func(t *testing.T) {
		o := New()
		res := o.Confirm()

		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Contains(t, res.Message(), "item")
		assert.Equal(t, StatusDraft, o.Status())
	})

	t.Run("BelowMinimumTotal", func(t *testing.T) {
		o := New()
		require.True(t, o.AddItem(testProduct(1, "Pen", "9.99", 10), 1).IsSuccess())

		res := o.Confirm()
		assert.True(t, res.IsFailure())
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Contains(t, res.Message(), "10.00")
		assert.Nil(t, o.ConfirmedAt())
	})

	t.Run("ExactlyMinimumTotal", func(t *testing.T) {
		o := New()
		require.True(t, o.AddItem(testProduct(1, "Pen", "10.00", 10), 1).IsSuccess())

		res := o.Confirm()
		assert.True(t, res.IsSuccess())
		assert.Equal(t, StatusConfirmed, o.Status())
		assert.NotNil(t, o.ConfirmedAt())
	})

	t.Run("OnlyFromDraft", func(t *testing.T) {
		o := New()
		require.True(t, o.AddItem(testProduct(1, "Pen", "10.00", 10), 1).IsSuccess())
		require.True(t, o.Confirm().IsSuccess())
		first := *o.ConfirmedAt()

		res := o.Confirm()
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Equal(t, "only draft orders can be confirmed", res.Message())
		assert.Equal(t, first, *o.ConfirmedAt())
	})

	t.Run("LocksItems", func(t *testing.T) {
		o := New()
		require.True(t, o.AddItem(testProduct(1, "Pen", "10.00", 10), 1).IsSuccess())
		require.True(t, o.Confirm().IsSuccess())

		res := o.AddItem(testProduct(2, "Ink", "3.00", 10), 1)
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Len(t, o.Items(), 1)
		assert.True(t, o.Total().Equal(dec("10.00")))
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("RequiresReason", func(t *testing.T) {
		o := New()
		res := o.Cancel("   ")

		assert.Equal(t, result.InvalidArgument, res.Kind())
		assert.Equal(t, "cancellation reason is required", res.Message())
		assert.Equal(t, StatusDraft, o.Status())
	})

	t.Run("FromDraft", func(t *testing.T) {
		o := New()
		assert.True(t, o.Cancel("duplicate").IsSuccess())
		assert.Equal(t, StatusCancelled, o.Status())
		assert.Equal(t, "duplicate", o.CancellationReason())
		assert.NotNil(t, o.CancelledAt())
		assert.Empty(t, o.ValidateInvariants())
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		o := New()
		require.True(t, o.Cancel("duplicate").IsSuccess())

		res := o.Cancel("again")
		assert.Equal(t, result.InvalidState, res.Kind())
		assert.Equal(t, "order already cancelled", res.Message())
		assert.Equal(t, "duplicate", o.CancellationReason())
	})

	t.Run("AlreadyCancelledWinsOverBlankReason", func(t *testing.T) {
		o := New()
		require.True(t, o.Cancel("duplicate").IsSuccess())

		res := o.Cancel("")
		assert.Equal(t, "order already cancelled", res.Message())
	})
}

func TestOrder_FullLifecycle(t *testing.T) {
	o := New()
	a := testProduct(1, "Product A", "50", 5)

	require.True(t, o.AddItem(a, 2).IsSuccess())
	assert.True(t, o.Total().Equal(dec("100")))

	require.True(t, o.Confirm().IsSuccess())
	assert.Equal(t, StatusConfirmed, o.Status())

	require.True(t, o.Cancel("customer request").IsSuccess())
	assert.Equal(t, StatusCancelled, o.Status())
	assert.Equal(t, "customer request", o.CancellationReason())
	assert.NotNil(t, o.ConfirmedAt())
	assert.NotNil(t, o.CancelledAt())
	assert.Empty(t, o.ValidateInvariants())
}

func TestOrder_ItemsIsACopy(t *testing.T) {
	o := New()
	require.True(t, o.AddItem(testProduct(1, "Pen", "10.00", 10), 1).IsSuccess())

	items := o.Items()
	items[0] = nil

	assert.NotNil(t, o.Items()[0])
}

func TestOrder_TimestampsUseClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	defer func() { now = orig }()

	o := New()
	require.True(t, o.AddItem(testProduct(1, "Pen", "10.00", 10), 1).IsSuccess())
	require.True(t, o.Confirm().IsSuccess())

	assert.Equal(t, fixed, o.CreatedAt())
	assert.Equal(t, fixed, *o.ConfirmedAt())
}

func TestItem_IncrementQuantityPanics(t *testing.T) {
	it := newItem(testProduct(1, "Pen", "1.00", 10), 998)

	assert.Panics(t, func() { it.incrementQuantity(0) })
	assert.Panics(t, func() { it.incrementQuantity(-1) })
	assert.Panics(t, func() { it.incrementQuantity(2) })

	it.incrementQuantity(1)
	assert.Equal(t, 999, it.Quantity())
	assert.True(t, it.Subtotal().Equal(dec("999.00")))
}
