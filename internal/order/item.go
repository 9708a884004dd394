package order

import (
	"catalog-be/internal/product"

	"github.com/shopspring/decimal"
)

// Item is one order line. Name and price are copied from the product when
// the line is created and never follow later catalog changes.
type Item struct {
	productID   int64
	productName string
	unitPrice   decimal.Decimal
	quantity    int
}

func newItem(p *product.Product, quantity int) *Item {
	return &Item{
		productID:   p.ID,
		productName: p.Name,
		unitPrice:   p.Price,
		quantity:    quantity,
	}
}

func (i *Item) ProductID() int64           { return i.productID }
func (i *Item) ProductName() string        { return i.productName }
func (i *Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *Item) Quantity() int              { return i.quantity }

func (i *Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// incrementQuantity panics on misuse; AddItem checks the ceiling first.
func (i *Item) incrementQuantity(additional int) {
	if additional <= 0 {
		panic("order: additional quantity must be positive")
	}
	if i.quantity+additional > MaxItemQuantity {
		panic("order: item quantity would exceed the per-item limit")
	}
	i.quantity += additional
}
