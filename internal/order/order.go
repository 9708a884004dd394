package order

import (
	"strings"
	"time"

	"catalog-be/internal/product"
	"catalog-be/internal/result"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

const (
	MaxDistinctItems = 20
	MaxItemQuantity  = 999
)

var MinConfirmationTotal = decimal.RequireFromString("10.00")

var now = func() time.Time { return time.Now().UTC() }

// Order is the aggregate root. State only changes through AddItem, Confirm
// and Cancel, each of which either succeeds fully or leaves the order as it was.
type Order struct {
	id                 int64
	status             Status
	total              decimal.Decimal
	createdAt          time.Time
	confirmedAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string
	items              []*Item
	version            int
}

func New() *Order {
	return &Order{
		status:    StatusDraft,
		total:     decimal.Zero,
		createdAt: now(),
	}
}

/* ---------- ACCESSORS ---------- */

func (o *Order) ID() int64                  { return o.id }
func (o *Order) Status() Status             { return o.status }
func (o *Order) Total() decimal.Decimal     { return o.total }
func (o *Order) CreatedAt() time.Time       { return o.createdAt }
func (o *Order) ConfirmedAt() *time.Time    { return copyTime(o.confirmedAt) }
func (o *Order) CancelledAt() *time.Time    { return copyTime(o.cancelledAt) }
func (o *Order) CancellationReason() string { return o.cancellationReason }
func (o *Order) Version() int               { return o.version }

// Items returns a copy of the line list in insertion order.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

/* ---------- COMMANDS ---------- */

func (o *Order) AddItem(p *product.Product, quantity int) result.Result {
	if o.status != StatusDraft {
		return result.Fail(result.InvalidState, "items can only be added to draft orders")
	}

	if quantity < 1 || quantity > MaxItemQuantity {
		return result.Failf(result.InvalidArgument, "quantity must be between 1 and %d", MaxItemQuantity)
	}

	if !p.HasAvailableStock(quantity) {
		return result.Failf(result.InsufficientStock, "product '%s' does not have enough stock", p.Name)
	}

	if existing := o.findItem(p.ID); existing != nil {
		if existing.quantity+quantity > MaxItemQuantity {
			return result.Failf(result.InvalidArgument, "quantity per item cannot exceed %d", MaxItemQuantity)
		}
		existing.incrementQuantity(quantity)
	} else {
		if len(o.items) >= MaxDistinctItems {
			return result.Failf(result.InvalidState, "order cannot have more than %d distinct items", MaxDistinctItems)
		}
		o.items = append(o.items, newItem(p, quantity))
	}

	o.recalculateTotal()
	return result.Ok()
}

func (o *Order) Confirm() result.Result {
	if o.status != StatusDraft {
		return result.Fail(result.InvalidState, "only draft orders can be confirmed")
	}

	if len(o.items) == 0 {
		return result.Fail(result.InvalidState, "order must have at least one item")
	}

	if o.total.LessThan(MinConfirmationTotal) {
		return result.Failf(result.InvalidState, "minimum total for confirmation is %s", MinConfirmationTotal.StringFixed(2))
	}

	at := now()
	o.status = StatusConfirmed
	o.confirmedAt = &at
	return result.Ok()
}

// Cancel is allowed from Draft and from Confirmed.
func (o *Order) Cancel(reason string) result.Result {
	if o.status == StatusCancelled {
		return result.Fail(result.InvalidState, "order already cancelled")
	}

	if strings.TrimSpace(reason) == "" {
		return result.Fail(result.InvalidArgument, "cancellation reason is required")
	}

	at := now()
	o.status = StatusCancelled
	o.cancelledAt = &at
	o.cancellationReason = reason
	return result.Ok()
}

/* ---------- INTERNALS ---------- */

func (o *Order) findItem(productID int64) *Item {
	for _, it := range o.items {
		if it.productID == productID {
			return it
		}
	}
	return nil
}

func (o *Order) recalculateTotal() {
	o.total = sumSubtotals(o.items)
}

func sumSubtotals(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// markPersisted records the identity and version assigned by a save.
func (o *Order) markPersisted(id int64, version int) {
	o.id = id
	o.version = version
}
