package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the flat persistence shape of an Order.
type Record struct {
	ID                 int64
	Status             Status
	Total              decimal.Decimal
	CreatedAt          time.Time
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	Version            int
	Items              []ItemRecord
}

type ItemRecord struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

func (o *Order) ToRecord() Record {
	items := make([]ItemRecord, 0, len(o.items))
	for _, it := range o.items {
		items = append(items, ItemRecord{
			ProductID:   it.productID,
			ProductName: it.productName,
			UnitPrice:   it.unitPrice,
			Quantity:    it.quantity,
		})
	}

	return Record{
		ID:                 o.id,
		Status:             o.status,
		Total:              o.total,
		CreatedAt:          o.createdAt,
		ConfirmedAt:        copyTime(o.confirmedAt),
		CancelledAt:        copyTime(o.cancelledAt),
		CancellationReason: o.cancellationReason,
		Version:            o.version,
		Items:              items,
	}
}

// FromRecord rehydrates an Order and rejects records that break an invariant.
func FromRecord(rec Record) (*Order, error) {
	o := &Order{
		id:                 rec.ID,
		status:             rec.Status,
		total:              rec.Total,
		createdAt:          rec.CreatedAt,
		confirmedAt:        copyTime(rec.ConfirmedAt),
		cancelledAt:        copyTime(rec.CancelledAt),
		cancellationReason: rec.CancellationReason,
		version:            rec.Version,
		items:              make([]*Item, 0, len(rec.Items)),
	}
	for _, it := range rec.Items {
		o.items = append(o.items, &Item{
			productID:   it.ProductID,
			productName: it.ProductName,
			unitPrice:   it.UnitPrice,
			quantity:    it.Quantity,
		})
	}

	if errs := o.ValidateInvariants(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: order %d: %w", ErrInvalidRecord, rec.ID, errors.Join(errs...))
	}
	return o, nil
}

// ValidateInvariants lists every rule the order currently breaks.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if !o.status.Valid() {
		errs = append(errs, fmt.Errorf("unknown status %q", o.status))
	}

	if len(o.items) > MaxDistinctItems {
		errs = append(errs, fmt.Errorf("%d distinct items exceeds %d", len(o.items), MaxDistinctItems))
	}

	seen := make(map[int64]struct{}, len(o.items))
	for _, it := range o.items {
		if _, dup := seen[it.productID]; dup {
			errs = append(errs, fmt.Errorf("product %d appears more than once", it.productID))
		}
		seen[it.productID] = struct{}{}

		if it.quantity < 1 || it.quantity > MaxItemQuantity {
			errs = append(errs, fmt.Errorf("product %d quantity %d out of range", it.productID, it.quantity))
		}
	}

	if sum := sumSubtotals(o.items); !sum.Equal(o.total) {
		errs = append(errs, fmt.Errorf("total %s does not match item sum %s", o.total, sum))
	}

	switch o.status {
	case StatusDraft:
		if o.confirmedAt != nil || o.cancelledAt != nil {
			errs = append(errs, errors.New("draft order carries transition timestamps"))
		}
	case StatusConfirmed:
		if o.confirmedAt == nil {
			errs = append(errs, errors.New("confirmed order without confirmation time"))
		}
		if o.cancelledAt != nil {
			errs = append(errs, errors.New("confirmed order carries cancellation time"))
		}
	case StatusCancelled:
		if o.cancelledAt == nil || o.cancellationReason == "" {
			errs = append(errs, errors.New("cancelled order without cancellation time or reason"))
		}
	}

	return errs
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
