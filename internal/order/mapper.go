package order

import "time"

type ItemResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type Response struct {
	ID                 int64          `json:"id"`
	Status             string         `json:"status"`
	Total              string         `json:"total"`
	CreatedAt          time.Time      `json:"created_at"`
	ConfirmedAt        *time.Time     `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	Version            int            `json:"version"`
	Items              []ItemResponse `json:"items"`
}

type ListResponse struct {
	Data     []Response `json:"data"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ToResponse is the read-only projection of an order.
func ToResponse(o *Order) Response {
	items := make([]ItemResponse, 0, len(o.items))
	for _, it := range o.items {
		items = append(items, ItemResponse{
			ProductID:   it.ProductID(),
			ProductName: it.ProductName(),
			UnitPrice:   it.UnitPrice().StringFixed(2),
			Quantity:    it.Quantity(),
			Subtotal:    it.Subtotal().StringFixed(2),
		})
	}

	resp := Response{
		ID:          o.ID(),
		Status:      string(o.Status()),
		Total:       o.Total().StringFixed(2),
		CreatedAt:   o.CreatedAt(),
		ConfirmedAt: o.ConfirmedAt(),
		CancelledAt: o.CancelledAt(),
		Version:     o.Version(),
		Items:       items,
	}
	if reason := o.CancellationReason(); reason != "" {
		resp.CancellationReason = &reason
	}
	return resp
}

func ToListResponse(res *ListResult) ListResponse {
	data := make([]Response, 0, len(res.Items))
	for _, o := range res.Items {
		data = append(data, ToResponse(o))
	}

	return ListResponse{
		Data:     data,
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
	}
}
