package product

import "time"

type Response struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Category     string    `json:"category"`
	Stock        int       `json:"stock"`
	Active       bool      `json:"active"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListResponse struct {
	Data       []Response `json:"data"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}

func ToResponse(p *Product) Response {
	return Response{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		Category:     p.Category,
		Stock:        p.Stock,
		Active:       p.Active,
		ContactEmail: p.ContactEmail,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToListResponse(res *ListResult) ListResponse {
	data := make([]Response, 0, len(res.Items))
	for _, p := range res.Items {
		data = append(data, ToResponse(p))
	}

	return ListResponse{
		Data:       data,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalItems: res.TotalItems,
		TotalPages: res.TotalPages,
	}
}
