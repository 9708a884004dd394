package transport

import (
	"fmt"
	"net/http"

	"catalog-be/internal/product"
	"catalog-be/internal/utils"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.List(r.Context(), product.ListOptions{
		Page:     utils.QueryInt(r, "page", 1),
		PageSize: utils.QueryInt(r, "page_size", utils.DefaultPageSize),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product.ToListResponse(res))
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product.ToResponse(p))
}

// POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req product.CreateProductInput
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/products/%d", p.ID))
	respondJSON(w, http.StatusCreated, product.ToResponse(p))
}

// PUT /api/v1/products/{id}
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req product.CreateProductInput
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Replace(r.Context(), id, req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product.ToResponse(p))
}

// PATCH /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req product.UpdateProductInput
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product.ToResponse(p))
}

// POST /api/v1/products/{id}/restock
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req RestockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product.ToResponse(p))
}

// DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondFailure(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
