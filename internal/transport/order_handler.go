package transport

import (
	"fmt"
	"net/http"
	"strings"

	"catalog-be/internal/order"
	"catalog-be/internal/utils"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	input := order.ListOrdersInput{
		Page:     utils.QueryInt(r, "page", 1),
		PageSize: utils.QueryInt(r, "page_size", utils.DefaultPageSize),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := parseStatus(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_status",
				fmt.Sprintf("status must be one of %s, %s, %s", order.StatusDraft, order.StatusConfirmed, order.StatusCancelled))
			return
		}
		input.Status = &status
	}

	res, err := h.svc.List(r.Context(), input)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order.ToListResponse(res))
}

// GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order.ToResponse(o))
}

// POST /api/v1/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req order.CreateOrderInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if fields := validateCreateOrder(req); len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	o, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/orders/%d", o.ID()))
	respondJSON(w, http.StatusCreated, order.ToResponse(o))
}

// POST /api/v1/orders/{id}/items
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req order.ItemInput
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := map[string][]string{}
	validateItem(fields, "", req)
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	o, err := h.svc.AddItem(r.Context(), id, req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order.ToResponse(o))
}

// POST /api/v1/orders/{id}/confirm
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	o, err := h.svc.Confirm(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order.ToResponse(o))
}

// POST /api/v1/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.svc.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, order.ToResponse(o))
}

/* ---------- VALIDATION ---------- */

func validateCreateOrder(req order.CreateOrderInput) map[string][]string {
	fields := map[string][]string{}
	if len(req.Items) == 0 {
		fields["items"] = append(fields["items"], "order must contain at least one item")
	}
	for i, it := range req.Items {
		validateItem(fields, fmt.Sprintf("items[%d].", i), it)
	}
	return fields
}

func validateItem(fields map[string][]string, prefix string, it order.ItemInput) {
	if it.ProductID <= 0 {
		fields[prefix+"product_id"] = append(fields[prefix+"product_id"], "product_id must be positive")
	}
	if it.Quantity < 1 || it.Quantity > order.MaxItemQuantity {
		fields[prefix+"quantity"] = append(fields[prefix+"quantity"],
			fmt.Sprintf("quantity must be between 1 and %d", order.MaxItemQuantity))
	}
}

func parseStatus(raw string) (order.Status, bool) {
	for _, s := range []order.Status{order.StatusDraft, order.StatusConfirmed, order.StatusCancelled} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}
