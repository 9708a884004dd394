package transport

import (
	"context"
	"net/http"
	"time"

	"catalog-be/internal/auth"
	"catalog-be/internal/order"
	"catalog-be/internal/product"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, opts product.ListOptions) (*product.ListResult, error) {
	args := m.Called(ctx, opts)
	res, _ := args.Get(0).(*product.ListResult)
	return res, args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.CreateProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Replace(ctx context.Context, id int64, input product.CreateProductInput) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Restock(ctx context.Context, id int64, quantity int) (*product.Product, error) {
	args := m.Called(ctx, id, quantity)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, input order.CreateOrderInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, input order.ListOrdersInput) (*order.ListResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*order.ListResult)
	return res, args.Error(1)
}

func (m *MockOrderService) AddItem(ctx context.Context, orderID int64, input order.ItemInput) (*order.Order, error) {
	args := m.Called(ctx, orderID, input)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) Confirm(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID int64, reason string) (*order.Order, error) {
	args := m.Called(ctx, orderID, reason)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (auth.Token, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Token), args.Error(1)
}

// --- helpers ---

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleProduct(id int64) *product.Product {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &product.Product{
		ID:           id,
		Name:         "Mechanical Keyboard",
		Description:  "Compact RGB keyboard",
		Price:        decimal.RequireFromString("350.00"),
		Category:     "Electronics",
		Stock:        15,
		Active:       true,
		ContactEmail: "sales@keyboards.example",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func draftOrder(id int64) *order.Order {
	o, err := order.FromRecord(order.Record{
		ID:        id,
		Status:    order.StatusDraft,
		Total:     decimal.RequireFromString("700.00"),
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:   1,
		Items: []order.ItemRecord{
			{ProductID: 3, ProductName: "Mechanical Keyboard", UnitPrice: decimal.RequireFromString("350.00"), Quantity: 2},
		},
	})
	if err != nil {
		panic(err)
	}
	return o
}
