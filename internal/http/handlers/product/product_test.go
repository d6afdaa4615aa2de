package product

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error) {
	args := m.Called(ctx, active, page)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Int(1), args.Error(2)
}

func (m *MockService) GetProductWithPlans(ctx context.Context, id int) (*models.ProductWithPlans, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.ProductWithPlans)
	return res, args.Error(1)
}

func (m *MockService) PlansByProduct(ctx context.Context, productID int) ([]models.SubscriptionPlan, error) {
	args := m.Called(ctx, productID)
	plans, _ := args.Get(0).([]models.SubscriptionPlan)
	return plans, args.Error(1)
}

func (m *MockService) CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *MockService) UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error) {
	args := m.Called(ctx, id, upd)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *MockService) DeleteProduct(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithIdentity(req.Context(),
		models.Identity{UserID: 1, Username: "admin", Role: models.RoleAdmin}))
}

func secretProduct() models.Product {
	link := "https://downloads.example.com/cdp.zip"
	pass := "zip-secret"
	return models.Product{ID: 1, Name: "Cloud Defender Pro", DownloadLink: &link, ZipPassword: &pass, IsActive: true}
}

func TestHandler_List(t *testing.T) {
	active := true

	tests := []struct {
		name           string
		url            string
		admin          bool
		setupMock      func(*MockService)
		expectedStatus int
		contains       []string
		notContains    []string
	}{
		{
			name: "public list hides download data",
			url:  "/api/products?page=1&pageSize=1&active=true",
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything, &active, models.Page{Page: 1, PageSize: 1}).
					Return([]models.Product{secretProduct()}, 3, nil).Once()
			},
			expectedStatus: http.StatusOK,
			contains:       []string{`"total":3`, `"page":1`, `"pageSize":1`, `"Cloud Defender Pro"`},
			notContains:    []string{"zip-secret", "downloadLink"},
		},
		{
			name:  "admin sees download data",
			url:   "/api/products",
			admin: true,
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything, (*bool)(nil), models.Page{Page: 1, PageSize: 10}).
					Return([]models.Product{secretProduct()}, 1, nil).Once()
			},
			expectedStatus: http.StatusOK,
			contains:       []string{"zip-secret", `"pageSize":10`},
		},
		{
			name:           "invalid active flag",
			url:            "/api/products?active=maybe",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			contains:       []string{"Invalid active parameter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.admin {
				req = asAdmin(req)
			}
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, w.Body.String(), s)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "product with plans",
			id:   "1",
			setupMock: func(m *MockService) {
				m.On("GetProductWithPlans", mock.Anything, 1).Return(&models.ProductWithPlans{
					Product: secretProduct(),
					Plans:   []models.SubscriptionPlan{{ID: 2, ProductID: 1, Name: "Annual", Interval: models.IntervalYear}},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Annual"`,
		},
		{
			name: "missing product",
			id:   "42",
			setupMock: func(m *MockService) {
				m.On("GetProductWithPlans", mock.Anything, 42).Return(nil, apperr.NotFound("Product not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"Product not found"}`,
		},
		{
			name:           "invalid id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"Invalid id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := withID(httptest.NewRequest(http.MethodGet, "/api/products/"+tt.id, nil), tt.id)
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).Get(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			assert.NotContains(t, w.Body.String(), "zip-secret")
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created",
			body: `{"name":"VPN Shield","description":"d","shortDescription":"s","images":["https://img.example.com/1.png"],"platforms":["Windows"]}`,
			setupMock: func(m *MockService) {
				m.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in models.NewProduct) bool {
					return in.Name == "VPN Shield" && len(in.Platforms) == 1
				})).Return(&models.Product{ID: 4, Name: "VPN Shield"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":4`,
		},
		{
			name:           "validation failed",
			body:           `{"name":"VPN Shield","images":["not a url"]}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"Validation failed"`,
		},
		{
			name:           "broken json",
			body:           `{`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Invalid request body`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateDelete(t *testing.T) {
	svc := new(MockService)
	name := "Renamed"
	svc.On("UpdateProduct", mock.Anything, 1, models.ProductUpdate{Name: &name}).
		Return(&models.Product{ID: 1, Name: name}, nil).Once()
	svc.On("DeleteProduct", mock.Anything, 1).
		Return(apperr.Conflict("Product has subscriptions and cannot be deleted")).Once()
	svc.On("DeleteProduct", mock.Anything, 2).Return(nil).Once()
	h := New(newNoopLogger(), svc)

	w := httptest.NewRecorder()
	h.Update(w, withID(httptest.NewRequest(http.MethodPatch, "/api/products/1", strings.NewReader(`{"name":"Renamed"}`)), "1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Renamed"`)

	w = httptest.NewRecorder()
	h.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/products/1", nil), "1"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	h.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/products/2", nil), "2"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product deleted successfully")

	svc.AssertExpectations(t)
}

func TestHandler_Plans(t *testing.T) {
	svc := new(MockService)
	svc.On("PlansByProduct", mock.Anything, 3).Return([]models.SubscriptionPlan{}, nil).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), svc).Plans(w, withID(httptest.NewRequest(http.MethodGet, "/api/products/3/plans", nil), "3"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	svc.AssertExpectations(t)
}
