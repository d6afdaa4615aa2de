package plan

import (
	"context"
	"errors"
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
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreatePlan(ctx context.Context, in models.NewPlan) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*models.SubscriptionPlan)
	return p, args.Error(1)
}

func (m *MockService) UpdatePlan(ctx context.Context, id int, upd models.PlanUpdate) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, id, upd)
	p, _ := args.Get(0).(*models.SubscriptionPlan)
	return p, args.Error(1)
}

func (m *MockService) DeletePlan(ctx context.Context, id int) error {
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

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "yearly plan",
			body: `{"productId":1,"name":"Annual","price":9999,"interval":"year","features":["Priority support"]}`,
			setupMock: func(m *MockService) {
				m.On("CreatePlan", mock.Anything, mock.MatchedBy(func(in models.NewPlan) bool {
					return in.ProductID == 1 && in.Interval == models.IntervalYear
				})).Return(&models.SubscriptionPlan{ID: 7, ProductID: 1, Name: "Annual", Interval: models.IntervalYear}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":7`,
		},
		{
			name:           "unknown interval",
			body:           `{"productId":1,"name":"Weekly","price":100,"interval":"week"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "interval must be one of: month year",
		},
		{
			name: "missing product",
			body: `{"productId":99,"name":"Monthly","price":100,"interval":"month"}`,
			setupMock: func(m *MockService) {
				m.On("CreatePlan", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("Product not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Product not found",
		},
		{
			name: "storage failure is not leaked",
			body: `{"productId":1,"name":"Monthly","price":100,"interval":"month"}`,
			setupMock: func(m *MockService) {
				m.On("CreatePlan", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection reset")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).Create(w, httptest.NewRequest(http.MethodPost, "/api/subscription-plans", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateDelete(t *testing.T) {
	svc := new(MockService)
	price := 1500
	svc.On("UpdatePlan", mock.Anything, 3, models.PlanUpdate{Price: &price}).
		Return(&models.SubscriptionPlan{ID: 3, Price: price}, nil).Once()
	svc.On("DeletePlan", mock.Anything, 3).Return(apperr.NotFound("Subscription plan not found")).Once()
	h := New(newNoopLogger(), svc)

	w := httptest.NewRecorder()
	h.Update(w, withID(httptest.NewRequest(http.MethodPatch, "/api/subscription-plans/3", strings.NewReader(`{"price":1500}`)), "3"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":1500`)

	w = httptest.NewRecorder()
	h.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/subscription-plans/3", nil), "3"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Subscription plan not found")

	svc.AssertExpectations(t)
}
