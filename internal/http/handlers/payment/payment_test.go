package payment

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateIntent(ctx context.Context, userID, planID int) (string, error) {
	args := m.Called(ctx, userID, planID)
	return args.String(0), args.Error(1)
}

func TestHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "intent created",
			body: `{"planId":2}`,
			setupMock: func(m *MockService) {
				m.On("CreateIntent", mock.Anything, 2, 2).Return("pi_1_secret_2", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"clientSecret":"pi_1_secret_2"}`,
		},
		{
			name: "gateway not configured",
			body: `{"planId":2}`,
			setupMock: func(m *MockService) {
				m.On("CreateIntent", mock.Anything, 2, 2).Return("", apperr.Unavailable("Payment provider is not configured")).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "Payment provider is not configured",
		},
		{
			name: "unknown plan",
			body: `{"planId":77}`,
			setupMock: func(m *MockService) {
				m.On("CreateIntent", mock.Anything, 2, 77).Return("", apperr.NotFound("Subscription plan not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Subscription plan not found",
		},
		{
			name:           "plan is required",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "planId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), models.Identity{UserID: 2, Role: models.RoleUser}))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
