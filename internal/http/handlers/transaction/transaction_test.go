package transaction

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

func (m *MockService) ListForUser(ctx context.Context, userID int) ([]models.CryptoTransaction, error) {
	args := m.Called(ctx, userID)
	txs, _ := args.Get(0).([]models.CryptoTransaction)
	return txs, args.Error(1)
}

func (m *MockService) Create(ctx context.Context, userID int, req models.TransactionRequest, idempotent bool) (*models.CryptoTransaction, bool, error) {
	args := m.Called(ctx, userID, req, idempotent)
	tx, _ := args.Get(0).(*models.CryptoTransaction)
	return tx, args.Bool(1), args.Error(2)
}

func (m *MockService) UpdateStatus(ctx context.Context, caller models.Identity, id int, status models.TransactionStatus, confirmedAt *time.Time) (*models.CryptoTransaction, error) {
	args := m.Called(ctx, caller, id, status, confirmedAt)
	tx, _ := args.Get(0).(*models.CryptoTransaction)
	return tx, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var demo = models.Identity{UserID: 2, Username: "demo", Role: models.RoleUser}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithIdentity(req.Context(), demo))
}

func TestHandler_Create(t *testing.T) {
	req := models.TransactionRequest{TxHash: "0xabc", Amount: 15, Currency: "ETH"}
	body := `{"txHash":"0xabc","amount":15,"currency":"ETH"}`
	tx := &models.CryptoTransaction{ID: 1, UserID: 2, TxHash: "0xabc", Amount: 15, Currency: "ETH", Status: models.TxPending}

	tests := []struct {
		name           string
		body           string
		idempotencyKey string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, 2, req, false).Return(tx, true, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"pending"`,
		},
		{
			name: "duplicate hash",
			body: body,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, 2, req, false).
					Return(nil, false, apperr.Conflict("Transaction with this hash already exists")).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "Transaction with this hash already exists",
		},
		{
			name:           "idempotent retry",
			body:           body,
			idempotencyKey: "retry-1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, 2, req, true).Return(tx, false, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"txHash":"0xabc"`,
		},
		{
			name:           "missing hash",
			body:           `{"amount":15,"currency":"ETH"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "txHash is required",
		},
		{
			name:           "non-positive amount",
			body:           `{"txHash":"0xabc","amount":-1,"currency":"ETH"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "amount must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := authed(httptest.NewRequest(http.MethodPost, "/api/crypto-transactions", strings.NewReader(tt.body)))
			if tt.idempotencyKey != "" {
				r.Header.Set(HeaderIdempotencyKey, tt.idempotencyKey)
			}
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	confirmed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "completed with explicit time",
			id:   "5",
			body: `{"status":"completed","confirmedAt":"2026-03-01T12:00:00Z"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, demo, 5, models.TxCompleted, mock.MatchedBy(func(at *time.Time) bool {
					return at != nil && at.Equal(confirmed)
				})).Return(&models.CryptoTransaction{ID: 5, Status: models.TxCompleted, ConfirmedAt: &confirmed}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"confirmedAt":"2026-03-01T12:00:00Z"`,
		},
		{
			name: "foreign transaction",
			id:   "6",
			body: `{"status":"failed"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, demo, 6, models.TxFailed, (*time.Time)(nil)).
					Return(nil, apperr.Forbidden("You cannot modify this transaction")).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "You cannot modify this transaction",
		},
		{
			name:           "missing status",
			id:             "5",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "status is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := authed(httptest.NewRequest(http.MethodPatch, "/api/crypto-transactions/"+tt.id, strings.NewReader(tt.body)))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).UpdateStatus(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("ListForUser", mock.Anything, 2).Return([]models.CryptoTransaction{{ID: 3, UserID: 2}}, nil).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), svc).List(w, authed(httptest.NewRequest(http.MethodGet, "/api/crypto-transactions", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":2`)
	svc.AssertExpectations(t)
}
