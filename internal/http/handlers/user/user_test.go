package user

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

type AccountsMock struct {
	mock.Mock
}

func (m *AccountsMock) Me(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *AccountsMock) UpdateProfile(ctx context.Context, id int, req models.ProfileUpdateRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *AccountsMock) ChangePassword(ctx context.Context, id int, req models.ChangePasswordRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

type SubscriptionsMock struct {
	mock.Mock
}

func (m *SubscriptionsMock) ListActive(ctx context.Context, userID int) ([]models.SubscriptionDetails, error) {
	args := m.Called(ctx, userID)
	subs, _ := args.Get(0).([]models.SubscriptionDetails)
	return subs, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func authed(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	return req.WithContext(middlewarectx.WithIdentity(req.Context(),
		models.Identity{UserID: 2, Username: "demo", Role: models.RoleUser}))
}

func TestHandler_Profile(t *testing.T) {
	accounts := new(AccountsMock)
	accounts.On("Me", mock.Anything, 2).Return(&models.User{ID: 2, Username: "demo", PasswordHash: "$2a$10$hash"}, nil).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), accounts, new(SubscriptionsMock)).Profile(w, authed(http.MethodGet, "/api/users/profile", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"demo"`)
	assert.NotContains(t, w.Body.String(), "$2a$10$hash")
	accounts.AssertExpectations(t)
}

func TestHandler_UpdateProfile(t *testing.T) {
	email := "new@example.com"

	tests := []struct {
		name           string
		body           string
		setupMock      func(*AccountsMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "email changed",
			body: `{"email":"new@example.com"}`,
			setupMock: func(m *AccountsMock) {
				m.On("UpdateProfile", mock.Anything, 2, models.ProfileUpdateRequest{Email: &email}).
					Return(&models.User{ID: 2, Email: email}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"new@example.com"`,
		},
		{
			name: "email in use",
			body: `{"email":"new@example.com"}`,
			setupMock: func(m *AccountsMock) {
				m.On("UpdateProfile", mock.Anything, 2, mock.Anything).Return(nil, apperr.Conflict("Email already in use")).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "Email already in use",
		},
		{
			name:           "invalid email",
			body:           `{"email":"not-an-email"}`,
			setupMock:      func(_ *AccountsMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "email must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(AccountsMock)
			tt.setupMock(accounts)

			w := httptest.NewRecorder()
			New(newNoopLogger(), accounts, new(SubscriptionsMock)).UpdateProfile(w, authed(http.MethodPatch, "/api/users/profile", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			accounts.AssertExpectations(t)
		})
	}
}

func TestHandler_ChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*AccountsMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "changed",
			body: `{"currentPassword":"demo123","newPassword":"demo456"}`,
			setupMock: func(m *AccountsMock) {
				m.On("ChangePassword", mock.Anything, 2, models.ChangePasswordRequest{CurrentPassword: "demo123", NewPassword: "demo456"}).
					Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Password updated successfully",
		},
		{
			name: "wrong current password",
			body: `{"currentPassword":"nope","newPassword":"demo456"}`,
			setupMock: func(m *AccountsMock) {
				m.On("ChangePassword", mock.Anything, 2, mock.Anything).Return(apperr.Unauthorized("Current password is incorrect")).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Current password is incorrect",
		},
		{
			name:           "missing fields",
			body:           `{"newPassword":"demo456"}`,
			setupMock:      func(_ *AccountsMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "currentPassword is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(AccountsMock)
			tt.setupMock(accounts)

			w := httptest.NewRecorder()
			New(newNoopLogger(), accounts, new(SubscriptionsMock)).ChangePassword(w, authed(http.MethodPost, "/api/users/change-password", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			accounts.AssertExpectations(t)
		})
	}
}

func TestHandler_Subscriptions(t *testing.T) {
	subs := new(SubscriptionsMock)
	subs.On("ListActive", mock.Anything, 2).Return([]models.SubscriptionDetails{{
		UserSubscription: models.UserSubscription{ID: 1, UserID: 2, Status: models.SubActive},
		Product:          models.Product{ID: 1, Name: "Cloud Defender Pro"},
		Plan:             models.SubscriptionPlan{ID: 2, Name: "Annual"},
	}}, nil).Once()

	w := httptest.NewRecorder()
	New(newNoopLogger(), new(AccountsMock), subs).Subscriptions(w, authed(http.MethodGet, "/api/users/subscriptions", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)
	assert.Contains(t, w.Body.String(), `"name":"Cloud Defender Pro"`)
	subs.AssertExpectations(t)
}
