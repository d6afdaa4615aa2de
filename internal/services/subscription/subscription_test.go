package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/notifier"
	"github.com/magabrotheeeer/storefront/internal/storage/memory"
)

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Notify(ctx context.Context, templateName, to string, vars map[string]string) error {
	args := m.Called(ctx, templateName, to, vars)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Storage
	cache    *CacheMock
	notifier *NotifierMock
	svc      *Service
	user     *models.User
	product  *models.Product
	monthly  *models.SubscriptionPlan
	yearly   *models.SubscriptionPlan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New(memory.WithClock(func() time.Time { return fixedNow }))

	user, err := store.CreateUser(ctx, models.NewUser{Username: "demo", Email: "demo@example.com", PasswordHash: "x", Role: models.RoleUser})
	require.NoError(t, err)
	active := true
	product, err := store.CreateProduct(ctx, models.NewProduct{Name: "DevOps Toolkit", Description: "d", ShortDescription: "s", IsActive: &active})
	require.NoError(t, err)
	monthly, err := store.CreatePlan(ctx, models.NewPlan{ProductID: product.ID, Name: "Monthly", Price: 2999, Interval: models.IntervalMonth})
	require.NoError(t, err)
	yearly, err := store.CreatePlan(ctx, models.NewPlan{ProductID: product.ID, Name: "Annual", Price: 28788, Interval: models.IntervalYear})
	require.NoError(t, err)

	cm := new(CacheMock)
	nm := new(NotifierMock)
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), store, cm, nm).WithClock(func() time.Time { return fixedNow })
	svc.newKey = func() string { return "renewal-key" }

	return &fixture{store: store, cache: cm, notifier: nm, svc: svc, user: user, product: product, monthly: monthly, yearly: yearly}
}

func (f *fixture) expectSideEffects() {
	f.cache.On("Invalidate", mock.Anything, []string{cache.KeyStats}).Return(nil).Once()
	f.notifier.On("Notify", mock.Anything, notifier.TemplateSubscriptionConfirmation, "demo@example.com",
		map[string]string{"username": "demo", "productName": "DevOps Toolkit"}).Return(nil).Once()
}

func TestCreate_Intervals(t *testing.T) {
	tests := []struct {
		name    string
		plan    func(*fixture) *models.SubscriptionPlan
		wantEnd time.Time
	}{
		{"month", func(f *fixture) *models.SubscriptionPlan { return f.monthly }, fixedNow.AddDate(0, 1, 0)},
		{"year", func(f *fixture) *models.SubscriptionPlan { return f.yearly }, time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectSideEffects()
			plan := tt.plan(f)

			sub, err := f.svc.Create(context.Background(), f.user.ID, models.SubscriptionRequest{ProductID: f.product.ID, PlanID: plan.ID})
			require.NoError(t, err)
			assert.Equal(t, models.SubActive, sub.Status)
			assert.True(t, sub.StartDate.Equal(fixedNow))
			assert.True(t, sub.EndDate.Equal(tt.wantEnd), "end %s", sub.EndDate)
			assert.NotEqual(t, sub.StartDate, sub.EndDate)
			assert.Equal(t, "renewal-key", sub.RenewalKey)
			f.cache.AssertExpectations(t)
			f.notifier.AssertExpectations(t)
		})
	}
}

func TestCreate_YearPlanWithPendingTransaction(t *testing.T) {
	f := newFixture(t)
	f.expectSideEffects()
	ctx := context.Background()

	tx, err := f.store.CreateTransaction(ctx, models.NewTransaction{UserID: f.user.ID, Amount: 150, Currency: "ETH", TxHash: "0xpending", Status: models.TxPending})
	require.NoError(t, err)

	sub, err := f.svc.Create(ctx, f.user.ID, models.SubscriptionRequest{ProductID: f.product.ID, PlanID: f.yearly.ID, TransactionID: &tx.ID})
	require.NoError(t, err)
	assert.Equal(t, models.SubActive, sub.Status)
	assert.True(t, sub.EndDate.Equal(fixedNow.AddDate(1, 0, 0)))
	require.NotNil(t, sub.TransactionID)
	assert.Equal(t, tx.ID, *sub.TransactionID)

	active, err := f.svc.ListActive(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "DevOps Toolkit", active[0].Product.Name)
	assert.Equal(t, models.IntervalYear, active[0].Plan.Interval)
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.store.CreateProduct(ctx, models.NewProduct{Name: "Other", Description: "d", ShortDescription: "s"})
	require.NoError(t, err)
	foreignTx, err := f.store.CreateTransaction(ctx, models.NewTransaction{UserID: 99, Amount: 1, Currency: "ETH", TxHash: "0xforeign", Status: models.TxPending})
	require.NoError(t, err)
	missing := 404

	tests := []struct {
		name string
		req  models.SubscriptionRequest
		want error
	}{
		{"unknown product", models.SubscriptionRequest{ProductID: 999, PlanID: f.monthly.ID}, apperr.ErrNotFound},
		{"unknown plan", models.SubscriptionRequest{ProductID: f.product.ID, PlanID: 999}, apperr.ErrNotFound},
		{"plan of another product", models.SubscriptionRequest{ProductID: other.ID, PlanID: f.monthly.ID}, apperr.ErrValidation},
		{"unknown transaction", models.SubscriptionRequest{ProductID: f.product.ID, PlanID: f.monthly.ID, TransactionID: &missing}, apperr.ErrNotFound},
		{"foreign transaction", models.SubscriptionRequest{ProductID: f.product.ID, PlanID: f.monthly.ID, TransactionID: &foreignTx.ID}, apperr.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.user.ID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	subs, err := f.svc.List(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestCreate_UnknownIntervalNeverEqualDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	weekly := models.PlanInterval("week")
	_, err := f.store.UpdatePlan(ctx, f.monthly.ID, models.PlanUpdate{Interval: &weekly})
	require.NoError(t, err)

	sub, err := f.svc.Create(ctx, f.user.ID, models.SubscriptionRequest{ProductID: f.product.ID, PlanID: f.monthly.ID})
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_SideEffectFailuresIgnored(t *testing.T) {
	f := newFixture(t)
	f.cache.On("Invalidate", mock.Anything, []string{cache.KeyStats}).Return(errors.New("redis down")).Once()
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	sub, err := f.svc.Create(context.Background(), f.user.ID, models.SubscriptionRequest{ProductID: f.product.ID, PlanID: f.monthly.ID})
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
}
