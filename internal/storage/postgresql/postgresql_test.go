package postgresql

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/models"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	path, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))

	return storage
}

func ptr[T any](v T) *T { return &v }

func TestStorageIntegration(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	t.Run("users are unique ignoring case", func(t *testing.T) {
		u, err := s.CreateUser(ctx, models.NewUser{Username: "demo", Email: "demo@example.com", PasswordHash: "h"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)

		_, err = s.CreateUser(ctx, models.NewUser{Username: "DEMO", Email: "other@example.com", PasswordHash: "h"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrConflict))
		assert.Equal(t, "Username already taken", err.Error())

		got, err := s.GetUserByEmail(ctx, "DEMO@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		updated, err := s.UpdateUser(ctx, u.ID, models.UserUpdate{WalletAddress: ptr("0xabc")})
		require.NoError(t, err)
		require.NotNil(t, updated.WalletAddress)
		assert.Equal(t, "0xabc", *updated.WalletAddress)
		assert.Equal(t, "demo@example.com", updated.Email)
	})

	t.Run("products pagination and plans", func(t *testing.T) {
		var firstID int
		for i := range 3 {
			p, err := s.CreateProduct(ctx, models.NewProduct{
				Name: fmt.Sprintf("p%d", i), Description: "d", ShortDescription: "s",
				Images: []string{"https://example.com/i.png"}, Platforms: []string{"Linux"},
				FirebaseConfig: map[string]any{"projectId": "demo"},
			})
			require.NoError(t, err)
			if i == 0 {
				firstID = p.ID
			}
		}

		items, total, err := s.ListProducts(ctx, ptr(true), models.Page{Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"https://example.com/i.png"}, items[0].Images)
		assert.Equal(t, "demo", items[0].FirebaseConfig["projectId"])

		plan, err := s.CreatePlan(ctx, models.NewPlan{ProductID: firstID, Name: "Monthly", Price: 1999, Interval: models.IntervalMonth, Features: []string{"a"}})
		require.NoError(t, err)
		assert.Equal(t, "ETH", plan.CryptoCurrency)

		_, err = s.CreatePlan(ctx, models.NewPlan{ProductID: 99999, Name: "x", Interval: models.IntervalMonth})
		assert.True(t, errors.Is(err, apperr.ErrNotFound))

		_, err = s.CreateSubscription(ctx, models.UserSubscription{
			UserID: 1, ProductID: firstID, PlanID: plan.ID, StartDate: time.Now(), EndDate: time.Now().AddDate(0, 1, 0),
			Status: models.SubActive, RenewalKey: "k",
		})
		require.NoError(t, err)

		assert.True(t, errors.Is(s.DeleteProduct(ctx, firstID), apperr.ErrConflict))
		assert.True(t, errors.Is(s.DeletePlan(ctx, plan.ID), apperr.ErrConflict))

		details, err := s.ActiveSubscriptionsByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Monthly", details[0].Plan.Name)
		assert.Equal(t, "p0", details[0].Product.Name)
	})

	t.Run("duplicate tx hash", func(t *testing.T) {
		tx, err := s.CreateTransaction(ctx, models.NewTransaction{UserID: 1, Amount: 10, Currency: "ETH", TxHash: "0xabc"})
		require.NoError(t, err)
		assert.Equal(t, models.TxPending, tx.Status)
		assert.Nil(t, tx.ConfirmedAt)

		_, err = s.CreateTransaction(ctx, models.NewTransaction{UserID: 2, Amount: 10, Currency: "ETH", TxHash: "0xabc"})
		assert.True(t, errors.Is(err, apperr.ErrConflict))

		now := time.Now().UTC().Truncate(time.Microsecond)
		updated, err := s.UpdateTransactionStatus(ctx, tx.ID, models.TxCompleted, &now)
		require.NoError(t, err)
		require.NotNil(t, updated.ConfirmedAt)
		assert.True(t, now.Equal(*updated.ConfirmedAt))
	})

	t.Run("blog publish toggling", func(t *testing.T) {
		at := time.Now().UTC()
		p, err := s.CreateBlogPost(ctx, models.NewBlogPost{Title: "t", Slug: "t", Content: "c", Excerpt: "e", AuthorID: 1, IsPublished: true, PublishedAt: &at})
		require.NoError(t, err)

		got, err := s.UpdateBlogPost(ctx, p.ID, models.BlogPostUpdate{IsPublished: ptr(false), ClearPublishedAt: true})
		require.NoError(t, err)
		assert.Nil(t, got.PublishedAt)

		_, err = s.CreateBlogPost(ctx, models.NewBlogPost{Title: "t2", Slug: "t", Content: "c", Excerpt: "e", AuthorID: 1})
		assert.True(t, errors.Is(err, apperr.ErrConflict))
	})
}
