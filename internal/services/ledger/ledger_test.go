package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/memory"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func newService() (*Service, *memory.Storage) {
	store := memory.New(memory.WithClock(func() time.Time { return fixedNow }))
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), store).WithClock(func() time.Time { return fixedNow })
	return s, store
}

func request(hash string) models.TransactionRequest {
	return models.TransactionRequest{TxHash: hash, Amount: 10, Currency: "ETH"}
}

func TestCreate(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	tx, created, err := s.Create(ctx, 2, request("0xabc"), false)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.TxPending, tx.Status)
	assert.Nil(t, tx.ConfirmedAt)
}

func TestCreate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  models.TransactionRequest
		want error
	}{
		{"completed at creation", models.TransactionRequest{TxHash: "0x1", Amount: 1, Currency: "ETH", Status: models.TxCompleted}, apperr.ErrValidation},
		{"unknown status", models.TransactionRequest{TxHash: "0x1", Amount: 1, Currency: "ETH", Status: "done"}, apperr.ErrValidation},
		{"blank hash", models.TransactionRequest{TxHash: "  ", Amount: 1, Currency: "ETH"}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newService()
			_, _, err := s.Create(context.Background(), 1, tt.req, false)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_DuplicateHash(t *testing.T) {
	s, store := newService()
	ctx := context.Background()

	_, _, err := s.Create(ctx, 2, request("0xdup"), false)
	require.NoError(t, err)

	_, _, err = s.Create(ctx, 3, request("0xdup"), false)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	txs2, err := store.TransactionsByUser(ctx, 2)
	require.NoError(t, err)
	txs3, err := store.TransactionsByUser(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, txs2, 1)
	assert.Empty(t, txs3)
}

func TestCreate_Idempotent(t *testing.T) {
	s, _ := newService()
	ctx := context.Background()

	first, _, err := s.Create(ctx, 2, request("0xidem"), true)
	require.NoError(t, err)

	again, created, err := s.Create(ctx, 2, request("0xidem"), true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	other := request("0xidem")
	other.Amount = 99
	_, _, err = s.Create(ctx, 2, other, true)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, _, err = s.Create(ctx, 5, request("0xidem"), true)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateStatus(t *testing.T) {
	owner := models.Identity{UserID: 2, Role: models.RoleUser}
	stranger := models.Identity{UserID: 3, Role: models.RoleUser}
	admin := models.Identity{UserID: 1, Role: models.RoleAdmin}
	explicit := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		caller        models.Identity
		status        models.TransactionStatus
		confirmedAt   *time.Time
		wantErr       error
		wantConfirmed *time.Time
	}{
		{name: "owner completes now", caller: owner, status: models.TxCompleted, wantConfirmed: &fixedNow},
		{name: "admin completes with explicit time", caller: admin, status: models.TxCompleted, confirmedAt: &explicit, wantConfirmed: &explicit},
		{name: "failed leaves confirmedAt", caller: owner, status: models.TxFailed},
		{name: "pending ignores confirmedAt", caller: owner, status: models.TxPending, confirmedAt: &explicit},
		{name: "stranger forbidden", caller: stranger, status: models.TxCompleted, wantErr: apperr.ErrForbidden},
		{name: "unknown status", caller: owner, status: "confirmed", wantErr: apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newService()
			ctx := context.Background()
			tx, _, err := s.Create(ctx, owner.UserID, request("0xupd"), false)
			require.NoError(t, err)

			got, err := s.UpdateStatus(ctx, tt.caller, tx.ID, tt.status, tt.confirmedAt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			if tt.wantConfirmed == nil {
				assert.Nil(t, got.ConfirmedAt)
			} else {
				require.NotNil(t, got.ConfirmedAt)
				assert.True(t, got.ConfirmedAt.Equal(*tt.wantConfirmed))
			}
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	s, _ := newService()
	_, err := s.UpdateStatus(context.Background(), models.Identity{UserID: 1, Role: models.RoleAdmin}, 404, models.TxCompleted, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListForUser_Empty(t *testing.T) {
	s, _ := newService()
	txs, err := s.ListForUser(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}
