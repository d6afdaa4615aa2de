// Package ledger учитывает заявленные пользователями крипто-транзакции.
//
// Хэш транзакции уникален среди всех пользователей. Подтверждение (статус
// completed с датой confirmedAt) выполняется только через UpdateStatus.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

type Store interface {
	storage.TransactionStore
}

type Service struct {
	log   *slog.Logger
	store Store
	now   func() time.Time
}

// New создаёт Service.
func New(log *slog.Logger, store Store) *Service {
	return &Service{
		log:   log,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create записывает транзакцию пользователя. created=false означает, что
// при idempotent повторный запрос вернул уже существующую запись с теми же
// пользователем, суммой и валютой.
func (s *Service) Create(ctx context.Context, userID int, req models.TransactionRequest, idempotent bool) (tx *models.CryptoTransaction, created bool, err error) {
	const op = "ledger.Create"

	status := req.Status
	if status == "" {
		status = models.TxPending
	}
	if !status.Valid() {
		return nil, false, apperr.Validation("Unknown transaction status")
	}
	if status == models.TxCompleted {
		return nil, false, apperr.Validation("Transaction cannot be created as completed")
	}
	req.TxHash = strings.TrimSpace(req.TxHash)
	if req.TxHash == "" {
		return nil, false, apperr.Validation("Transaction hash is required")
	}

	tx, err = s.store.CreateTransaction(ctx, models.NewTransaction{
		UserID:   userID,
		Amount:   req.Amount,
		Currency: req.Currency,
		TxHash:   req.TxHash,
		Status:   status,
	})
	if err == nil {
		metrics.TransactionsTotal.WithLabelValues(string(status)).Inc()
		s.log.Info("transaction recorded", slog.Int("id", tx.ID), slog.Int("user_id", userID))
		return tx, true, nil
	}
	if !idempotent || !errors.Is(err, apperr.ErrConflict) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	existing, getErr := s.store.GetTransactionByHash(ctx, req.TxHash)
	if getErr != nil {
		return nil, false, fmt.Errorf("%s: %w", op, getErr)
	}
	if existing.UserID != userID || existing.Amount != req.Amount || existing.Currency != req.Currency {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return existing, false, nil
}

// UpdateStatus меняет статус транзакции. Менять статус может владелец
// транзакции или администратор. Для completed confirmedAt берётся из
// аргумента или текущего времени, для остальных статусов не меняется.
func (s *Service) UpdateStatus(ctx context.Context, caller models.Identity, id int, status models.TransactionStatus, confirmedAt *time.Time) (*models.CryptoTransaction, error) {
	const op = "ledger.UpdateStatus"

	if !status.Valid() {
		return nil, apperr.Validation("Unknown transaction status")
	}
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if tx.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apperr.Forbidden("You cannot modify this transaction")
	}

	var confirmed *time.Time
	if status == models.TxCompleted {
		t := s.now()
		if confirmedAt != nil {
			t = confirmedAt.UTC()
		}
		confirmed = &t
	}
	updated, err := s.store.UpdateTransactionStatus(ctx, id, status, confirmed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.TransactionsTotal.WithLabelValues(string(status)).Inc()
	s.log.Info("transaction status updated", slog.Int("id", id), slog.String("status", string(status)))
	return updated, nil
}

// ListForUser транзакции пользователя, новые первыми.
func (s *Service) ListForUser(ctx context.Context, userID int) ([]models.CryptoTransaction, error) {
	const op = "ledger.ListForUser"
	txs, err := s.store.TransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if txs == nil {
		txs = []models.CryptoTransaction{}
	}
	return txs, nil
}
