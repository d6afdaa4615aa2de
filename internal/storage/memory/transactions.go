package memory

import (
	"context"
	"slices"
	"time"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const msgDuplicateHash = "Transaction with this hash already exists"

// CreateTransaction записывает транзакцию. Хэш уникален среди всех пользователей,
// при дубликате хранилище не меняется.
func (s *Storage) CreateTransaction(ctx context.Context, in models.NewTransaction) (*models.CryptoTransaction, error) {
	const op = "storage.memory.CreateTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactionByHash(in.TxHash); ok {
		return nil, apperr.Conflict(msgDuplicateHash)
	}

	status := in.Status
	if status == "" {
		status = models.TxPending
	}
	tx := models.CryptoTransaction{
		ID:        s.id("transactions"),
		UserID:    in.UserID,
		Amount:    in.Amount,
		Currency:  in.Currency,
		TxHash:    in.TxHash,
		Status:    status,
		CreatedAt: s.now(),
	}
	s.transactions[tx.ID] = tx
	return &tx, nil
}

func (s *Storage) GetTransaction(ctx context.Context, id int) (*models.CryptoTransaction, error) {
	const op = "storage.memory.GetTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, apperr.NotFound("Transaction not found")
	}
	return &tx, nil
}

func (s *Storage) GetTransactionByHash(ctx context.Context, txHash string) (*models.CryptoTransaction, error) {
	const op = "storage.memory.GetTransactionByHash"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactionByHash(txHash)
	if !ok {
		return nil, apperr.NotFound("Transaction not found")
	}
	return &tx, nil
}

func (s *Storage) TransactionsByUser(ctx context.Context, userID int) ([]models.CryptoTransaction, error) {
	const op = "storage.memory.TransactionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.CryptoTransaction{}
	for _, tx := range sortedValues(s.transactions) {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b models.CryptoTransaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.ID - a.ID
	})
	return out, nil
}

// UpdateTransactionStatus меняет статус. confirmedAt записывается, только если передан.
func (s *Storage) UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, confirmedAt *time.Time) (*models.CryptoTransaction, error) {
	const op = "storage.memory.UpdateTransactionStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, apperr.NotFound("Transaction not found")
	}
	tx.Status = status
	if confirmedAt != nil {
		c := *confirmedAt
		tx.ConfirmedAt = &c
	}
	s.transactions[id] = tx
	return &tx, nil
}

func (s *Storage) transactionByHash(txHash string) (models.CryptoTransaction, bool) {
	for _, tx := range s.transactions {
		if tx.TxHash == txHash {
			return tx, true
		}
	}
	return models.CryptoTransaction{}, false
}
