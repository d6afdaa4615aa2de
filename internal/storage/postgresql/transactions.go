package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const transactionColumns = `id, user_id, amount, currency, tx_hash, status, created_at, confirmed_at`

func scanTransaction(row scanner) (*models.CryptoTransaction, error) {
	var tx models.CryptoTransaction
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Currency, &tx.TxHash, &tx.Status,
		&tx.CreatedAt, &tx.ConfirmedAt)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateTransaction вставляет транзакцию, дубликат хэша отклоняется уникальным индексом.
func (s *Storage) CreateTransaction(ctx context.Context, in models.NewTransaction) (*models.CryptoTransaction, error) {
	const op = "storage.postgresql.CreateTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.TxPending
	}
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO crypto_transactions (user_id, amount, currency, tx_hash, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+transactionColumns,
		in.UserID, in.Amount, in.Currency, in.TxHash, string(status))
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return tx, nil
}

func (s *Storage) GetTransaction(ctx context.Context, id int) (*models.CryptoTransaction, error) {
	const op = "storage.postgresql.GetTransaction"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := scanTransaction(s.DB.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM crypto_transactions WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Transaction not found")
	}
	return tx, nil
}

func (s *Storage) GetTransactionByHash(ctx context.Context, txHash string) (*models.CryptoTransaction, error) {
	const op = "storage.postgresql.GetTransactionByHash"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := scanTransaction(s.DB.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM crypto_transactions WHERE tx_hash = $1`, txHash))
	if err != nil {
		return nil, notFoundOr(op, err, "Transaction not found")
	}
	return tx, nil
}

func (s *Storage) TransactionsByUser(ctx context.Context, userID int) ([]models.CryptoTransaction, error) {
	const op = "storage.postgresql.TransactionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM crypto_transactions
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	txs := []models.CryptoTransaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txs, nil
}

func (s *Storage) UpdateTransactionStatus(ctx context.Context, id int, status models.TransactionStatus, confirmedAt *time.Time) (*models.CryptoTransaction, error) {
	const op = "storage.postgresql.UpdateTransactionStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `
		UPDATE crypto_transactions SET
			status = $2,
			confirmed_at = COALESCE($3, confirmed_at)
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, string(status), confirmedAt)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, notFoundOr(op, err, "Transaction not found")
	}
	return tx, nil
}
