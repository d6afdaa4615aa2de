// Package postgresql реализует хранилище витрины на PostgreSQL через
// database/sql и драйвер pgx. Уникальность и ссылочная целостность
// обеспечиваются индексами и внешними ключами схемы из каталога migrations.
package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

var _ storage.Store = (*Storage)(nil)

// Storage инкапсулирует соединение с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New открывает соединение и проверяет его доступность.
func New(ctx context.Context, connString string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// constraintMessages сообщения для клиента по имени нарушенного ограничения.
var constraintMessages = map[string]string{
	"users_username_lower_idx":               "Username already taken",
	"users_email_lower_idx":                  "Email already in use",
	"crypto_transactions_tx_hash_idx":        "Transaction with this hash already exists",
	"blog_posts_slug_idx":                    "Slug already in use",
	"content_pages_slug_idx":                 "Slug already in use",
	"email_templates_name_idx":               "Template name already in use",
	"subscription_plans_product_id_fkey":     "Product not found",
	"user_subscriptions_product_id_fkey":     "Product not found",
	"user_subscriptions_plan_id_fkey":        "Subscription plan not found",
	"user_subscriptions_transaction_id_fkey": "Transaction not found",
}

// mapErr переводит ошибки PostgreSQL в доменные. Нарушение уникальности
// становится конфликтом, нарушение внешнего ключа при вставке означает
// отсутствующую родительскую запись, при удалении означает конфликт.
func mapErr(op string, err error, deleting bool) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := constraintMessages[pgErr.ConstraintName]
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if msg == "" {
			msg = "Already exists"
		}
		return apperr.Conflict(msg)
	case pgerrcode.ForeignKeyViolation:
		if deleting {
			return apperr.Conflict("Record is referenced and cannot be deleted")
		}
		if msg == "" {
			msg = "Referenced record not found"
		}
		return apperr.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFoundOr(op string, err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(msg)
	}
	return mapErr(op, err, false)
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

func affectedOrNotFound(op string, res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return apperr.NotFound(msg)
	}
	return nil
}

func toJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanStrings(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// scanner общий интерфейс sql.Row и sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
