package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const productColumns = `id, name, description, short_description, images, platforms,
	firebase_config, download_link, zip_password, is_active, created_at, updated_at`

const planColumns = `id, product_id, name, price, price_crypto, crypto_currency, interval,
	features, is_popular, created_at`

func scanProduct(row scanner) (*models.Product, error) {
	var (
		p                         models.Product
		images, platforms, config []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ShortDescription, &images, &platforms,
		&config, &p.DownloadLink, &p.ZipPassword, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Images, err = scanStrings(images); err != nil {
		return nil, err
	}
	if p.Platforms, err = scanStrings(platforms); err != nil {
		return nil, err
	}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &p.FirebaseConfig); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func scanPlan(row scanner) (*models.SubscriptionPlan, error) {
	var (
		p        models.SubscriptionPlan
		features []byte
	)
	err := row.Scan(&p.ID, &p.ProductID, &p.Name, &p.Price, &p.PriceCrypto, &p.CryptoCurrency,
		&p.Interval, &features, &p.IsPopular, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.Features, err = scanStrings(features); err != nil {
		return nil, err
	}
	return &p, nil
}

// nullableJSON кодирует значение в JSON, nil остаётся NULL.
func nullableJSON(v map[string]any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *Storage) CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	const op = "storage.postgresql.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	images, err := toJSON(stringsOrEmpty(in.Images))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	platforms, err := toJSON(stringsOrEmpty(in.Platforms))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	config, err := nullableJSON(in.FirebaseConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	active := in.IsActive == nil || *in.IsActive

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO products (name, description, short_description, images, platforms,
			firebase_config, download_link, zip_password, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+productColumns,
		in.Name, in.Description, in.ShortDescription, string(images), string(platforms),
		config, in.DownloadLink, in.ZipPassword, active)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return p, nil
}

func (s *Storage) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.postgresql.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanProduct(s.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Product not found")
	}
	return p, nil
}

func (s *Storage) UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error) {
	const op = "storage.postgresql.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var images, platforms *string
	if upd.Images != nil {
		b, err := toJSON(upd.Images)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v := string(b)
		images = &v
	}
	if upd.Platforms != nil {
		b, err := toJSON(upd.Platforms)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v := string(b)
		platforms = &v
	}
	config, err := nullableJSON(upd.FirebaseConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row := s.DB.QueryRowContext(ctx, `
		UPDATE products SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			short_description = COALESCE($4, short_description),
			images = COALESCE($5::jsonb, images),
			platforms = COALESCE($6::jsonb, platforms),
			firebase_config = COALESCE($7::jsonb, firebase_config),
			download_link = COALESCE($8, download_link),
			zip_password = COALESCE($9, zip_password),
			is_active = COALESCE($10, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, upd.Name, upd.Description, upd.ShortDescription, images, platforms, config,
		upd.DownloadLink, upd.ZipPassword, upd.IsActive)
	p, err := scanProduct(row)
	if err != nil {
		return nil, notFoundOr(op, err, "Product not found")
	}
	return p, nil
}

// DeleteProduct удаляет продукт, планы удаляются каскадно. Ссылки из подписок
// запрещают удаление на уровне внешнего ключа.
func (s *Storage) DeleteProduct(ctx context.Context, id int) error {
	const op = "storage.postgresql.DeleteProduct"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return conflictMessage(mapErr(op, err, true), "Product has subscriptions and cannot be deleted")
	}
	return affectedOrNotFound(op, res, "Product not found")
}

func (s *Storage) ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error) {
	const op = "storage.postgresql.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	var total int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE $1::boolean IS NULL OR is_active = $1`, active).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	page = page.Normalize()
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE $1::boolean IS NULL OR is_active = $1
		ORDER BY id LIMIT $2 OFFSET $3`,
		active, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return products, total, nil
}

func (s *Storage) CreatePlan(ctx context.Context, in models.NewPlan) (*models.SubscriptionPlan, error) {
	const op = "storage.postgresql.CreatePlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	features, err := toJSON(stringsOrEmpty(in.Features))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	currency := in.CryptoCurrency
	if currency == "" {
		currency = "ETH"
	}
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO subscription_plans (product_id, name, price, price_crypto, crypto_currency,
			interval, features, is_popular)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+planColumns,
		in.ProductID, in.Name, in.Price, in.PriceCrypto, currency, string(in.Interval),
		string(features), in.IsPopular)
	p, err := scanPlan(row)
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return p, nil
}

func (s *Storage) GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error) {
	const op = "storage.postgresql.GetPlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPlan(s.DB.QueryRowContext(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Subscription plan not found")
	}
	return p, nil
}

func (s *Storage) UpdatePlan(ctx context.Context, id int, upd models.PlanUpdate) (*models.SubscriptionPlan, error) {
	const op = "storage.postgresql.UpdatePlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var features, interval *string
	if upd.Features != nil {
		b, err := toJSON(upd.Features)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v := string(b)
		features = &v
	}
	if upd.Interval != nil {
		v := string(*upd.Interval)
		interval = &v
	}
	row := s.DB.QueryRowContext(ctx, `
		UPDATE subscription_plans SET
			name = COALESCE($2, name),
			price = COALESCE($3, price),
			price_crypto = COALESCE($4, price_crypto),
			crypto_currency = COALESCE($5, crypto_currency),
			interval = COALESCE($6, interval),
			features = COALESCE($7::jsonb, features),
			is_popular = COALESCE($8, is_popular)
		WHERE id = $1
		RETURNING `+planColumns,
		id, upd.Name, upd.Price, upd.PriceCrypto, upd.CryptoCurrency, interval, features, upd.IsPopular)
	p, err := scanPlan(row)
	if err != nil {
		return nil, notFoundOr(op, err, "Subscription plan not found")
	}
	return p, nil
}

func (s *Storage) DeletePlan(ctx context.Context, id int) error {
	const op = "storage.postgresql.DeletePlan"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		return conflictMessage(mapErr(op, err, true), "Subscription plan is in use and cannot be deleted")
	}
	return affectedOrNotFound(op, res, "Subscription plan not found")
}

func (s *Storage) PlansByProduct(ctx context.Context, productID int) ([]models.SubscriptionPlan, error) {
	const op = "storage.postgresql.PlansByProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	plans := []models.SubscriptionPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

// conflictMessage заменяет общее сообщение конфликта на сообщение о конкретной сущности.
func conflictMessage(err error, msg string) error {
	if errors.Is(err, apperr.ErrConflict) {
		return apperr.Conflict(msg)
	}
	return err
}
