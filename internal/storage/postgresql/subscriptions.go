package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const subscriptionColumns = `id, user_id, product_id, plan_id, transaction_id, start_date,
	end_date, status, renewal_key, created_at`

func scanSubscription(row scanner) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.ProductID, &sub.PlanID, &sub.TransactionID,
		&sub.StartDate, &sub.EndDate, &sub.Status, &sub.RenewalKey, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Storage) CreateSubscription(ctx context.Context, in models.UserSubscription) (*models.UserSubscription, error) {
	const op = "storage.postgresql.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO user_subscriptions (user_id, product_id, plan_id, transaction_id,
			start_date, end_date, status, renewal_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+subscriptionColumns,
		in.UserID, in.ProductID, in.PlanID, in.TransactionID, in.StartDate, in.EndDate,
		string(in.Status), in.RenewalKey)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, mapErr(op, err, false)
	}
	return sub, nil
}

func (s *Storage) GetSubscription(ctx context.Context, id int) (*models.UserSubscription, error) {
	const op = "storage.postgresql.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	sub, err := scanSubscription(s.DB.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM user_subscriptions WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err, "Subscription not found")
	}
	return sub, nil
}

func (s *Storage) UpdateSubscription(ctx context.Context, id int, upd models.SubscriptionUpdate) (*models.UserSubscription, error) {
	const op = "storage.postgresql.UpdateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var status *string
	if upd.Status != nil {
		v := string(*upd.Status)
		status = &v
	}
	row := s.DB.QueryRowContext(ctx, `
		UPDATE user_subscriptions SET
			status = COALESCE($2, status),
			end_date = COALESCE($3, end_date)
		WHERE id = $1
		RETURNING `+subscriptionColumns,
		id, status, upd.EndDate)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, notFoundOr(op, err, "Subscription not found")
	}
	return sub, nil
}

func (s *Storage) listSubscriptions(ctx context.Context, op, where string, arg any) ([]models.UserSubscription, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM user_subscriptions WHERE `+where+` ORDER BY id`, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	subs := []models.UserSubscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

func (s *Storage) SubscriptionsByUser(ctx context.Context, userID int) ([]models.UserSubscription, error) {
	const op = "storage.postgresql.SubscriptionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.listSubscriptions(ctx, op, "user_id = $1", userID)
}

func (s *Storage) SubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]models.UserSubscription, error) {
	const op = "storage.postgresql.SubscriptionsByStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.listSubscriptions(ctx, op, "status = $1", string(status))
}

// ActiveSubscriptionsByUser соединяет активные подписки с продуктом и планом.
// Внутреннее соединение отбрасывает строки без продукта или плана.
func (s *Storage) ActiveSubscriptionsByUser(ctx context.Context, userID int) ([]models.SubscriptionDetails, error) {
	const op = "storage.postgresql.ActiveSubscriptionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.product_id, s.plan_id, s.transaction_id, s.start_date,
			s.end_date, s.status, s.renewal_key, s.created_at,
			p.id, p.name, p.description, p.short_description, p.images, p.platforms,
			p.firebase_config, p.download_link, p.zip_password, p.is_active, p.created_at, p.updated_at,
			pl.id, pl.product_id, pl.name, pl.price, pl.price_crypto, pl.crypto_currency, pl.interval,
			pl.features, pl.is_popular, pl.created_at
		FROM user_subscriptions s
		JOIN products p ON p.id = s.product_id
		JOIN subscription_plans pl ON pl.id = s.plan_id
		WHERE s.user_id = $1 AND s.status = 'active'
		ORDER BY s.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.SubscriptionDetails{}
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanDetails(row scanner) (*models.SubscriptionDetails, error) {
	var (
		d                                   models.SubscriptionDetails
		images, platforms, config, features []byte
	)
	sub := &d.UserSubscription
	p := &d.Product
	pl := &d.Plan
	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.ProductID, &sub.PlanID, &sub.TransactionID, &sub.StartDate,
		&sub.EndDate, &sub.Status, &sub.RenewalKey, &sub.CreatedAt,
		&p.ID, &p.Name, &p.Description, &p.ShortDescription, &images, &platforms,
		&config, &p.DownloadLink, &p.ZipPassword, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&pl.ID, &pl.ProductID, &pl.Name, &pl.Price, &pl.PriceCrypto, &pl.CryptoCurrency, &pl.Interval,
		&features, &pl.IsPopular, &pl.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Images, err = scanStrings(images); err != nil {
		return nil, err
	}
	if p.Platforms, err = scanStrings(platforms); err != nil {
		return nil, err
	}
	if pl.Features, err = scanStrings(features); err != nil {
		return nil, err
	}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &p.FirebaseConfig); err != nil {
			return nil, err
		}
	}
	return &d, nil
}
