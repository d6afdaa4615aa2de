// Package subscription содержит бизнес-логику оформления подписок пользователей.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/lib/interval"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/notifier"
)

// Repository определяет методы хранилища, нужные для работы с подписками.
type Repository interface {
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int) (*models.User, error)
	// GetProduct возвращает продукт по ID.
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	// GetPlan возвращает тарифный план по ID.
	GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error)
	// GetTransaction возвращает крипто-транзакцию по ID.
	GetTransaction(ctx context.Context, id int) (*models.CryptoTransaction, error)
	// CreateSubscription сохраняет подписку.
	CreateSubscription(ctx context.Context, in models.UserSubscription) (*models.UserSubscription, error)
	// SubscriptionsByUser возвращает все подписки пользователя.
	SubscriptionsByUser(ctx context.Context, userID int) ([]models.UserSubscription, error)
	// ActiveSubscriptionsByUser возвращает активные подписки с продуктом и планом.
	ActiveSubscriptionsByUser(ctx context.Context, userID int) ([]models.SubscriptionDetails, error)
}

// Cache описывает сброс закэшированных значений.
type Cache interface {
	// Invalidate удаляет значения по ключам.
	Invalidate(ctx context.Context, keys ...string) error
}

// Notifier отправляет письма по шаблонам.
type Notifier interface {
	// Notify публикует письмо по шаблону templateName.
	Notify(ctx context.Context, templateName, to string, vars map[string]string) error
}

// Service реализует оформление и просмотр подписок.
type Service struct {
	log      *slog.Logger
	repo     Repository
	cache    Cache
	notifier Notifier
	now      func() time.Time
	newKey   func() string
}

// New создаёт Service.
func New(log *slog.Logger, repo Repository, cache Cache, notifier Notifier) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newKey:   func() string { return uuid.NewString() },
	}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create оформляет подписку пользователя userID на план продукта.
//
// Продукт и план должны существовать, план должен принадлежать продукту.
// Переданная транзакция должна существовать и принадлежать пользователю.
// Подписка активируется сразу, независимо от статуса транзакции; дата
// окончания вычисляется из интервала плана по календарю.
func (s *Service) Create(ctx context.Context, userID int, req models.SubscriptionRequest) (*models.UserSubscription, error) {
	const op = "subscription.Create"
	log := s.log.With(slog.String("op", op), slog.Int("user_id", userID))

	product, err := s.repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.repo.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plan.ProductID != product.ID {
		return nil, apperr.Validation("Plan does not belong to the product")
	}
	if req.TransactionID != nil {
		tx, err := s.repo.GetTransaction(ctx, *req.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if tx.UserID != userID {
			return nil, apperr.Forbidden("Transaction belongs to another user")
		}
	}

	start := s.now()
	end, err := interval.End(start, plan.Interval)
	if err != nil {
		if errors.Is(err, interval.ErrUnknownInterval) {
			return nil, apperr.Validation("Unsupported plan interval")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.repo.CreateSubscription(ctx, models.UserSubscription{
		UserID:        userID,
		ProductID:     product.ID,
		PlanID:        plan.ID,
		TransactionID: req.TransactionID,
		StartDate:     start,
		EndDate:       end,
		Status:        models.SubActive,
		RenewalKey:    s.newKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("created new subscription", slog.Int("id", sub.ID), slog.String("interval", string(plan.Interval)))
	metrics.SubscriptionsCreated.WithLabelValues(string(plan.Interval)).Inc()

	if err := s.cache.Invalidate(ctx, cache.KeyStats); err != nil {
		log.Warn("failed to invalidate stats cache", sl.Err(err))
	}
	s.notifyConfirmation(ctx, log, userID, product.Name)

	return sub, nil
}

func (s *Service) notifyConfirmation(ctx context.Context, log *slog.Logger, userID int, productName string) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		log.Warn("failed to load user for confirmation email", sl.Err(err))
		return
	}
	vars := map[string]string{"username": user.Username, "productName": productName}
	if err := s.notifier.Notify(ctx, notifier.TemplateSubscriptionConfirmation, user.Email, vars); err != nil {
		log.Warn("failed to send confirmation email", sl.Err(err))
	}
}

// List возвращает все подписки пользователя.
func (s *Service) List(ctx context.Context, userID int) ([]models.UserSubscription, error) {
	const op = "subscription.List"
	subs, err := s.repo.SubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []models.UserSubscription{}
	}
	return subs, nil
}

// ListActive возвращает активные подписки пользователя вместе с продуктом и планом.
func (s *Service) ListActive(ctx context.Context, userID int) ([]models.SubscriptionDetails, error) {
	const op = "subscription.ListActive"
	subs, err := s.repo.ActiveSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []models.SubscriptionDetails{}
	}
	return subs, nil
}
