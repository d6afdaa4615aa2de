// Package catalog отдаёт каталог продуктов и тарифных планов и управляет им.
// Продукт вместе с планами кэшируется под ключом product:{id}; любая
// запись в продукт или его планы сбрасывает этот ключ.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

type Store interface {
	storage.ProductStore
	storage.PlanStore
}

// Cache кэш JSON-значений.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

type Service struct {
	log   *slog.Logger
	store Store
	cache Cache
	ttl   time.Duration
}

// New создаёт Service. ttl время жизни записи продукта в кэше.
func New(log *slog.Logger, store Store, cache Cache, ttl time.Duration) *Service {
	return &Service{
		log:   log,
		store: store,
		cache: cache,
		ttl:   ttl,
	}
}

// ListProducts возвращает страницу продуктов и их общее число до пагинации.
func (s *Service) ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error) {
	const op = "catalog.ListProducts"
	products, total, err := s.store.ListProducts(ctx, active, page)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return products, total, nil
}

// GetProductWithPlans возвращает продукт и его планы, сначала из кэша.
func (s *Service) GetProductWithPlans(ctx context.Context, id int) (*models.ProductWithPlans, error) {
	const op = "catalog.GetProductWithPlans"
	key := cache.ProductKey(id)

	var cached models.ProductWithPlans
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read product from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		if cached.Plans == nil {
			cached.Plans = []models.SubscriptionPlan{}
		}
		return &cached, nil
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plans, err := s.store.PlansByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plans == nil {
		plans = []models.SubscriptionPlan{}
	}
	result := &models.ProductWithPlans{Product: *product, Plans: plans}

	if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	const op = "catalog.CreateProduct"
	product, err := s.store.CreateProduct(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product created", slog.Int("id", product.ID), slog.String("name", product.Name))
	s.invalidate(ctx, product.ID)
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error) {
	const op = "catalog.UpdateProduct"
	product, err := s.store.UpdateProduct(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct удаляет продукт с планами. Продукт с подписками не удаляется.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	const op = "catalog.DeleteProduct"
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	s.log.Info("product deleted", slog.Int("id", id))
	return nil
}

// PlansByProduct возвращает планы продукта. Несуществующий продукт даёт NotFound.
func (s *Service) PlansByProduct(ctx context.Context, productID int) ([]models.SubscriptionPlan, error) {
	const op = "catalog.PlansByProduct"
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plans, err := s.store.PlansByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plans == nil {
		plans = []models.SubscriptionPlan{}
	}
	return plans, nil
}

func (s *Service) CreatePlan(ctx context.Context, in models.NewPlan) (*models.SubscriptionPlan, error) {
	const op = "catalog.CreatePlan"
	plan, err := s.store.CreatePlan(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, plan.ProductID)
	s.log.Info("plan created", slog.Int("id", plan.ID), slog.Int("product_id", plan.ProductID))
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id int, upd models.PlanUpdate) (*models.SubscriptionPlan, error) {
	const op = "catalog.UpdatePlan"
	plan, err := s.store.UpdatePlan(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, plan.ProductID)
	return plan, nil
}

// DeletePlan удаляет план, если на него не ссылаются подписки.
func (s *Service) DeletePlan(ctx context.Context, id int) error {
	const op = "catalog.DeletePlan"
	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, plan.ProductID)
	return nil
}

// invalidate сбрасывает продукт с планами и сводную статистику,
// в которую входят число продуктов и выручка по планам.
func (s *Service) invalidate(ctx context.Context, productID int) {
	key := cache.ProductKey(productID)
	if err := s.cache.Invalidate(ctx, key, cache.KeyStats); err != nil {
		s.log.Warn("failed to invalidate product cache", slog.String("key", key), sl.Err(err))
	}
}
