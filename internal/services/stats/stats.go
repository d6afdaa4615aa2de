// Package stats считает сводные показатели для панели администратора.
package stats

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const topProductsLimit = 3

type Repository interface {
	ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error)
	ListProducts(ctx context.Context, active *bool, page models.Page) ([]models.Product, int, error)
	ActiveSubscriptionsByUser(ctx context.Context, userID int) ([]models.SubscriptionDetails, error)
}

type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
	ttl   time.Duration
}

func New(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{log: log, repo: repo, cache: cache, ttl: ttl}
}

// Compute возвращает статистику из кэша или пересчитывает её по всем
// пользователям и их активным подпискам. Выручка приводится к месяцу
// (годовой план делится на 12) и переводится из минимальных единиц.
func (s *Service) Compute(ctx context.Context) (*models.Stats, error) {
	const op = "stats.Compute"

	var cached models.Stats
	found, err := s.cache.Get(ctx, cache.KeyStats, &cached)
	if err != nil {
		s.log.Warn("failed to read stats from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	result, err := s.compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.ActiveSubscriptions.Set(float64(result.ActiveSubscriptions))

	if err := s.cache.Set(ctx, cache.KeyStats, result, s.ttl); err != nil {
		s.log.Warn("failed to cache stats", sl.Err(err))
	}
	return result, nil
}

func (s *Service) compute(ctx context.Context) (*models.Stats, error) {
	_, totalProducts, err := s.repo.ListProducts(ctx, nil, models.Page{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	result := &models.Stats{TotalProducts: totalProducts, TopProducts: []models.ProductStats{}}
	byProduct := make(map[int]*models.ProductStats)
	var revenue float64

	for page := 1; ; page++ {
		users, total, err := s.repo.ListUsers(ctx, models.Page{Page: page, PageSize: models.MaxPageSize})
		if err != nil {
			return nil, err
		}
		result.TotalUsers = total
		for _, u := range users {
			subs, err := s.repo.ActiveSubscriptionsByUser(ctx, u.ID)
			if err != nil {
				return nil, err
			}
			for _, sub := range subs {
				monthly := sub.Plan.MonthlyPrice()
				result.ActiveSubscriptions++
				revenue += monthly

				ps, ok := byProduct[sub.ProductID]
				if !ok {
					ps = &models.ProductStats{ID: sub.ProductID, Name: sub.Product.Name}
					byProduct[sub.ProductID] = ps
				}
				ps.Subscriptions++
				ps.MonthlyRevenue += monthly
			}
		}
		if len(users) == 0 || page*models.MaxPageSize >= total {
			break
		}
	}

	result.MonthlyRevenue = revenue / 100
	for _, ps := range byProduct {
		ps.MonthlyRevenue /= 100
		result.TopProducts = append(result.TopProducts, *ps)
	}
	slices.SortFunc(result.TopProducts, func(a, b models.ProductStats) int {
		if c := cmp.Compare(b.Subscriptions, a.Subscriptions); c != 0 {
			return c
		}
		if c := cmp.Compare(b.MonthlyRevenue, a.MonthlyRevenue); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(result.TopProducts) > topProductsLimit {
		result.TopProducts = result.TopProducts[:topProductsLimit]
	}
	return result, nil
}
