// Package scheduler по расписанию переводит истёкшие подписки в expired и
// напоминает пользователям о скором окончании подписки.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/lib/interval"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/notifier"
)

type Repository interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	SubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]models.UserSubscription, error)
	UpdateSubscription(ctx context.Context, id int, upd models.SubscriptionUpdate) (*models.UserSubscription, error)
}

type Notifier interface {
	Notify(ctx context.Context, templateName, to string, vars map[string]string) error
}

type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service выполняет проверку подписок. Напоминание по каждой подписке
// отправляется один раз за время жизни процесса.
type Service struct {
	log          *slog.Logger
	repo         Repository
	notifier     Notifier
	cache        Cache
	remindWithin time.Duration
	now          func() time.Time

	mu       sync.Mutex
	reminded map[int]struct{}
	cron     *cron.Cron
}

// New создаёт Service. remindWithin окно, в котором подписка считается истекающей.
func New(log *slog.Logger, repo Repository, notifier Notifier, cache Cache, remindWithin time.Duration) *Service {
	return &Service{
		log:          log,
		repo:         repo,
		notifier:     notifier,
		cache:        cache,
		remindWithin: remindWithin,
		now:          func() time.Time { return time.Now().UTC() },
		reminded:     make(map[int]struct{}),
	}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Start запускает проверку по cron-выражению spec. Задания выполняются в
// контексте ctx; Stop дожидается завершения текущего запуска.
func (s *Service) Start(ctx context.Context, spec string) error {
	const op = "scheduler.Start"
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.cron = c
	c.Start()
	s.log.Info("scheduler started", slog.String("spec", spec))
	return nil
}

func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunOnce выполняет одну проверку: сначала перевод истёкших, затем напоминания.
func (s *Service) RunOnce(ctx context.Context) {
	expired, err := s.ExpireDue(ctx)
	if err != nil {
		s.log.Error("failed to expire subscriptions", sl.Err(err))
	}
	reminded, err := s.RemindExpiring(ctx)
	if err != nil {
		s.log.Error("failed to send expiry reminders", sl.Err(err))
	}
	s.log.Info("subscription check finished", slog.Int("expired", expired), slog.Int("reminded", reminded))
}

// ExpireDue переводит активные подписки с прошедшей датой окончания в expired.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	const op = "scheduler.ExpireDue"
	active, err := s.repo.SubscriptionsByStatus(ctx, models.SubActive)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	status := models.SubExpired
	count := 0
	for _, sub := range active {
		if sub.EndDate.After(now) {
			continue
		}
		if _, err := s.repo.UpdateSubscription(ctx, sub.ID, models.SubscriptionUpdate{Status: &status}); err != nil {
			s.log.Error("failed to expire subscription", slog.Int("id", sub.ID), sl.Err(err))
			continue
		}
		s.forget(sub.ID)
		count++
	}
	if count > 0 {
		metrics.SubscriptionsExpired.Add(float64(count))
		if err := s.cache.Invalidate(ctx, cache.KeyStats); err != nil {
			s.log.Warn("failed to invalidate stats cache", sl.Err(err))
		}
	}
	return count, nil
}

// RemindExpiring отправляет письмо subscription_expiry по подпискам,
// заканчивающимся в ближайшее окно remindWithin.
func (s *Service) RemindExpiring(ctx context.Context) (int, error) {
	const op = "scheduler.RemindExpiring"
	active, err := s.repo.SubscriptionsByStatus(ctx, models.SubActive)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	count := 0
	for _, sub := range active {
		if !interval.EndsWithin(sub.EndDate, now, s.remindWithin) || s.wasReminded(sub.ID) {
			continue
		}
		user, err := s.repo.GetUser(ctx, sub.UserID)
		if err != nil {
			s.log.Warn("failed to load subscriber", slog.Int("subscription_id", sub.ID), sl.Err(err))
			continue
		}
		product, err := s.repo.GetProduct(ctx, sub.ProductID)
		if err != nil {
			s.log.Warn("failed to load product", slog.Int("subscription_id", sub.ID), sl.Err(err))
			continue
		}
		vars := map[string]string{
			"username":    user.Username,
			"productName": product.Name,
			"expiryDate":  sub.EndDate.Format("2006-01-02"),
		}
		if err := s.notifier.Notify(ctx, notifier.TemplateSubscriptionExpiry, user.Email, vars); err != nil {
			s.log.Warn("failed to send expiry reminder", slog.Int("subscription_id", sub.ID), sl.Err(err))
			continue
		}
		s.markReminded(sub.ID)
		count++
	}
	return count, nil
}

func (s *Service) wasReminded(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reminded[id]
	return ok
}

func (s *Service) markReminded(id int) {
	s.mu.Lock()
	s.reminded[id] = struct{}{}
	s.mu.Unlock()
}

func (s *Service) forget(id int) {
	s.mu.Lock()
	delete(s.reminded, id)
	s.mu.Unlock()
}
