// Package memory реализует хранилище витрины в памяти процесса.
// Все карты защищены одним RWMutex, проверки уникальности и вставка
// выполняются под одной блокировкой записи.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

var _ storage.Store = (*Storage)(nil)

// Storage хранилище сущностей в памяти.
type Storage struct {
	mu  sync.RWMutex
	now func() time.Time

	users         map[int]models.User
	products      map[int]models.Product
	plans         map[int]models.SubscriptionPlan
	transactions  map[int]models.CryptoTransaction
	subscriptions map[int]models.UserSubscription
	posts         map[int]models.BlogPost
	templates     map[int]models.EmailTemplate
	pages         map[int]models.ContentPage

	nextID map[string]int
}

// Option настраивает хранилище.
type Option func(*Storage)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// New создаёт пустое хранилище.
func New(opts ...Option) *Storage {
	s := &Storage{
		now:           func() time.Time { return time.Now().UTC() },
		users:         make(map[int]models.User),
		products:      make(map[int]models.Product),
		plans:         make(map[int]models.SubscriptionPlan),
		transactions:  make(map[int]models.CryptoTransaction),
		subscriptions: make(map[int]models.UserSubscription),
		posts:         make(map[int]models.BlogPost),
		templates:     make(map[int]models.EmailTemplate),
		pages:         make(map[int]models.ContentPage),
		nextID:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close ничего не освобождает, метод нужен для единообразия с postgresql.
func (s *Storage) Close() error {
	return nil
}

// id выдаёт следующий идентификатор сущности. Вызывается под блокировкой записи.
func (s *Storage) id(entity string) int {
	s.nextID[entity]++
	return s.nextID[entity]
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// sortedValues возвращает значения карты в порядке возрастания ключей.
func sortedValues[T any](m map[int]T) []T {
	out := make([]T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func cloneProduct(p models.Product) models.Product {
	p.Images = cloneStrings(p.Images)
	p.Platforms = cloneStrings(p.Platforms)
	if p.FirebaseConfig != nil {
		p.FirebaseConfig = maps.Clone(p.FirebaseConfig)
	}
	return p
}

func clonePlan(p models.SubscriptionPlan) models.SubscriptionPlan {
	p.Features = cloneStrings(p.Features)
	return p
}
