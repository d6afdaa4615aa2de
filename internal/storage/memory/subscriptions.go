package memory

import (
	"context"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// CreateSubscription сохраняет подписку. Продукт и план должны существовать.
func (s *Storage) CreateSubscription(ctx context.Context, in models.UserSubscription) (*models.UserSubscription, error) {
	const op = "storage.memory.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[in.ProductID]; !ok {
		return nil, apperr.NotFound("Product not found")
	}
	if _, ok := s.plans[in.PlanID]; !ok {
		return nil, apperr.NotFound("Subscription plan not found")
	}

	sub := in
	sub.ID = s.id("subscriptions")
	sub.CreatedAt = s.now()
	if sub.TransactionID != nil {
		txID := *sub.TransactionID
		sub.TransactionID = &txID
	}
	s.subscriptions[sub.ID] = sub
	return &sub, nil
}

func (s *Storage) GetSubscription(ctx context.Context, id int) (*models.UserSubscription, error) {
	const op = "storage.memory.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, apperr.NotFound("Subscription not found")
	}
	return &sub, nil
}

func (s *Storage) UpdateSubscription(ctx context.Context, id int, upd models.SubscriptionUpdate) (*models.UserSubscription, error) {
	const op = "storage.memory.UpdateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, apperr.NotFound("Subscription not found")
	}
	if upd.Status != nil {
		sub.Status = *upd.Status
	}
	if upd.EndDate != nil {
		sub.EndDate = *upd.EndDate
	}
	s.subscriptions[id] = sub
	return &sub, nil
}

func (s *Storage) SubscriptionsByUser(ctx context.Context, userID int) ([]models.UserSubscription, error) {
	const op = "storage.memory.SubscriptionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.UserSubscription{}
	for _, sub := range sortedValues(s.subscriptions) {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// ActiveSubscriptionsByUser соединяет активные подписки с продуктом и планом.
func (s *Storage) ActiveSubscriptionsByUser(ctx context.Context, userID int) ([]models.SubscriptionDetails, error) {
	const op = "storage.memory.ActiveSubscriptionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.SubscriptionDetails{}
	for _, sub := range sortedValues(s.subscriptions) {
		if sub.UserID != userID || sub.Status != models.SubActive {
			continue
		}
		product, ok := s.products[sub.ProductID]
		if !ok {
			continue
		}
		plan, ok := s.plans[sub.PlanID]
		if !ok {
			continue
		}
		out = append(out, models.SubscriptionDetails{
			UserSubscription: sub,
			Product:          cloneProduct(product),
			Plan:             clonePlan(plan),
		})
	}
	return out, nil
}

func (s *Storage) SubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]models.UserSubscription, error) {
	const op = "storage.memory.SubscriptionsByStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.UserSubscription{}
	for _, sub := range sortedValues(s.subscriptions) {
		if sub.Status == status {
			out = append(out, sub)
		}
	}
	return out, nil
}
