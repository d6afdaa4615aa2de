// Package payment создаёт платёжные намерения для оплаты тарифных планов картой.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/paymentprovider"
)

type PlanRepository interface {
	GetPlan(ctx context.Context, id int) (*models.SubscriptionPlan, error)
}

type Service struct {
	log      *slog.Logger
	plans    PlanRepository
	gateway  paymentprovider.Gateway
	currency string
}

func New(log *slog.Logger, plans PlanRepository, gateway paymentprovider.Gateway, currency string) *Service {
	return &Service{log: log, plans: plans, gateway: gateway, currency: currency}
}

// CreateIntent создаёт намерение на сумму цены плана и возвращает client secret.
func (s *Service) CreateIntent(ctx context.Context, userID, planID int) (string, error) {
	const op = "payment.CreateIntent"
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	intent, err := s.gateway.CreatePaymentIntent(ctx, paymentprovider.IntentInput{
		Amount:   int64(plan.Price),
		Currency: s.currency,
		Metadata: map[string]string{
			"userId":    strconv.Itoa(userID),
			"planId":    strconv.Itoa(plan.ID),
			"productId": strconv.Itoa(plan.ProductID),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment intent created", slog.String("intent_id", intent.ID), slog.Int("user_id", userID), slog.Int("plan_id", planID))
	return intent.ClientSecret, nil
}
