// Package paymentprovider создаёт платёжные намерения у внешнего провайдера.
package paymentprovider

import (
	"context"

	"github.com/magabrotheeeer/storefront/internal/apperr"
)

// IntentInput параметры платёжного намерения. Amount в минимальных единицах валюты.
type IntentInput struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Intent созданное платёжное намерение.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway провайдер платежей.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, in IntentInput) (*Intent, error)
}

// Unconfigured отвечает ErrUnavailable на любой запрос. Используется без ключа провайдера.
type Unconfigured struct{}

func (Unconfigured) CreatePaymentIntent(context.Context, IntentInput) (*Intent, error) {
	return nil, apperr.Unavailable("Payment provider is not configured")
}
