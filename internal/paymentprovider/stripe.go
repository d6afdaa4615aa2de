package paymentprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
)

// Stripe создаёт PaymentIntent через API Stripe.
type Stripe struct {
	client *stripe.Client
}

// NewStripe создаёт адаптер с секретным ключом Stripe.
func NewStripe(secretKey string, opts ...stripe.ClientOption) *Stripe {
	return &Stripe{client: stripe.NewClient(strings.TrimSpace(secretKey), opts...)}
}

func (s *Stripe) CreatePaymentIntent(ctx context.Context, in IntentInput) (*Intent, error) {
	const op = "paymentprovider.Stripe.CreatePaymentIntent"
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := s.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
