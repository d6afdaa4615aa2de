package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/rabbitmq"
)

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

type TemplatesMock struct{ mock.Mock }

func (m *TemplatesMock) GetEmailTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify(t *testing.T) {
	ctx := context.Background()
	tpl := &models.EmailTemplate{
		Name:    TemplateSubscriptionConfirmation,
		Subject: "Your Subscription Confirmation",
		Content: "Hello {{username}}, thank you for subscribing to {{productName}}.",
	}
	vars := map[string]string{"username": "demo", "productName": "DevOps Toolkit"}

	tests := []struct {
		name    string
		setup   func(*TemplatesMock, *PublisherMock)
		wantErr error
	}{
		{
			name: "published",
			setup: func(tm *TemplatesMock, pm *PublisherMock) {
				tm.On("GetEmailTemplateByName", ctx, TemplateSubscriptionConfirmation).Return(tpl, nil).Once()
				pm.On("Publish", ctx, rabbitmq.RoutingKeyEmail, models.EmailMessage{
					To:      "demo@example.com",
					Subject: "Your Subscription Confirmation",
					Body:    "Hello demo, thank you for subscribing to DevOps Toolkit.",
				}).Return(nil).Once()
			},
		},
		{
			name: "missing template",
			setup: func(tm *TemplatesMock, _ *PublisherMock) {
				tm.On("GetEmailTemplateByName", ctx, TemplateSubscriptionConfirmation).Return(nil, apperr.NotFound("Template not found")).Once()
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "broker error",
			setup: func(tm *TemplatesMock, pm *PublisherMock) {
				tm.On("GetEmailTemplateByName", ctx, TemplateSubscriptionConfirmation).Return(tpl, nil).Once()
				pm.On("Publish", ctx, rabbitmq.RoutingKeyEmail, mock.Anything).Return(errors.New("channel closed")).Once()
			},
			wantErr: errors.New("channel closed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := new(TemplatesMock)
			pm := new(PublisherMock)
			tt.setup(tm, pm)

			err := New(newNoopLogger(), tm, pm).Notify(ctx, TemplateSubscriptionConfirmation, "demo@example.com", vars)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, apperr.ErrNotFound) {
					assert.ErrorIs(t, err, apperr.ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			tm.AssertExpectations(t)
			pm.AssertExpectations(t)
		})
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "email", "x"))
}
