// Package notifier формирует письма по шаблонам и передаёт их в очередь отправки.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/metrics"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/rabbitmq"
	"github.com/magabrotheeeer/storefront/internal/services/content"
)

// Имена шаблонов писем.
const (
	TemplateWelcome                  = "welcome"
	TemplateSubscriptionConfirmation = "subscription_confirmation"
	TemplateSubscriptionExpiry       = "subscription_expiry"
)

// Publisher публикует сообщение в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// TemplateStore источник шаблонов писем.
type TemplateStore interface {
	GetEmailTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error)
}

type Service struct {
	log       *slog.Logger
	templates TemplateStore
	publisher Publisher
}

// New создаёт Service.
func New(log *slog.Logger, templates TemplateStore, publisher Publisher) *Service {
	return &Service{
		log:       log,
		templates: templates,
		publisher: publisher,
	}
}

// Notify рендерит шаблон templateName для получателя to и публикует письмо.
func (s *Service) Notify(ctx context.Context, templateName, to string, vars map[string]string) error {
	const op = "notifier.Notify"
	log := s.log.With(slog.String("op", op), slog.String("template", templateName))

	tpl, err := s.templates.GetEmailTemplateByName(ctx, templateName)
	if err != nil {
		metrics.NotificationsPublished.WithLabelValues(templateName, "no_template").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := content.RenderTemplate(*tpl, to, vars)
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyEmail, msg); err != nil {
		log.Error("failed to publish notification", sl.Err(err))
		metrics.NotificationsPublished.WithLabelValues(templateName, "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.NotificationsPublished.WithLabelValues(templateName, "ok").Inc()
	log.Debug("notification published", slog.String("to", to))
	return nil
}

// NopPublisher отбрасывает сообщения. Используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
