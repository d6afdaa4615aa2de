// Package sender собирает процесс доставки писем: читает очередь уведомлений
// RabbitMQ и отправляет каждое сообщение через SMTP.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/lib/smtp"
	"github.com/magabrotheeeer/storefront/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/storefront/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.sender.New"
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is required"))
	}
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("smtp host is required"))
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(logger, transport),
		logger:        logger,
	}, nil
}

// Run читает очередь писем до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	const op = "app.sender.Run"
	defer a.close()

	if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueEmail, a.senderService.HandleMessage); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.logger.Info("sender consuming", slog.String("queue", rabbitmq.QueueEmail))

	closed := a.conn.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		a.logger.Info("sender shutting down")
		return nil
	case amqpErr := <-closed:
		if amqpErr == nil {
			return nil
		}
		return fmt.Errorf("%s: %w", op, amqpErr)
	}
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
