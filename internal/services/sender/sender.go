// Package sender доставляет готовые письма из очереди уведомлений по SMTP.
package sender

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/lib/smtp"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// ErrEmptyRecipient в сообщении нет адреса получателя.
var ErrEmptyRecipient = errors.New("message has no recipient")

// Dialer открывает аутентифицированное SMTP-соединение.
type Dialer interface {
	Connect() (smtp.Client, error)
	From() string
}

// Service отправляет письма через Dialer.
type Service struct {
	transport Dialer
	log       *slog.Logger
}

// New создаёт Service.
func New(log *slog.Logger, transport Dialer) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleMessage разбирает EmailMessage из тела сообщения очереди и отправляет его.
func (s *Service) HandleMessage(body []byte) error {
	const op = "sender.HandleMessage"

	var message models.EmailMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if strings.TrimSpace(message.To) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyRecipient)
	}
	if err := s.Send(message); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Send доставляет одно письмо.
func (s *Service) Send(message models.EmailMessage) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + message.To,
		"Subject: " + message.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		message.Body,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	if err := client.Rcpt(message.To); err != nil {
		s.log.Error("failed to set RCPT TO", slog.String("recipient", message.To), sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.String("to", message.To), slog.String("subject", message.Subject))
	return nil
}
