// Package sender отправляет email-уведомления из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// Service отправляет уведомления об истекающих подписках по SMTP.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendExpiryNotice отправляет письмо о скором окончании подписки.
// Тело сообщения приходит из очереди уведомлений.
func (s *Service) SendExpiryNotice(body []byte) error {
	var notice models.ExpiryNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal expiry notice", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	name := notice.DisplayName
	if name == "" {
		name = "пользователь FitCoach"
	}
	subject := "Уведомление о скором окончании подписки FitCoach"
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Ваша подписка FitCoach (%s) заканчивается %s.

Продлите её заранее, чтобы не потерять доступ к программам тренировок и AI-ассистенту.`,
		name, notice.SubscriptionType, notice.EndDate.Format("02.01.2006"))

	return s.sendEmail([]string{notice.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.From()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
