// Package sender собирает приложение отправки почтовых уведомлений
// об истекающих подписках.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/fitcoach-backend/internal/config"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/sender"
)

const (
	rabbitConnectRetries = 5
	rabbitRetryDelay     = 3 * time.Second
)

// App приложение отправителя уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключает RabbitMQ и SMTP-транспорт и собирает сервис отправителя.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AmqpURI, rabbitConnectRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди уведомлений.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "notifications.expiring", a.senderService.SendExpiryNotice)
	if err != nil {
		a.logger.Error("failed to start notifications.expiring consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
