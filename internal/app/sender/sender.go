// Package sender собирает приложение отправки почтовых уведомлений о репортах.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/poorboygaming/gshare/internal/config"
	"github.com/poorboygaming/gshare/internal/lib/rabbitmq"
	"github.com/poorboygaming/gshare/internal/lib/smtp"
	senderservice "github.com/poorboygaming/gshare/internal/services/sender"
)

// App держит подключение к брокеру и сервис отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New собирает приложение: брокер, почтовый транспорт и сервис отправки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.New(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди событий репортов и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueReportCreated, a.senderService.SendReportCreated)
	if err != nil {
		a.logger.Error("failed to start report created consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueReportResolved, a.senderService.SendReportResolved)
	if err != nil {
		a.logger.Error("failed to start report resolved consumer", slog.Any("err", err))
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
