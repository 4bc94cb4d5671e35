package gshare

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/poorboygaming/gshare/internal/cache"
	"github.com/poorboygaming/gshare/internal/config"
	"github.com/poorboygaming/gshare/internal/lib/gametoken"
	"github.com/poorboygaming/gshare/internal/lib/jwt"
	"github.com/poorboygaming/gshare/internal/lib/rabbitmq"
	"github.com/poorboygaming/gshare/internal/migrations"
	"github.com/poorboygaming/gshare/internal/models"
	authservice "github.com/poorboygaming/gshare/internal/services/auth"
	categoryservice "github.com/poorboygaming/gshare/internal/services/category"
	"github.com/poorboygaming/gshare/internal/services/entitlement"
	gameservice "github.com/poorboygaming/gshare/internal/services/game"
	planservice "github.com/poorboygaming/gshare/internal/services/plan"
	reportservice "github.com/poorboygaming/gshare/internal/services/report"
	statsservice "github.com/poorboygaming/gshare/internal/services/stats"
	userservice "github.com/poorboygaming/gshare/internal/services/user"
	"github.com/poorboygaming/gshare/internal/storage/repository"
)

// App держит HTTP-сервер и внешние подключения основного сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// reportEventPublisher публикует события репортов в обменник RabbitMQ.
type reportEventPublisher struct {
	ch *amqp.Channel
}

func (p *reportEventPublisher) Publish(routingKey string, event *models.ReportEvent) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.ReportsExchange, routingKey, event)
}

// New собирает приложение: базу, кеш, брокер, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	codec := gametoken.New(cfg.GameTokenKey)
	evaluator := entitlement.New()

	services := &Services{
		Auth:     authservice.New(db, db, jwtMaker, evaluator),
		Game:     gameservice.New(db, codec, evaluator),
		Report:   reportservice.New(logger, db, &reportEventPublisher{ch: ch}),
		Category: categoryservice.New(logger, db, cacheRedis),
		Plan:     planservice.New(logger, db, cacheRedis),
		User:     userservice.New(db),
		Stats:    statsservice.New(db),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, evaluator, db, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
