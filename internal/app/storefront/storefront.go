// Package storefront собирает HTTP-процесс витрины: хранилище, кэш,
// публикацию уведомлений, сервисы, планировщик и маршруты.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/health"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/paymentprovider"
	"github.com/magabrotheeeer/storefront/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/storefront/internal/services/auth"
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
	"github.com/magabrotheeeer/storefront/internal/services/content"
	"github.com/magabrotheeeer/storefront/internal/services/ledger"
	"github.com/magabrotheeeer/storefront/internal/services/notifier"
	paymentservice "github.com/magabrotheeeer/storefront/internal/services/payment"
	"github.com/magabrotheeeer/storefront/internal/services/scheduler"
	"github.com/magabrotheeeer/storefront/internal/services/stats"
	subservice "github.com/magabrotheeeer/storefront/internal/services/subscription"
	"github.com/magabrotheeeer/storefront/internal/storage"
	"github.com/magabrotheeeer/storefront/internal/storage/memory"
	"github.com/magabrotheeeer/storefront/internal/storage/postgresql"
	"github.com/magabrotheeeer/storefront/internal/storage/seed"
)

const shutdownTimeout = 15 * time.Second

// Cache кэш JSON-значений, общий для сервисов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Infra внешние зависимости процесса. Publisher и Gateway могут быть
// заглушками, Pinger равен nil для хранилища в памяти.
type Infra struct {
	Store     storage.Store
	Pinger    health.Pinger
	Cache     Cache
	Publisher notifier.Publisher
	Gateway   paymentprovider.Gateway
}

type App struct {
	server    *http.Server
	logger    *slog.Logger
	scheduler *scheduler.Service
	cfg       *config.Config
	closers   []func() error
}

// New подключает инфраструктуру по конфигурации и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.storefront.New"

	a := &App{logger: logger, cfg: cfg}
	infra, err := a.connect(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, logger, infra.Store, cfg.Seed); err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	router := chi.NewRouter()
	svc := NewServices(cfg, logger, infra)
	RegisterRoutes(router, logger, cfg, svc)

	if cfg.Scheduler.Enabled {
		a.scheduler = svc.Scheduler
	}

	a.server = &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return a, nil
}

// connect открывает хранилище, кэш и канал публикации. Всё открытое
// регистрируется в closers и закрывается при остановке.
func (a *App) connect(ctx context.Context) (Infra, error) {
	cfg, log := a.cfg, a.logger
	infra := Infra{
		Cache:     cache.Nop{},
		Publisher: notifier.NopPublisher{},
		Gateway:   paymentprovider.Unconfigured{},
	}

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := postgresql.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return infra, err
		}
		a.closers = append(a.closers, db.Close)
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return infra, err
		}
		infra.Store, infra.Pinger = db, db
	default:
		infra.Store = memory.New()
	}
	log.Info("storage ready", slog.String("backend", cfg.StorageBackend))

	if cfg.Redis.AddressRedis != "" {
		c, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			return infra, err
		}
		a.closers = append(a.closers, c.Close)
		infra.Cache = c
		log.Info("redis cache enabled", slog.String("address", cfg.Redis.AddressRedis))
	}

	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
		if err != nil {
			return infra, err
		}
		a.closers = append(a.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
		if err != nil {
			return infra, err
		}
		a.closers = append(a.closers, ch.Close)
		infra.Publisher = rabbitmq.NewPublisher(ch, rabbitmq.ExchangeNotifications)
		log.Info("notification publishing enabled")
	}

	if cfg.Stripe.SecretKey != "" {
		infra.Gateway = paymentprovider.NewStripe(cfg.Stripe.SecretKey)
	}
	return infra, nil
}

// Services сервисный слой процесса.
type Services struct {
	Auth          *authservice.Service
	Catalog       *catalog.Service
	Ledger        *ledger.Service
	Subscriptions *subservice.Service
	Payments      *paymentservice.Service
	Content       *content.Service
	Stats         *stats.Service
	Scheduler     *scheduler.Service
	Tokens        *jwt.MakerImpl
	Sessions      *middlewarectx.Sessions
	Users         middlewarectx.UserGetter
	Pinger        health.Pinger
}

// NewServices создаёт сервисы поверх инфраструктуры.
func NewServices(cfg *config.Config, log *slog.Logger, infra Infra) *Services {
	store := infra.Store
	notify := notifier.New(log, store, infra.Publisher)
	tokens := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	return &Services{
		Auth:          authservice.New(log, store, tokens, notify, infra.Cache),
		Catalog:       catalog.New(log, store, infra.Cache, cfg.CatalogCacheTTL),
		Ledger:        ledger.New(log, store),
		Subscriptions: subservice.New(log, store, infra.Cache, notify),
		Payments:      paymentservice.New(log, store, infra.Gateway, cfg.Stripe.Currency),
		Content:       content.New(log, store),
		Stats:         stats.New(log, store, infra.Cache, cfg.StatsCacheTTL),
		Scheduler:     scheduler.New(log, store, notify, infra.Cache, cfg.Scheduler.RemindWithin),
		Tokens:        tokens,
		Sessions:      middlewarectx.NewSessions(cfg.Session),
		Users:         store,
		Pinger:        infra.Pinger,
	}
}

// Run запускает сервер и планировщик и блокируется до отмены ctx или
// ошибки сервера. Затем сервер останавливается с ожиданием активных запросов.
func (a *App) Run(ctx context.Context) error {
	const op = "app.storefront.Run"
	defer a.close()

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx, a.cfg.Scheduler.Spec); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer a.scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down HTTP server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.logger.Info("HTTP server stopped")
	return nil
}

// close освобождает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
