// Package fitcoach собирает основное HTTP-приложение: хранилище, кэш,
// сервисы и маршруты.
package fitcoach

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/fitcoach-backend/internal/ai"
	"github.com/magabrotheeeer/fitcoach-backend/internal/cache"
	"github.com/magabrotheeeer/fitcoach-backend/internal/config"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/fitcoach-backend/internal/migrations"
	"github.com/magabrotheeeer/fitcoach-backend/internal/paymentprovider"
	assistantservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/assistant"
	authservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/auth"
	exerciseservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/exercise"
	paymentservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/payment"
	programservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/program"
	reviewservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/review"
	subscriptionservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/subscription"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

// App основное приложение FitCoach.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует хранилище, кэш, сервисы и HTTP-сервер приложения.
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

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gateway := paymentprovider.NewClient(cfg.ShopID, cfg.SecretKey, cfg.GatewayTimeout)
	aiClient := ai.NewClient(cfg.AIProviders, logger)

	authService := authservice.New(db, jwtMaker)
	subscriptionService := subscriptionservice.New(db, logger)
	paymentService := paymentservice.New(db, gateway, subscriptionService, logger)
	exerciseService := exerciseservice.New(db, cacheRedis, logger)
	assistantService := assistantservice.New(exerciseService, aiClient, logger)
	programService := programservice.New(db, logger)
	reviewService := reviewservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		authService, subscriptionService, paymentService,
		exerciseService, assistantService, programService, reviewService)

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
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
