package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/campuskit/grader-backend/api"
	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/repositories"
	"github.com/campuskit/grader-backend/usecases"
	"github.com/campuskit/grader-backend/utils"
)

func RunServer() error {
	// This is where we read the environment variables and set up the configuration for the application.
	apiConfig := api.Configuration{
		Env:            utils.GetEnv("ENV", "development"),
		AppName:        "grader-backend",
		Port:           utils.GetRequiredEnv[string]("PORT"),
		GradingTimeout: time.Duration(utils.GetEnv("GRADING_TIMEOUT_SECOND", 120)) * time.Second,
		DefaultTimeout: time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 5)) * time.Second,
	}
	pgConfig := pgConfigFromEnv()
	graderConfig := graderConfigFromEnv()
	embeddingConfig := embeddingConfigFromEnv()
	sandboxConfig := sandboxConfigFromEnv()
	lmsConfig := lmsConfigFromEnv()

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig)
	if err != nil {
		logger.ErrorContext(ctx, "error creating postgres connection pool", "error", err.Error())
		return err
	}

	// The server only inserts jobs, it never works them, so an insert-only
	// client with an empty config is enough.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		logger.ErrorContext(ctx, "error creating river client", "error", err.Error())
		return err
	}

	repositories := repositories.NewRepositories(
		pool,
		embeddingConfig,
		sandboxConfig,
		lmsConfig,
		repositories.WithRiverClient(riverClient),
	)

	uc := usecases.NewUsecases(repositories, graderConfig, sandboxConfig)

	////////////////////////////////////////////////////////////
	// Seed the database
	////////////////////////////////////////////////////////////
	seedUsecase := uc.NewSeedUseCase()
	if err := seedUsecase.SeedDefaultPersonas(ctx); err != nil {
		logger.ErrorContext(ctx, "error seeding default personas", "error", err.Error())
		return err
	}

	if err := uc.MemoryUsecase().Hydrate(ctx); err != nil {
		logger.ErrorContext(ctx, "error hydrating the correction memory", "error", err.Error())
		return err
	}

	router := api.InitRouter(ctx, apiConfig, uc)
	server := api.NewServer(router, apiConfig)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "error while serving the app", "error", err.Error())
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "error while shutting down the server", "error", err.Error())
		return err
	}

	return nil
}
