package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/jobs"
	"github.com/campuskit/grader-backend/repositories"
	"github.com/campuskit/grader-backend/usecases"
	"github.com/campuskit/grader-backend/utils"
)

func RunTaskQueue() error {
	pgConfig := pgConfigFromEnv()
	graderConfig := graderConfigFromEnv()
	embeddingConfig := embeddingConfigFromEnv()
	sandboxConfig := sandboxConfigFromEnv()
	lmsConfig := lmsConfigFromEnv()
	maxConcurrentPasses := utils.GetEnv("WORKER_MAX_CONCURRENT_PASSES", 10)

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig)
	if err != nil {
		logger.ErrorContext(ctx, "error creating postgres connection pool", "error", err.Error())
		return err
	}

	// First, create an insert-only client to pass to the repos. Later we create another client
	// with the queue and worker configuration, but we need working repos first. It's a bit
	// awkward but it's a consequence of the fact that river uses the same client for job
	// insertion and job running.
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

	if err := uc.MemoryUsecase().Hydrate(ctx); err != nil {
		logger.ErrorContext(ctx, "error hydrating the correction memory", "error", err.Error())
		return err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewGradingPassWorker(uc))
	river.AddWorker(workers, jobs.NewLmsSyncWorker(uc))

	riverClient, err = river.NewClient(riverpgxv5.New(pool), &river.Config{
		FetchPollInterval: 100 * time.Millisecond,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxConcurrentPasses},
		},

		// Must be larger than the time it takes to process a job. A grading pass fans out to
		// several model calls, so give it some headroom.
		RescueStuckJobsAfter: 10 * time.Minute,
		WorkerMiddleware: []rivertype.WorkerMiddleware{
			jobs.NewLoggerMiddleware(logger),
			jobs.NewRecoveredMiddleware(),
		},
		Workers: workers,
	})
	if err != nil {
		logger.ErrorContext(ctx, "error creating river client", "error", err.Error())
		return err
	}

	if err := riverClient.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "error starting river client", "error", err.Error())
		return err
	}

	// Teardown sequence
	sigintOrTerm := make(chan os.Signal, 1)
	signal.Notify(sigintOrTerm, syscall.SIGINT, syscall.SIGTERM)

	go cleanStop(ctx, sigintOrTerm, riverClient)

	<-riverClient.Stopped()
	logger.InfoContext(ctx, "River client stopped")

	return nil
}

// This stop goroutine waits for SIGINT/SIGTERM and when received, tries to stop
// gracefully by allowing a chance for jobs to finish. But if that isn't
// working, a second SIGINT/SIGTERM will tell it to terminate with prejudice and
// it'll issue a hard stop that cancels the context of all active jobs. In
// case that doesn't work, a third SIGINT/SIGTERM ignores River's stop procedure
// completely and exits uncleanly.
func cleanStop(ctx context.Context, sigintOrTerm chan os.Signal, riverClient *river.Client[pgx.Tx]) {
	logger := utils.LoggerFromContext(ctx)
	<-sigintOrTerm
	logger.InfoContext(ctx, "Received SIGINT/SIGTERM; initiating soft stop (try to wait for jobs to finish)")

	softStopCtx, softStopCtxCancel := context.WithTimeout(ctx, 5*time.Second)
	defer softStopCtxCancel()

	go func() {
		select {
		case <-sigintOrTerm:
			logger.InfoContext(ctx, "Received SIGINT/SIGTERM again; initiating hard stop (cancel everything)")
			softStopCtxCancel()
		case <-softStopCtx.Done():
			logger.InfoContext(ctx, "Soft stop timeout; initiating hard stop (cancel everything)")
		}
	}()

	err := riverClient.Stop(softStopCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Soft stop failed", "error", err)
		panic(err)
	}
	if err == nil {
		logger.InfoContext(ctx, "Soft stop succeeded")
		return
	}

	hardStopCtx, hardStopCtxCancel := context.WithTimeout(ctx, 10*time.Second)
	defer hardStopCtxCancel()

	// As long as all jobs respect context cancellation, StopAndCancel will
	// always work. However, in the case of a bug where a job blocks despite
	// being cancelled, it may be necessary to either ignore River's stop
	// result (what's shown here) or have a supervisor kill the process.
	err = riverClient.StopAndCancel(hardStopCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		logger.InfoContext(ctx, "Hard stop timeout; ignoring stop procedure and exiting unsafely")
	} else if err != nil {
		panic(err)
	}
	// hard stop succeeded
}
