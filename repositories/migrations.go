package repositories

import (
	"context"
	"database/sql"
	"embed"

	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/campuskit/grader-backend/utils"
)

// embed migrations sql folder
//
//go:embed migrations/*.sql
var embedMigrations embed.FS

func RunMigrations(ctx context.Context, connectionString string) error {
	logger := utils.LoggerFromContext(ctx)

	migrationDB, err := sql.Open("pgx", connectionString)
	if err != nil {
		return errors.Wrap(err, "unable to connect to database for migrations")
	}
	defer migrationDB.Close()

	if err := migrationDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "unable to ping database for migrations")
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "unable to set goose dialect")
	}

	logger.InfoContext(ctx, "Running migrations")
	if err := goose.UpContext(ctx, migrationDB, "migrations"); err != nil {
		return errors.Wrap(err, "error running migrations")
	}
	return nil
}
