package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/campuskit/grader-backend/models"
)

func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func ExecBuilder(ctx context.Context, exec Executor, builder squirrel.Sqlizer) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Wrap(err, "can't build sql query")
	}
	_, err = exec.Exec(ctx, query, args...)
	return errors.Wrap(err, "error executing sql query")
}

func ForEachRow(ctx context.Context, exec Executor, query squirrel.Sqlizer, fn func(row pgx.CollectableRow) error) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "can't build sql query")
	}

	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return errors.Wrap(err, "error executing sql query")
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return errors.Wrap(rows.Err(), "error iterating over rows")
}

// SqlToListOfModels executes the query and adapts every row into a domain model.
func SqlToListOfModels[DBModel, Model any](
	ctx context.Context,
	exec Executor,
	query squirrel.Sqlizer,
	adapter func(dbModel DBModel) (Model, error),
) ([]Model, error) {
	out := make([]Model, 0)
	err := ForEachRow(ctx, exec, query, func(row pgx.CollectableRow) error {
		dbModel, err := pgx.RowToStructByName[DBModel](row)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("error scanning row to struct %T", dbModel))
		}
		model, err := adapter(dbModel)
		if err != nil {
			return err
		}
		out = append(out, model)
		return nil
	})
	return out, err
}

// SqlToModel expects exactly one row; no row maps to models.NotFoundError.
func SqlToModel[DBModel, Model any](
	ctx context.Context,
	exec Executor,
	query squirrel.Sqlizer,
	adapter func(dbModel DBModel) (Model, error),
) (Model, error) {
	var zero Model
	list, err := SqlToListOfModels(ctx, exec, query, adapter)
	if err != nil {
		return zero, err
	}
	if len(list) == 0 {
		return zero, errors.Wrap(models.NotFoundError, "no row found")
	}
	if len(list) > 1 {
		return zero, errors.Newf("expected 1 row, got %d", len(list))
	}
	return list[0], nil
}

// SqlToOptionalModel expects zero or one row; no row maps to a nil pointer.
func SqlToOptionalModel[DBModel, Model any](
	ctx context.Context,
	exec Executor,
	query squirrel.Sqlizer,
	adapter func(dbModel DBModel) (Model, error),
) (*Model, error) {
	list, err := SqlToListOfModels(ctx, exec, query, adapter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if len(list) > 1 {
		return nil, errors.Newf("expected at most 1 row, got %d", len(list))
	}
	return &list[0], nil
}
