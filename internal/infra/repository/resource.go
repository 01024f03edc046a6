package repository

import (
	"context"
	"log/slog"
	"time"

	"turf-booking/internal/domain/resource"
	"turf-booking/internal/infra"
	"turf-booking/internal/infra/db"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var resourceColumns = []string{
	"id",
	"name",
	"location",
	"hourly_rate_cents",
	"created_at",
	"updated_at",
}

type ResourceRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewResourceRepository(dbtx db.DBTX, logger *slog.Logger) *ResourceRepository {
	return &ResourceRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	query, args, err := psql.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build resource select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to query resource", err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, scanResource)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find resource", err)
	}
	return res, nil
}

func (r *ResourceRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("resources").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build resource exists", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, infra.WrapPgErr(r.logger, "failed to check resource", err)
	}
	return exists, nil
}

func (r *ResourceRepository) List(ctx context.Context) ([]*resource.Resource, error) {
	query, args, err := psql.Select(resourceColumns...).
		From("resources").
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build resource list", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list resources", err)
	}
	list, err := pgx.CollectRows(rows, scanResource)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to scan resources", err)
	}
	return list, nil
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	query, args, err := psql.Insert("resources").
		Columns("id", "name", "location", "hourly_rate_cents").
		Values(res.ID(), res.Name(), res.Location(), res.HourlyRateCents()).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build resource insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapPgErr(r.logger, "failed to insert resource", err)
	}
	return nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	updatedAt := res.UpdatedAt()
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query, args, err := psql.Update("resources").
		Set("name", res.Name()).
		Set("location", res.Location()).
		Set("hourly_rate_cents", res.HourlyRateCents()).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": res.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build resource update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "resource not found", nil)
	}
	return nil
}

// Delete fails with FOREIGN_KEY_VIOLATED while reservations reference the resource.
func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build resource delete", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to delete resource", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "resource not found", nil)
	}
	return nil
}

func scanResource(row pgx.CollectableRow) (*resource.Resource, error) {
	var (
		id                   uuid.UUID
		name, location       string
		rateCents            int64
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &location, &rateCents, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return resource.ReconstructResource(id, name, location, rateCents, createdAt, updatedAt), nil
}
