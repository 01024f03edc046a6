package memstore

import (
	"context"
	"sort"
	"time"

	"turf-booking/internal/domain/resource"
	"turf-booking/internal/infra"

	"github.com/google/uuid"
)

type resourceRepository struct {
	tx *memTx
}

func (r *resourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to find resource", err)
	}
	row, ok := r.tx.state.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "resource not found", nil)
	}
	return row.toDomain(), nil
}

func (r *resourceRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to check resource", err)
	}
	_, ok := r.tx.state.resources[id]
	return ok, nil
}

func (r *resourceRepository) List(ctx context.Context) ([]*resource.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to list resources", err)
	}
	rows := make([]resourceRow, 0, len(r.tx.state.resources))
	for _, row := range r.tx.state.resources {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].id.String() < rows[j].id.String()
	})

	out := make([]*resource.Resource, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *resourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	if err := r.tx.writable("create resource"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to create resource", err)
	}
	if _, ok := r.tx.state.resources[res.ID()]; ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindDuplicateKey, "resource already exists", nil)
	}
	row := resourceToRow(res)
	if row.createdAt.IsZero() {
		row.createdAt = time.Now().UTC()
	}
	if row.updatedAt.IsZero() {
		row.updatedAt = row.createdAt
	}
	r.tx.state.resources[res.ID()] = row
	return nil
}

func (r *resourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	if err := r.tx.writable("update resource"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to update resource", err)
	}
	current, ok := r.tx.state.resources[res.ID()]
	if !ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "resource not found", nil)
	}
	row := resourceToRow(res)
	row.createdAt = current.createdAt
	if row.updatedAt.IsZero() {
		row.updatedAt = time.Now().UTC()
	}
	r.tx.state.resources[res.ID()] = row
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.tx.writable("delete resource"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr(r.tx.logger, infra.KindTimeout, "failed to delete resource", err)
	}
	if _, ok := r.tx.state.resources[id]; !ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "resource not found", nil)
	}
	for _, row := range r.tx.state.reservations {
		if row.resourceID == id {
			return infra.WrapRepoErr(r.tx.logger, infra.KindForeignKeyViolated, "resource still has reservations", nil)
		}
	}
	delete(r.tx.state.resources, id)
	return nil
}
