package queries

//go:generate mockgen -source=resource.go -destination=../../testutil/mock/queries/resource.go -package=queriesmock

import (
	"context"
	"time"

	"turf-booking/internal/domain/resource"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// ResourceQueries is the resource registry read side.
type ResourceQueries interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	List(ctx context.Context) ([]*ResourceView, error)
}

type resourceQueriesImpl struct {
	uow     shared.UnitOfWork
	timeout time.Duration
}

func NewResourceQueries(uow shared.UnitOfWork, cfg config.Config) ResourceQueries {
	return &resourceQueriesImpl{
		uow:     uow,
		timeout: cfg.DB.OperationTimeout,
	}
}

func (q *resourceQueriesImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	var exists bool
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		exists, err = tx.Resources().Exists(ctx, id)
		return err
	})
	if err != nil {
		return false, shared.TranslateStoreErr(err, nil)
	}
	return exists, nil
}

func (q *resourceQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*ResourceView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	var r *resource.Resource
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		r, err = tx.Resources().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.Wrapf(shared.TranslateStoreErr(err, errs.ErrResourceNotFound), "get resource %s", id)
	}
	return NewResourceView(r), nil
}

func (q *resourceQueriesImpl) List(ctx context.Context) ([]*ResourceView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	var list []*resource.Resource
	err := q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		list, err = tx.Resources().List(ctx)
		return err
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, nil)
	}

	views := make([]*ResourceView, 0, len(list))
	for _, r := range list {
		views = append(views, NewResourceView(r))
	}
	return views, nil
}
