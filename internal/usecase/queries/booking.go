package queries

//go:generate mockgen -source=booking.go -destination=../../testutil/mock/queries/booking.go -package=queriesmock

import (
	"context"
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"
	"turf-booking/internal/domain/user"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingQueries interface {
	// GetByID is allowed for the owner and for administrators.
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error)
	// ListForResource returns the resource's reservations by start time.
	ListForResource(ctx context.Context, resourceID uuid.UUID) ([]*BookingView, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*BookingView, error)
	ListAll(ctx context.Context, actor user.Actor) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	uow     shared.UnitOfWork
	timeout time.Duration
}

func NewBookingQueries(uow shared.UnitOfWork, cfg config.Config) BookingQueries {
	return &bookingQueriesImpl{
		uow:     uow,
		timeout: cfg.DB.OperationTimeout,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	var view *BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			return shared.TranslateStoreErr(err, errs.ErrBookingNotFound)
		}
		if !res.IsOwnedBy(actor.ID()) && !actor.IsAdmin() {
			return errs.ErrNotOwner
		}
		views, err := enrich(ctx, tx, []*reservation.Reservation{res})
		if err != nil {
			return err
		}
		view = views[0]
		return nil
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, nil)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListForResource(ctx context.Context, resourceID uuid.UUID) ([]*BookingView, error) {
	return q.list(ctx, func(ctx context.Context, tx shared.Tx) ([]*reservation.Reservation, error) {
		exists, err := tx.Resources().Exists(ctx, resourceID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errs.ErrResourceNotFound
		}
		return tx.Reservations().ListByResource(ctx, resourceID)
	})
}

func (q *bookingQueriesImpl) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*BookingView, error) {
	return q.list(ctx, func(ctx context.Context, tx shared.Tx) ([]*reservation.Reservation, error) {
		return tx.Reservations().ListByActor(ctx, actorID)
	})
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, actor user.Actor) ([]*BookingView, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return q.list(ctx, func(ctx context.Context, tx shared.Tx) ([]*reservation.Reservation, error) {
		return tx.Reservations().ListAll(ctx)
	})
}

func (q *bookingQueriesImpl) list(
	ctx context.Context,
	load func(ctx context.Context, tx shared.Tx) ([]*reservation.Reservation, error),
) ([]*BookingView, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	var views []*BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		list, err := load(ctx, tx)
		if err != nil {
			return err
		}
		views, err = enrich(ctx, tx, list)
		return err
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, nil)
	}
	return views, nil
}

// enrich attaches resource name and location, reading each resource once.
func enrich(ctx context.Context, tx shared.Tx, list []*reservation.Reservation) ([]*BookingView, error) {
	cache := make(map[uuid.UUID]*resource.Resource)
	views := make([]*BookingView, 0, len(list))

	for _, res := range list {
		r, ok := cache[res.ResourceID()]
		if !ok {
			var err error
			r, err = tx.Resources().FindByID(ctx, res.ResourceID())
			if err != nil {
				return nil, err
			}
			cache[res.ResourceID()] = r
		}
		views = append(views, NewBookingView(res, r))
	}
	return views, nil
}
