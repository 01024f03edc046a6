package commands

//go:generate mockgen -source=booking.go -destination=../../testutil/mock/commands/booking.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"
	"turf-booking/internal/domain/user"
	"turf-booking/internal/infra"
	"turf-booking/internal/pkg/clock"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/pkg/metrics"
	"turf-booking/internal/usecase/queries"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	ResourceID     uuid.UUID
	StartText      string
	DurationHours  int
	// IdempotencyKey is optional; uuid.Nil disables replay detection.
	IdempotencyKey uuid.UUID
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor user.Actor, params CreateBookingParams) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, actor user.Actor, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	locker   shared.SlotLocker
	factory  *reservation.Factory
	clock    clock.Clock
	location *time.Location
	timeout  time.Duration
	metrics  metrics.Recorder
	logger   *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	locker shared.SlotLocker,
	factory *reservation.Factory,
	clock clock.Clock,
	cfg config.Config,
	recorder metrics.Recorder,
	logger *slog.Logger,
) (BookingCommands, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return &bookingCommandsImpl{
		uow:      uow,
		locker:   locker,
		factory:  factory,
		clock:    clock,
		location: loc,
		timeout:  cfg.DB.OperationTimeout,
		metrics:  recorder,
		logger:   logger,
	}, nil
}

func (c *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	actor user.Actor,
	params CreateBookingParams,
) (*queries.BookingView, error) {
	began := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	view, replayed, err := c.createBooking(ctx, actor, params)

	c.metrics.ObserveOperation("create_booking", shared.Reason(err), time.Since(began))
	if err != nil {
		c.metrics.BookingRejected(shared.Reason(err))
		c.logger.Info("booking rejected",
			"actor_id", actor.ID(),
			"resource_id", params.ResourceID,
			"start", params.StartText,
			"duration_hours", params.DurationHours,
			"reason", shared.Reason(err))
		return nil, err
	}
	if replayed {
		c.logger.Info("booking replayed",
			"booking_id", view.ID,
			"actor_id", view.ActorID,
			"idempotency_key", params.IdempotencyKey)
		return view, nil
	}

	c.metrics.BookingCreated(view.ResourceID.String())
	c.logger.Info("booking created",
		"booking_id", view.ID,
		"actor_id", view.ActorID,
		"resource_id", view.ResourceID,
		"total_cost", view.TotalCost)
	return view, nil
}

// createBooking short-circuits on the first failing check, in order. A
// request whose idempotency key already produced a booking gets that booking
// back as a replay, before any validation runs.
func (c *bookingCommandsImpl) createBooking(
	ctx context.Context,
	actor user.Actor,
	params CreateBookingParams,
) (*queries.BookingView, bool, error) {
	hash := requestHash(params)
	if params.IdempotencyKey != uuid.Nil {
		prior, err := c.replay(ctx, actor, params.IdempotencyKey, hash)
		if err != nil || prior != nil {
			return prior, prior != nil, err
		}
	}

	if err := reservation.ValidateDuration(params.DurationHours); err != nil {
		return nil, false, errs.Mark(err, errs.ErrDuration)
	}

	turf, err := c.getResource(ctx, params.ResourceID)
	if err != nil {
		return nil, false, err
	}

	start, err := reservation.ParseStart(params.StartText, c.location)
	if err != nil {
		return nil, false, errs.Mark(err, errs.ErrParse)
	}
	interval, err := reservation.NewInterval(start, params.DurationHours)
	if err != nil {
		return nil, false, errs.Mark(err, errs.ErrDuration)
	}
	if err := reservation.ValidateFuture(interval, c.clock.Now()); err != nil {
		return nil, false, errs.Mark(err, errs.ErrPastBooking)
	}

	unlock, err := c.locker.Lock(ctx, turf.ID())
	if err != nil {
		return nil, false, errs.Mark(err, errs.ErrPersistence)
	}
	defer unlock()

	var (
		created  *reservation.Reservation
		replayed bool
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, replayed = nil, false

		// A concurrent request with the same key may have committed since the
		// replay check above.
		if params.IdempotencyKey != uuid.Nil {
			prior, err := priorBooking(ctx, tx, actor.ID(), params.IdempotencyKey, hash)
			if err != nil {
				return err
			}
			if prior != nil {
				created, replayed = prior, true
				return nil
			}
		}

		conflict, err := HasConflict(ctx, tx, turf.ID(), interval)
		if err != nil {
			return err
		}
		if conflict {
			return errs.ErrSlotConflict
		}

		res, err := c.factory.CreateReservation(turf, actor.ID(), interval)
		if err != nil {
			return errs.Wrap(err, "build reservation")
		}
		if err := tx.Reservations().Insert(ctx, res); err != nil {
			return err
		}
		if params.IdempotencyKey != uuid.Nil {
			rec := shared.IdempotencyRecord{
				Key:           params.IdempotencyKey,
				ActorID:       actor.ID(),
				ReservationID: res.ID(),
				RequestHash:   hash,
				CreatedAt:     c.clock.Now(),
			}
			if err := tx.Idempotency().Insert(ctx, rec); err != nil {
				return err
			}
		}
		created = res
		return nil
	})
	if err != nil {
		// The resource was deleted after the registry lookup.
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, false, errs.Mark(err, errs.ErrResourceNotFound)
		}
		return nil, false, shared.TranslateStoreErr(err, nil)
	}

	return queries.NewBookingView(created, turf), replayed, nil
}

// replay looks the key up without taking the slot lock. It returns nil when
// the key is unused.
func (c *bookingCommandsImpl) replay(
	ctx context.Context,
	actor user.Actor,
	key uuid.UUID,
	hash string,
) (*queries.BookingView, error) {
	var view *queries.BookingView
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		prior, err := priorBooking(ctx, tx, actor.ID(), key, hash)
		if err != nil || prior == nil {
			return err
		}
		turf, err := tx.Resources().FindByID(ctx, prior.ResourceID())
		if err != nil {
			return err
		}
		view = queries.NewBookingView(prior, turf)
		return nil
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, nil)
	}
	return view, nil
}

func priorBooking(
	ctx context.Context,
	tx shared.Tx,
	actorID, key uuid.UUID,
	hash string,
) (*reservation.Reservation, error) {
	rec, err := tx.Idempotency().Find(ctx, actorID, key)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.RequestHash != hash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	return tx.Reservations().FindByID(ctx, rec.ReservationID)
}

// requestHash fingerprints everything but the key itself.
func requestHash(params CreateBookingParams) string {
	params.IdempotencyKey = uuid.Nil
	data, _ := json.Marshal(params)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *bookingCommandsImpl) getResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	var turf *resource.Resource
	err := c.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		turf, err = tx.Resources().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, errs.ErrResourceNotFound)
	}
	return turf, nil
}

// CancelBooking deletes the actor's own booking before it starts. It takes
// no resource lock: deleting never creates an overlap.
func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, actor user.Actor, bookingID uuid.UUID) error {
	began := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, bookingID)
		if err != nil {
			return shared.TranslateStoreErr(err, errs.ErrBookingNotFound)
		}
		if !res.IsOwnedBy(actor.ID()) {
			return errs.ErrNotOwner
		}
		if res.HasStarted(c.clock.Now()) {
			return errs.ErrPastBooking
		}
		return tx.Reservations().Delete(ctx, bookingID)
	})
	err = shared.TranslateStoreErr(err, errs.ErrBookingNotFound)

	c.metrics.ObserveOperation("cancel_booking", shared.Reason(err), time.Since(began))
	if err != nil {
		c.logger.Info("cancellation rejected",
			"actor_id", actor.ID(),
			"booking_id", bookingID,
			"reason", shared.Reason(err))
		return err
	}

	c.metrics.BookingCancelled()
	c.logger.Info("booking cancelled", "booking_id", bookingID, "actor_id", actor.ID())
	return nil
}
