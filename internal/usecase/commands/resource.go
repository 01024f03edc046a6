package commands

//go:generate mockgen -source=resource.go -destination=../../testutil/mock/commands/resource.go -package=commandsmock

import (
	"context"
	"log/slog"
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"
	"turf-booking/internal/domain/user"
	"turf-booking/internal/infra"
	"turf-booking/internal/pkg/clock"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/pkg/patch"
	"turf-booking/internal/usecase/queries"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateResourceParams struct {
	Name       string
	Location   string
	HourlyRate string
}

// UpdateResourceParams leaves nil fields unchanged.
type UpdateResourceParams struct {
	Name       *string
	Location   *string
	HourlyRate *string
}

type ResourceCommands interface {
	CreateResource(ctx context.Context, actor user.Actor, params CreateResourceParams) (*queries.ResourceView, error)
	UpdateResource(ctx context.Context, actor user.Actor, id uuid.UUID, params UpdateResourceParams) (*queries.ResourceView, error)
	DeleteResource(ctx context.Context, actor user.Actor, id uuid.UUID) error
}

type resourceCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	timeout time.Duration
	logger  *slog.Logger
}

func NewResourceCommands(uow shared.UnitOfWork, clock clock.Clock, cfg config.Config, logger *slog.Logger) ResourceCommands {
	return &resourceCommandsImpl{
		uow:     uow,
		clock:   clock,
		timeout: cfg.DB.OperationTimeout,
		logger:  logger,
	}
}

func (c *resourceCommandsImpl) CreateResource(
	ctx context.Context,
	actor user.Actor,
	params CreateResourceParams,
) (*queries.ResourceView, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	rate, err := reservation.ParseMoney(params.HourlyRate)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidResource)
	}
	entity, err := resource.NewResource(uuid.New(), params.Name, params.Location, rate.Cents())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidResource)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var created *resource.Resource
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Resources().Create(ctx, entity); err != nil {
			return err
		}
		// Read back for store-assigned timestamps.
		var err error
		created, err = tx.Resources().FindByID(ctx, entity.ID())
		return err
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, nil)
	}

	c.logger.Info("resource created", "resource_id", created.ID(), "name", created.Name(), "actor_id", actor.ID())
	return queries.NewResourceView(created), nil
}

// UpdateResource changes attributes of a resource. Existing reservations
// keep the cost computed when they were booked.
func (c *resourceCommandsImpl) UpdateResource(
	ctx context.Context,
	actor user.Actor,
	id uuid.UUID,
	params UpdateResourceParams,
) (*queries.ResourceView, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		updated     *resource.Resource
		renamed     bool
		rateChanged bool
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Resources().FindByID(ctx, id)
		if err != nil {
			return shared.TranslateStoreErr(err, errs.ErrResourceNotFound)
		}
		renamed = patch.Changed(params.Name, current.Name())

		rateCents := current.HourlyRateCents()
		if params.HourlyRate != nil {
			rate, err := reservation.ParseMoney(*params.HourlyRate)
			if err != nil {
				return errs.Mark(err, errs.ErrInvalidResource)
			}
			rateCents = rate.Cents()
		}
		rateChanged = rateCents != current.HourlyRateCents()

		err = current.Update(
			patch.Coalesce(params.Name, current.Name()),
			patch.Coalesce(params.Location, current.Location()),
			rateCents,
			c.clock.Now(),
		)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidResource)
		}
		if err := tx.Resources().Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, shared.TranslateStoreErr(err, errs.ErrResourceNotFound)
	}

	c.logger.Info("resource updated",
		"resource_id", id,
		"renamed", renamed,
		"rate_changed", rateChanged,
		"actor_id", actor.ID())
	return queries.NewResourceView(updated), nil
}

func (c *resourceCommandsImpl) DeleteResource(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Resources().Delete(ctx, id)
	})
	if infra.IsKind(err, infra.KindForeignKeyViolated) {
		return errs.Mark(err, errs.ErrResourceInUse)
	}
	if err != nil {
		return shared.TranslateStoreErr(err, errs.ErrResourceNotFound)
	}

	c.logger.Info("resource deleted", "resource_id", id, "actor_id", actor.ID())
	return nil
}
