package shared

import (
	"context"
	"time"

	"turf-booking/internal/domain/reservation"
	"turf-booking/internal/domain/resource"
	"turf-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrLockNotAcquired = errs.New("slot lock not acquired")

type UnitOfWork interface {
	// Within: SERIALIZABLE transaction for writes, retried on serialization failure
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent snapshot across repositories
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single statements outside an explicit transaction
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Resources() ResourceRepository
	Idempotency() IdempotencyRepository
}

// Repositories return infra.RepositoryError values; callers branch on the kind.
type ReservationRepository interface {
	Insert(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ListByResource returns reservations ordered by start ascending.
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*reservation.Reservation, error)
	// ListByActor and ListAll return newest start first.
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*reservation.Reservation, error)
	ListAll(ctx context.Context) ([]*reservation.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*resource.Resource, error)
	Create(ctx context.Context, r *resource.Resource) error
	Update(ctx context.Context, r *resource.Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdempotencyRecord ties a client-chosen key to the booking it produced.
// Keys are scoped per actor and disappear with the booking.
type IdempotencyRecord struct {
	Key           uuid.UUID
	ActorID       uuid.UUID
	ReservationID uuid.UUID
	RequestHash   string
	CreatedAt     time.Time
}

type IdempotencyRepository interface {
	// Find returns a KindNotFound error when the actor never used the key.
	Find(ctx context.Context, actorID, key uuid.UUID) (*IdempotencyRecord, error)
	Insert(ctx context.Context, rec IdempotencyRecord) error
}

// SlotLocker serializes booking attempts for one resource. Unlock must be
// called exactly once on every path after a successful Lock.
type SlotLocker interface {
	Lock(ctx context.Context, resourceID uuid.UUID) (unlock func(), err error)
}
