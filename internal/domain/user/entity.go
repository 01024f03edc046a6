package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidActorID = errors.New("actor id cannot be empty")

// Actor is the authenticated caller handed over by the identity provider.
// Profile data (name, email, credentials) stays with the provider.
type Actor struct {
	id   uuid.UUID
	role Role
}

func NewActor(id uuid.UUID, role Role) (Actor, error) {
	if id == uuid.Nil {
		return Actor{}, ErrInvalidActorID
	}
	if !role.IsValid() {
		return Actor{}, ErrInvalidRole
	}
	return Actor{id: id, role: role}, nil
}

func (a Actor) ID() uuid.UUID { return a.id }
func (a Actor) Role() Role    { return a.role }
func (a Actor) IsAdmin() bool { return a.role == RoleAdmin }
