package locker

import (
	"context"
	"sync"

	"turf-booking/internal/pkg/errs"
	"turf-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// LocalLocker is a keyed mutex for single-instance deployments. Entries are
// reference counted and dropped once no caller holds or waits on them.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[uuid.UUID]*slot)}
}

func (l *LocalLocker) Lock(ctx context.Context, resourceID uuid.UUID) (func(), error) {
	s := l.ref(resourceID)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(resourceID)
		return nil, errs.Mark(errs.Wrapf(ctx.Err(), "lock resource %s", resourceID), shared.ErrLockNotAcquired)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(resourceID)
		})
	}, nil
}

func (l *LocalLocker) ref(id uuid.UUID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[id]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[id] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[id]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, id)
	}
}

// held reports how many resources currently have an entry.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
