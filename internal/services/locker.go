package services

import (
	"context"
	"fmt"
	"sync"

	"cart-discount-service/internal/models"
)

// MemoryLocker serializes cart mutations within one process
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[int]*cartLock
}

type cartLock struct {
	sem  chan struct{}
	refs int
}

// NewMemoryLocker creates a new in-process cart locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[int]*cartLock)}
}

// Lock waits for the cart's lock or for ctx to end
func (l *MemoryLocker) Lock(ctx context.Context, cartID int) (func(), error) {
	l.mu.Lock()
	cl, ok := l.locks[cartID]
	if !ok {
		cl = &cartLock{sem: make(chan struct{}, 1)}
		l.locks[cartID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	select {
	case cl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(cartID, cl)
		return nil, fmt.Errorf("%w: cart %d: %v", models.ErrCartBusy, cartID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-cl.sem
			l.release(cartID, cl)
		})
	}, nil
}

func (l *MemoryLocker) release(cartID int, cl *cartLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl.refs--
	if cl.refs == 0 {
		delete(l.locks, cartID)
	}
}
