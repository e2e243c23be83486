package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRunInProgress is returned when another run holds the same lease.
var ErrRunInProgress = errors.New("sync run already in progress")

// Lease names. Importers and the matcher share one lease since both resolve duplicates.
const (
	LeaseIngest = "places-ingest"
	LeaseSweep  = "places-sweep"
)

// RunLocker grants exclusive, named run leases held for a whole run.
type RunLocker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// LocalRunLocker excludes concurrent runs inside one process.
type LocalRunLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalRunLocker returns an empty in-process locker.
func NewLocalRunLocker() *LocalRunLocker {
	return &LocalRunLocker{held: make(map[string]bool)}
}

// Acquire takes the lease or fails fast with ErrRunInProgress.
func (l *LocalRunLocker) Acquire(ctx context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, ErrRunInProgress
	}
	l.held[name] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, nil
}

// AdvisoryLocker is implemented by repository.AdvisoryLocker.
type AdvisoryLocker interface {
	TryLock(ctx context.Context, name string) (release func(), ok bool, err error)
}

// AdvisoryRunLocker adapts a database advisory lock so that separate processes exclude each
// other.
type AdvisoryRunLocker struct {
	locker AdvisoryLocker
}

// NewAdvisoryRunLocker wraps locker.
func NewAdvisoryRunLocker(locker AdvisoryLocker) *AdvisoryRunLocker {
	return &AdvisoryRunLocker{locker: locker}
}

// Acquire takes the advisory lock or returns ErrRunInProgress when it is held elsewhere.
func (a *AdvisoryRunLocker) Acquire(ctx context.Context, name string) (func(), error) {
	release, ok, err := a.locker.TryLock(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("acquire run lease %q: %w", name, err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return release, nil
}

// ChainRunLocker acquires every locker in order and releases them in reverse.
type ChainRunLocker []RunLocker

// Acquire succeeds only if every locker grants the lease.
func (c ChainRunLocker) Acquire(ctx context.Context, name string) (func(), error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, locker := range c {
		release, err := locker.Acquire(ctx, name)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
