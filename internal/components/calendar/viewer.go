package calendar

import (
	"context"
	"sync"

	"github.com/schoolofsharks/trainingcal/internal/observability"
)

// MonthLoader is the part of Service the Viewer drives.
type MonthLoader interface {
	Month(ctx context.Context, userID int64, year, month int) (*Month, error)
}

// Viewer follows one user navigating between months. Every Show call supersedes the previous
// one: the older load is cancelled and, if it still completes, its result is dropped with
// ErrStaleResponse instead of replacing the newer month.
type Viewer struct {
	loader MonthLoader

	mu      sync.Mutex
	latest  uint64
	cancel  context.CancelFunc
	current *Month
}

func NewViewer(loader MonthLoader) *Viewer {
	return &Viewer{loader: loader}
}

// Show requests a month and waits for it.
func (v *Viewer) Show(ctx context.Context, userID int64, year, month int) (*Month, error) {
	return v.Request(ctx, userID, year, month).Load()
}

// Request makes the month the latest one and cancels the load in flight. The order of Request
// calls decides which result is current, so callers that load in the background must call it
// before starting the goroutine that runs Load.
func (v *Viewer) Request(ctx context.Context, userID int64, year, month int) *PendingMonth {
	ctx, cancel := context.WithCancel(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.latest++
	if v.cancel != nil {
		v.cancel()
	}
	v.cancel = cancel

	return &PendingMonth{
		viewer: v,
		token:  v.latest,
		ctx:    ctx,
		cancel: cancel,
		userID: userID,
		year:   year,
		month:  month,
	}
}

// PendingMonth is a requested month that has not been loaded yet.
type PendingMonth struct {
	viewer *Viewer
	token  uint64
	ctx    context.Context
	cancel context.CancelFunc

	userID      int64
	year, month int
}

// Load fetches the month. It returns ErrStaleResponse when another month was requested after
// this one.
func (p *PendingMonth) Load() (*Month, error) {
	m, err := p.viewer.loader.Month(p.ctx, p.userID, p.year, p.month)
	return p.viewer.commit(p, m, err)
}

func (v *Viewer) commit(p *PendingMonth, m *Month, err error) (*Month, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p.token != v.latest {
		observability.RecordMonthLoad(observability.ResultStale, 0)
		return nil, ErrStaleResponse
	}
	p.cancel()
	v.cancel = nil
	if err != nil {
		return nil, err
	}
	v.current = m
	return m, nil
}

// Current returns the most recently shown month, or nil.
func (v *Viewer) Current() *Month {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}
