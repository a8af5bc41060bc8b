package mapview

import (
	"context"
	"sync"
	"time"

	"handsaround/internal/domain"
)

// GeoErrorCode mirrors the codes a device reports when it cannot produce a position.
type GeoErrorCode int

const (
	PermissionDenied    GeoErrorCode = 1
	PositionUnavailable GeoErrorCode = 2
	Timeout             GeoErrorCode = 3
	Unsupported         GeoErrorCode = 4
)

type GeoError struct {
	Code GeoErrorCode
}

func (e *GeoError) Error() string {
	switch e.Code {
	case PermissionDenied:
		return "Location permission denied by browser"
	case PositionUnavailable:
		return "Location information unavailable"
	case Timeout:
		return "Location request timed out"
	case Unsupported:
		return "Geolocation is not supported by your browser"
	default:
		return "Could not detect location"
	}
}

// Locator resolves the device position. Implementations must honor ctx.
type Locator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

type fix struct {
	pos domain.Coordinates
	at  time.Time
}

type outcome struct {
	pos domain.Coordinates
	err error
}

// ReportedLocator is fed by the device through Report and Fail.
// Locate returns a recent fix when one exists, otherwise it waits for the next report.
type ReportedLocator struct {
	mu      sync.Mutex
	last    *fix
	waiters []chan outcome
	maxAge  time.Duration
	now     func() time.Time
}

func NewReportedLocator(maxAge time.Duration) *ReportedLocator {
	return &ReportedLocator{maxAge: maxAge, now: time.Now}
}

// Report records a position and wakes pending Locate calls.
func (l *ReportedLocator) Report(pos domain.Coordinates) {
	l.mu.Lock()
	l.last = &fix{pos: pos, at: l.now()}
	waiters := l.waiters
	l.waiters = nil
	l.mu.Unlock()

	for _, w := range waiters {
		w <- outcome{pos: pos}
	}
}

// Fail delivers a geolocation error to pending Locate calls and drops any cached fix.
func (l *ReportedLocator) Fail(code GeoErrorCode) {
	l.mu.Lock()
	l.last = nil
	waiters := l.waiters
	l.waiters = nil
	l.mu.Unlock()

	for _, w := range waiters {
		w <- outcome{err: &GeoError{Code: code}}
	}
}

// Last returns the most recent fix regardless of age.
func (l *ReportedLocator) Last() (domain.Coordinates, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil {
		return domain.Coordinates{}, false
	}
	return l.last.pos, true
}

func (l *ReportedLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	l.mu.Lock()
	if l.last != nil && (l.maxAge <= 0 || l.now().Sub(l.last.at) <= l.maxAge) {
		pos := l.last.pos
		l.mu.Unlock()
		return pos, nil
	}
	ch := make(chan outcome, 1)
	l.waiters = append(l.waiters, ch)
	l.mu.Unlock()

	select {
	case o := <-ch:
		return o.pos, o.err
	case <-ctx.Done():
		l.drop(ch)
		return domain.Coordinates{}, &GeoError{Code: Timeout}
	}
}

func (l *ReportedLocator) drop(ch chan outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, w := range l.waiters {
		if w == ch {
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			return
		}
	}
}

// locate applies the timeout bound and maps a missing locator to Unsupported.
func locate(ctx context.Context, loc Locator, timeout time.Duration) (domain.Coordinates, error) {
	if loc == nil {
		return domain.Coordinates{}, &GeoError{Code: Unsupported}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return loc.Locate(ctx)
}
