package service

import (
	"context"
	"errors"
	"sync"

	"handsaround/internal/backend"
	"handsaround/internal/domain"
	"handsaround/internal/logger"
)

type eventDirectory struct {
	mu     sync.RWMutex
	events []domain.Event
	client backend.Client
}

func NewEventDirectory(client backend.Client) EventDirectory {
	return &eventDirectory{client: client}
}

func (d *eventDirectory) Events() []domain.Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Event, len(d.events))
	copy(out, d.events)
	return out
}

func (d *eventDirectory) Get(id string) (domain.Event, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Event{}, false
}

// FetchEvents replaces the whole collection with the backend's snapshot.
// On failure the previous collection is kept.
func (d *eventDirectory) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := d.client.ListEvents(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Fetching events failed", "error", err)
		return nil, err
	}

	d.mu.Lock()
	d.events = events
	d.mu.Unlock()
	logger.Debug("Event directory refreshed", "count", len(events))
	return d.Events(), nil
}

func (d *eventDirectory) AddEvent(ctx context.Context, user *domain.User, fields domain.EventFields) (*domain.Event, error) {
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !user.IsNGO() {
		return nil, domain.NewError(domain.KindForbidden, "only NGOs can post events", nil)
	}
	fields.Normalize()
	if err := domain.Validate(&fields); err != nil {
		return nil, err
	}

	ev, err := d.client.CreateEvent(ctx, user.AuthToken, *user, fields)
	if err != nil {
		logger.ErrorContext(ctx, "Add event failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	d.mu.Lock()
	d.events = append(d.events, *ev)
	d.mu.Unlock()
	logger.Info("Event added", "event_id", ev.ID, "user_id", user.ID)
	return ev, nil
}

// DeleteEvent leaves ownership to the backend. A backend "not found" also
// drops the stale local copy before reporting the failure.
func (d *eventDirectory) DeleteEvent(ctx context.Context, user *domain.User, id string) error {
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	if !user.IsNGO() {
		return domain.NewError(domain.KindForbidden, "only NGOs can delete events", nil)
	}

	err := d.client.DeleteEvent(ctx, user.AuthToken, id)
	if err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		logger.ErrorContext(ctx, "Delete event failed", "event_id", id, "error", err)
		return err
	}

	d.mu.Lock()
	kept := d.events[:0:0]
	for _, e := range d.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	d.events = kept
	d.mu.Unlock()

	if err != nil {
		return err
	}
	logger.Info("Event deleted", "event_id", id, "user_id", user.ID)
	return nil
}

// EditEvent is not offered yet; the backend has no update endpoint.
func (d *eventDirectory) EditEvent(ctx context.Context, user *domain.User, id string, fields domain.EventFields) (*domain.Event, error) {
	return nil, domain.NewError(domain.KindNotImplemented, "editing events is coming soon", nil)
}
