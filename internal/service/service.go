package service

import (
	"context"
	"time"

	"handsaround/internal/domain"
)

// SessionStore holds the single authenticated user and mirrors it into local storage.
type SessionStore interface {
	CurrentUser() *domain.User
	Restore(ctx context.Context) *domain.User
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, signup domain.Signup) (*domain.User, error)
	Logout(ctx context.Context) error
	PurgeIfExpired(ctx context.Context, now time.Time) bool
}

// EventDirectory mirrors the backend's event collection.
type EventDirectory interface {
	Events() []domain.Event
	Get(id string) (domain.Event, bool)
	FetchEvents(ctx context.Context) ([]domain.Event, error)
	AddEvent(ctx context.Context, user *domain.User, fields domain.EventFields) (*domain.Event, error)
	DeleteEvent(ctx context.Context, user *domain.User, id string) error
	EditEvent(ctx context.Context, user *domain.User, id string, fields domain.EventFields) (*domain.Event, error)
}

// RegistrationLedger tracks which volunteer holds a slot on which event.
// Checks are client-side only; the backend remains the final arbiter.
type RegistrationLedger interface {
	RegisterForEvent(ctx context.Context, volunteer *domain.User, eventID string, form domain.RegistrationForm) (*domain.Registration, error)
	UnregisterFromEvent(ctx context.Context, volunteer *domain.User, eventID string) error
	GetEventRegistrations(eventID string) []domain.Registration
	IsRegistered(eventID, volunteerID string) bool
	SpotsRemaining(event domain.Event) int
	ForgetEvent(eventID string) int
}

// PreferenceStore keeps theme and location consent across restarts.
type PreferenceStore interface {
	Load(ctx context.Context) domain.Preferences
	Preferences() domain.Preferences
	SetTheme(ctx context.Context, theme domain.Theme) error
	SetLocationGranted(ctx context.Context, granted bool) error
}

// EventLookup is the slice of the directory the ledger needs for capacity checks.
type EventLookup interface {
	Get(id string) (domain.Event, bool)
}
