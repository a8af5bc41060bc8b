package service

import (
	"context"
	"math/rand/v2"
	"time"

	"handsaround/internal/backend"
	"handsaround/internal/domain"
	"handsaround/internal/logger"
	"handsaround/internal/security"
	"handsaround/internal/storage"
)

// AppState is the Application State handed to every page controller.
// It is constructed once and passed explicitly; there is no package-level instance.
type AppState struct {
	Session       SessionStore
	Events        EventDirectory
	Registrations RegistrationLedger
	Preferences   PreferenceStore

	inflight  *InFlight
	now       func() time.Time
	pickPhoto func(n int) int
}

// EventView is an event as a page shows it: with its live slot count.
type EventView struct {
	domain.Event
	Registered     int  `json:"registered"`
	SpotsRemaining int  `json:"spotsRemaining"`
	RegisteredByMe bool `json:"registeredByMe"`
	Full           bool `json:"full"`
}

// HomeStats are the counters on the home page.
type HomeStats struct {
	ActiveEvents   int         `json:"activeEvents"`
	UpcomingEvents int         `json:"upcomingEvents"`
	Role           domain.Role `json:"role"`
}

func NewAppState(client backend.Client, store storage.LocalStore, inspector security.TokenInspector) *AppState {
	events := NewEventDirectory(client)
	return &AppState{
		Session:       NewSessionStore(client, store, inspector),
		Events:        events,
		Registrations: NewRegistrationLedger(events),
		Preferences:   NewPreferenceStore(store),
		inflight:      NewInFlight(),
		now:           time.Now,
		pickPhoto:     rand.IntN,
	}
}

// Start restores the persisted session and preferences and loads the first event snapshot.
// An unreachable backend is logged; the directory simply starts empty.
func (a *AppState) Start(ctx context.Context) {
	a.Session.Restore(ctx)
	a.Preferences.Load(ctx)
	if _, err := a.Events.FetchEvents(ctx); err != nil {
		logger.Warn("Initial event fetch failed", "error", err)
	}
}

func (a *AppState) User() *domain.User {
	return a.Session.CurrentUser()
}

func (a *AppState) guard(key string, fn func() error) error {
	release, err := a.inflight.Begin(key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (a *AppState) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var u *domain.User
	err := a.guard("login", func() (err error) {
		u, err = a.Session.Login(ctx, email, password)
		return err
	})
	return u, err
}

func (a *AppState) Register(ctx context.Context, signup domain.Signup) (*domain.User, error) {
	var u *domain.User
	err := a.guard("register", func() (err error) {
		u, err = a.Session.Register(ctx, signup)
		return err
	})
	return u, err
}

func (a *AppState) Logout(ctx context.Context) error {
	return a.Session.Logout(ctx)
}

func (a *AppState) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := a.guard("fetch-events", func() (err error) {
		events, err = a.Events.FetchEvents(ctx)
		return err
	})
	return events, err
}

// AddEvent posts an event for the signed-in NGO, choosing a stock photo when none was given.
func (a *AppState) AddEvent(ctx context.Context, fields domain.EventFields) (*domain.Event, error) {
	user := a.User()
	if fields.PhotoURL == "" && len(domain.DefaultPhotoURLs) > 0 {
		fields.PhotoURL = domain.DefaultPhotoURLs[a.pickPhoto(len(domain.DefaultPhotoURLs))]
	}
	var ev *domain.Event
	err := a.guard("add-event", func() (err error) {
		ev, err = a.Events.AddEvent(ctx, user, fields)
		return err
	})
	return ev, err
}

// DeleteEvent removes the event and the local registrations that pointed at it.
func (a *AppState) DeleteEvent(ctx context.Context, id string) error {
	return a.guard("delete-event:"+id, func() error {
		err := a.Events.DeleteEvent(ctx, a.User(), id)
		if _, still := a.Events.Get(id); !still {
			if n := a.Registrations.ForgetEvent(id); n > 0 {
				logger.Debug("Dropped registrations of deleted event", "event_id", id, "count", n)
			}
		}
		return err
	})
}

func (a *AppState) EditEvent(ctx context.Context, id string, fields domain.EventFields) (*domain.Event, error) {
	return a.Events.EditEvent(ctx, a.User(), id, fields)
}

func (a *AppState) RegisterForEvent(ctx context.Context, eventID string, form domain.RegistrationForm) (*domain.Registration, error) {
	user := a.User()
	key := "register:" + eventID
	if user != nil {
		key += ":" + user.ID
	}
	var reg *domain.Registration
	err := a.guard(key, func() (err error) {
		reg, err = a.Registrations.RegisterForEvent(ctx, user, eventID, form)
		return err
	})
	return reg, err
}

func (a *AppState) UnregisterFromEvent(ctx context.Context, eventID string) error {
	return a.Registrations.UnregisterFromEvent(ctx, a.User(), eventID)
}

// EventRegistrations lists who signed up for an event. NGOs only see their own
// events; volunteers only see their own registration.
func (a *AppState) EventRegistrations(eventID string) ([]domain.Registration, error) {
	user := a.User()
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	ev, ok := a.Events.Get(eventID)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	all := a.Registrations.GetEventRegistrations(eventID)
	if user.IsNGO() {
		if ev.OwnerOrgID != user.ID {
			return nil, domain.NewError(domain.KindForbidden, "not your event", nil)
		}
		return all, nil
	}
	own := make([]domain.Registration, 0, 1)
	for _, r := range all {
		if r.VolunteerID == user.ID {
			own = append(own, r)
		}
	}
	return own, nil
}

func (a *AppState) view(e domain.Event, user *domain.User) EventView {
	n := len(a.Registrations.GetEventRegistrations(e.ID))
	left := a.Registrations.SpotsRemaining(e)
	v := EventView{
		Event:          e,
		Registered:     n,
		SpotsRemaining: left,
		Full:           left == 0,
	}
	if user != nil {
		v.RegisteredByMe = a.Registrations.IsRegistered(e.ID, user.ID)
	}
	return v
}

// UpcomingEvents is the volunteer events page: today onward, earliest first.
func (a *AppState) UpcomingEvents() []EventView {
	user := a.User()
	upcoming := domain.Upcoming(a.Events.Events(), a.now())
	out := make([]EventView, 0, len(upcoming))
	for _, e := range upcoming {
		out = append(out, a.view(e, user))
	}
	return out
}

// MyEvents is the NGO posts page.
func (a *AppState) MyEvents() []EventView {
	user := a.User()
	if user == nil {
		return nil
	}
	mine := domain.OwnedBy(a.Events.Events(), user.ID)
	out := make([]EventView, 0, len(mine))
	for _, e := range mine {
		out = append(out, a.view(e, user))
	}
	return out
}

func (a *AppState) HomeStats() HomeStats {
	events := a.Events.Events()
	now := a.now()
	stats := HomeStats{ActiveEvents: len(events)}
	for _, e := range events {
		if day, ok := e.Day(); ok && day.After(now) {
			stats.UpcomingEvents++
		}
	}
	if u := a.User(); u != nil {
		stats.Role = u.Role
	}
	return stats
}
