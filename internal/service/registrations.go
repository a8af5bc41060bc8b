package service

import (
	"context"
	"sync"

	"handsaround/internal/domain"
	"handsaround/internal/logger"

	"github.com/google/uuid"
)

type registrationLedger struct {
	mu            sync.RWMutex
	registrations []domain.Registration
	events        EventLookup
	newID         func() string
}

func NewRegistrationLedger(events EventLookup) RegistrationLedger {
	return &registrationLedger{
		events: events,
		newID:  uuid.NewString,
	}
}

func (l *registrationLedger) RegisterForEvent(ctx context.Context, volunteer *domain.User, eventID string, form domain.RegistrationForm) (*domain.Registration, error) {
	if volunteer == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !volunteer.IsVolunteer() {
		return nil, domain.NewError(domain.KindForbidden, "only volunteers can register for events", nil)
	}
	form.Normalize()
	if err := domain.Validate(&form); err != nil {
		return nil, err
	}
	event, ok := l.events.Get(eventID)
	if !ok {
		return nil, domain.ErrEventNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, r := range l.registrations {
		if r.EventID != eventID {
			continue
		}
		if r.VolunteerID == volunteer.ID {
			return nil, domain.ErrAlreadyRegistered
		}
		count++
	}
	if event.VolunteerSlots-count <= 0 {
		return nil, domain.ErrEventFull
	}

	reg := domain.Registration{
		ID:            l.newID(),
		EventID:       eventID,
		VolunteerID:   volunteer.ID,
		VolunteerName: form.VolunteerName,
		PhoneNumber:   form.PhoneNumber,
	}
	l.registrations = append(l.registrations, reg)
	logger.Info("Volunteer registered", "event_id", eventID, "volunteer_id", volunteer.ID, "spots_left", event.VolunteerSlots-count-1)
	return &reg, nil
}

func (l *registrationLedger) UnregisterFromEvent(ctx context.Context, volunteer *domain.User, eventID string) error {
	if volunteer == nil {
		return domain.ErrNotAuthenticated
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, r := range l.registrations {
		if r.EventID == eventID && r.VolunteerID == volunteer.ID {
			l.registrations = append(l.registrations[:i:i], l.registrations[i+1:]...)
			logger.Info("Volunteer unregistered", "event_id", eventID, "volunteer_id", volunteer.ID)
			return nil
		}
	}
	return domain.ErrNotRegistered
}

// GetEventRegistrations returns registrations in the order they were made.
func (l *registrationLedger) GetEventRegistrations(eventID string) []domain.Registration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []domain.Registration{}
	for _, r := range l.registrations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

func (l *registrationLedger) IsRegistered(eventID, volunteerID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.registrations {
		if r.EventID == eventID && r.VolunteerID == volunteerID {
			return true
		}
	}
	return false
}

func (l *registrationLedger) SpotsRemaining(event domain.Event) int {
	left := event.VolunteerSlots - len(l.GetEventRegistrations(event.ID))
	if left < 0 {
		return 0
	}
	return left
}

// ForgetEvent drops local registrations of a deleted event and returns how many went.
func (l *registrationLedger) ForgetEvent(eventID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.registrations[:0:0]
	for _, r := range l.registrations {
		if r.EventID != eventID {
			kept = append(kept, r)
		}
	}
	dropped := len(l.registrations) - len(kept)
	l.registrations = kept
	return dropped
}
