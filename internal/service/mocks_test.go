package service

import (
	"context"

	"handsaround/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBackend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, signup domain.Signup) (*domain.User, error) {
	args := m.Called(ctx, signup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockBackend) ListEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockBackend) CreateEvent(ctx context.Context, token string, owner domain.User, fields domain.EventFields) (*domain.Event, error) {
	args := m.Called(ctx, token, owner, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockBackend) DeleteEvent(ctx context.Context, token string, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

// staticEvents is an EventLookup over a fixed set.
type staticEvents map[string]domain.Event

func (s staticEvents) Get(id string) (domain.Event, bool) {
	e, ok := s[id]
	return e, ok
}

var (
	ngoUser = domain.User{ID: "ngo-1", Name: "Helping Hands", Email: "ngo@example.org", Role: domain.RoleNGO, OrganizationName: "Helping Hands Trust", AuthToken: "tok-ngo"}
	volV    = domain.User{ID: "vol-v", Name: "Vani", Email: "vani@example.org", Role: domain.RoleVolunteer, AuthToken: "tok-v"}
	volW    = domain.User{ID: "vol-w", Name: "Wasim", Email: "wasim@example.org", Role: domain.RoleVolunteer, AuthToken: "tok-w"}
)

func validFields() domain.EventFields {
	return domain.EventFields{
		Title:          "Food drive",
		Category:       "Food Distribution",
		Date:           "2026-11-20",
		Time:           "10:00",
		Location:       "Community hall",
		Description:    "Pack and hand out meals",
		VolunteerSlots: 2,
	}
}
