package http

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
