package backend

import (
	"context"

	"handsaround/internal/domain"
)

// Client is the REST backend the Application State depends on.
// The backend owns authentication and persistence; the front only mirrors it.
type Client interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, signup domain.Signup) (*domain.User, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateEvent(ctx context.Context, token string, owner domain.User, fields domain.EventFields) (*domain.Event, error)
	DeleteEvent(ctx context.Context, token string, id string) error
}
