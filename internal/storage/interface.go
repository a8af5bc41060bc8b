package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a key or photo does not exist.
var ErrNotFound = errors.New("not found")

// Well-known local storage keys.
const (
	KeyCurrentUser     = "currentUser"
	KeyTheme           = "theme"
	KeyLocationGranted = "locationGranted"
)

// LocalStore is the durable client-side key/value storage that survives restarts.
type LocalStore interface {
	// Get returns ErrNotFound when the key was never set or has been removed.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove is idempotent.
	Remove(ctx context.Context, key string) error
}

// PhotoStore keeps event photos uploaded by NGOs.
type PhotoStore interface {
	// Save stores the photo and returns its key and public URL.
	Save(ctx context.Context, contentType string, r io.Reader) (key string, url string, err error)
	// Open returns the photo contents and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
