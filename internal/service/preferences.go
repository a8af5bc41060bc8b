package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"handsaround/internal/domain"
	"handsaround/internal/logger"
	"handsaround/internal/storage"
)

type preferenceStore struct {
	mu    sync.RWMutex
	prefs domain.Preferences
	store storage.LocalStore
}

func NewPreferenceStore(store storage.LocalStore) PreferenceStore {
	return &preferenceStore{
		prefs: domain.Preferences{Theme: domain.ThemeLight},
		store: store,
	}
}

// Load reads saved preferences; anything missing or unreadable keeps its default.
func (p *preferenceStore) Load(ctx context.Context) domain.Preferences {
	prefs := domain.Preferences{Theme: domain.ThemeLight}

	if raw, err := p.store.Get(ctx, storage.KeyTheme); err == nil {
		if t := domain.Theme(raw); t.Valid() {
			prefs.Theme = t
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Could not read theme", "error", err)
	}

	if raw, err := p.store.Get(ctx, storage.KeyLocationGranted); err == nil {
		prefs.LocationGranted, _ = strconv.ParseBool(raw)
	}

	p.mu.Lock()
	p.prefs = prefs
	p.mu.Unlock()
	return prefs
}

func (p *preferenceStore) Preferences() domain.Preferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs
}

func (p *preferenceStore) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.Validationf("theme must be %q or %q", domain.ThemeLight, domain.ThemeDark)
	}
	if err := p.store.Set(ctx, storage.KeyTheme, string(theme)); err != nil {
		return domain.NewError(domain.KindBackend, "could not save theme", err)
	}
	p.mu.Lock()
	p.prefs.Theme = theme
	p.mu.Unlock()
	return nil
}

func (p *preferenceStore) SetLocationGranted(ctx context.Context, granted bool) error {
	if err := p.store.Set(ctx, storage.KeyLocationGranted, strconv.FormatBool(granted)); err != nil {
		return domain.NewError(domain.KindBackend, "could not save location preference", err)
	}
	p.mu.Lock()
	p.prefs.LocationGranted = granted
	p.mu.Unlock()
	return nil
}
