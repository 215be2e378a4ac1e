package usecase

import (
	"fmt"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

// ThemeStore is the one durable key-value slot holding the theme
type ThemeStore interface {
	// Load returns ok=false when no preference has been stored
	Load() (theme domain.Theme, ok bool, err error)
	Save(theme domain.Theme) error
}

// ThemePreference resolves and mutates the light/dark preference.
// Resolution order: stored value, ambient preference, light.
type ThemePreference struct {
	store   ThemeStore
	ambient domain.Theme
	current domain.Theme
}

// NewThemePreference reads the stored value once. ambient may be empty.
func NewThemePreference(store ThemeStore, ambient domain.Theme) (*ThemePreference, error) {
	p := &ThemePreference{store: store, ambient: ambient}

	stored, ok, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	switch {
	case ok:
		p.current = stored
	case ambient != "":
		p.current = ambient
	default:
		p.current = domain.ThemeLight
	}
	return p, nil
}

// Get returns the effective theme
func (p *ThemePreference) Get() domain.Theme {
	return p.current
}

// Set persists the theme and makes it effective. Setting the same value again is harmless.
func (p *ThemePreference) Set(theme domain.Theme) error {
	if _, ok := domain.ParseTheme(string(theme)); !ok {
		return fmt.Errorf("invalid theme %q", theme)
	}
	if err := p.store.Save(theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	p.current = theme
	return nil
}

// Toggle switches to the opposite theme and returns it
func (p *ThemePreference) Toggle() (domain.Theme, error) {
	next := p.current.Opposite()
	if err := p.Set(next); err != nil {
		return p.current, err
	}
	return next, nil
}

// MemoryThemeStore keeps the preference in memory
type MemoryThemeStore struct {
	theme domain.Theme
}

// Load implements ThemeStore
func (m *MemoryThemeStore) Load() (domain.Theme, bool, error) {
	return m.theme, m.theme != "", nil
}

// Save implements ThemeStore
func (m *MemoryThemeStore) Save(theme domain.Theme) error {
	m.theme = theme
	return nil
}
