package usecase

import (
	"errors"
	"testing"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

type failingThemeStore struct{}

func (failingThemeStore) Load() (domain.Theme, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingThemeStore) Save(domain.Theme) error { return errors.New("disk on fire") }

func TestThemePreference_ResolutionOrder(t *testing.T) {
	tests := []struct {
		name    string
		stored  domain.Theme
		ambient domain.Theme
		want    domain.Theme
	}{
		{"Nothing set", "", "", domain.ThemeLight},
		{"Ambient only", "", domain.ThemeDark, domain.ThemeDark},
		{"Stored wins over ambient", domain.ThemeLight, domain.ThemeDark, domain.ThemeLight},
		{"Stored only", domain.ThemeDark, "", domain.ThemeDark},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewThemePreference(&MemoryThemeStore{theme: tc.stored}, tc.ambient)
			if err != nil {
				t.Fatal(err)
			}
			if p.Get() != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, p.Get())
			}
		})
	}
}

func TestThemePreference_SetPersists(t *testing.T) {
	store := &MemoryThemeStore{}
	p, _ := NewThemePreference(store, "")

	if err := p.Set(domain.ThemeDark); err != nil {
		t.Fatal(err)
	}
	// idempotent
	if err := p.Set(domain.ThemeDark); err != nil {
		t.Fatal(err)
	}

	fresh, _ := NewThemePreference(store, domain.ThemeLight)
	if fresh.Get() != domain.ThemeDark {
		t.Errorf("Expected persisted dark, got %s", fresh.Get())
	}
}

func TestThemePreference_Toggle(t *testing.T) {
	p, _ := NewThemePreference(&MemoryThemeStore{}, "")

	got, err := p.Toggle()
	if err != nil || got != domain.ThemeDark {
		t.Errorf("Expected dark, got %s (%v)", got, err)
	}
	got, _ = p.Toggle()
	if got != domain.ThemeLight {
		t.Errorf("Expected light, got %s", got)
	}
}

func TestThemePreference_Errors(t *testing.T) {
	if _, err := NewThemePreference(failingThemeStore{}, ""); err == nil {
		t.Error("Expected load error to surface")
	}

	p, _ := NewThemePreference(&MemoryThemeStore{}, "")
	if err := p.Set("purple"); err == nil {
		t.Error("Expected invalid theme to be rejected")
	}
	if p.Get() != domain.ThemeLight {
		t.Errorf("Expected theme unchanged, got %s", p.Get())
	}
}
