package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

type themeFile struct {
	Theme string `toml:"theme"`
}

// ThemeFileStore keeps the theme preference in a TOML file
type ThemeFileStore struct {
	path string
}

// NewThemeFileStore stores the preference at path
func NewThemeFileStore(path string) *ThemeFileStore {
	return &ThemeFileStore{path: path}
}

// DefaultThemePath returns <user config dir>/quickmeet/theme.toml
func DefaultThemePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "quickmeet", "theme.toml")
}

// Path returns the file location
func (s *ThemeFileStore) Path() string {
	return s.path
}

// Load implements usecase.ThemeStore. A missing file or unknown value means no preference.
func (s *ThemeFileStore) Load() (domain.Theme, bool, error) {
	var f themeFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", s.path, err)
	}

	theme, ok := domain.ParseTheme(f.Theme)
	return theme, ok, nil
}

// Save implements usecase.ThemeStore
func (s *ThemeFileStore) Save(theme domain.Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := toml.NewEncoder(f).Encode(themeFile{Theme: string(theme)}); err != nil {
		f.Close()
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
