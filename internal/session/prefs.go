package session

import (
	"context"

	"github.com/roach88/quire/internal/config"
	"github.com/roach88/quire/internal/failure"
	"github.com/roach88/quire/internal/render"
)

func (s *Session) loadThemeLocked(ctx context.Context) error {
	var id string
	found, err := s.kv.Get(ctx, config.ThemeKey, &id)
	if err != nil {
		return failure.Load("read theme", err)
	}
	if !found {
		return nil
	}
	if _, ok := config.LookupTheme(id); !ok {
		s.logger.Warn("ignoring unknown persisted theme", "theme", id)
		return nil
	}
	s.theme = id
	return nil
}

func (s *Session) loadSettingsLocked(ctx context.Context) error {
	// Decode over the defaults so missing fields keep their default value.
	loaded := config.DefaultSettings()
	found, err := s.kv.Get(ctx, config.SettingsKey, &loaded)
	if err != nil {
		return failure.Load("read settings", err)
	}
	if !found {
		return nil
	}
	if err := loaded.Validate(); err != nil {
		return failure.Load("persisted settings rejected", err)
	}
	s.settings = loaded
	return nil
}

// Theme returns the selected theme.
func (s *Session) Theme() config.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, _ := config.LookupTheme(s.theme)
	return t
}

// SetTheme selects and persists a theme from the theme table.
func (s *Session) SetTheme(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := config.LookupTheme(id); !ok {
		return failure.NotFound("theme", id)
	}
	if err := s.kv.Set(ctx, config.ThemeKey, id); err != nil {
		return failure.Save("persist theme", err)
	}
	s.theme = id
	return nil
}

// ThemeCSS returns the highlighting stylesheet for the selected theme.
func (s *Session) ThemeCSS() (string, error) {
	t := s.Theme()
	return render.NewHighlighter(t.Style).CSS()
}

// Settings returns the editor settings.
func (s *Session) Settings() config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings validates and persists settings, then restarts autosave
// to match them. Invalid settings are rejected without any change.
func (s *Session) UpdateSettings(ctx context.Context, settings config.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, config.SettingsKey, settings); err != nil {
		return failure.Save("persist settings", err)
	}
	s.settings = settings
	s.restartAutosaveLocked()
	return nil
}
