package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.Equal(t, 30*time.Second, s.Interval())
}

func TestSettings_ValidateRejectsOutOfRange(t *testing.T) {
	tests := map[string]func(*Settings){
		"tab size zero":      func(s *Settings) { s.TabSize = 0 },
		"interval too short": func(s *Settings) { s.AutoSaveInterval = 10 },
		"font too large":     func(s *Settings) { s.FontSize = 400 },
		"line height":        func(s *Settings) { s.LineHeight = 0.5 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			mutate(&s)
			assert.ErrorContains(t, s.Validate(), "invalid settings")
		})
	}
}

func TestSettings_ValidateAcceptsBounds(t *testing.T) {
	s := DefaultSettings()
	s.TabSize = 16
	s.AutoSaveInterval = 1000
	s.FontSize = 8
	s.LineHeight = 3
	assert.NoError(t, s.Validate())
}

func TestLookupTheme(t *testing.T) {
	th, ok := LookupTheme("dracula")
	assert.True(t, ok)
	assert.Equal(t, "dark", th.Category)

	_, ok = LookupTheme("neon")
	assert.False(t, ok)

	_, ok = LookupTheme(DefaultTheme)
	assert.True(t, ok)
	assert.Len(t, Themes(), 8)
}
