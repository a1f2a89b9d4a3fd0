package config

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed settings.cue
var settingsSchema string

// SettingsKey is the persistence key of the editor settings bundle.
const SettingsKey = "editor.settings"

// Settings is the editor settings bundle.
type Settings struct {
	TabSize          int     `json:"tabSize" yaml:"tabSize"`
	InsertSpaces     bool    `json:"insertSpaces" yaml:"insertSpaces"`
	WordWrap         bool    `json:"wordWrap" yaml:"wordWrap"`
	ShowLineNumbers  bool    `json:"showLineNumbers" yaml:"showLineNumbers"`
	EnableSpellCheck bool    `json:"enableSpellCheck" yaml:"enableSpellCheck"`
	AutoSave         bool    `json:"autoSave" yaml:"autoSave"`
	AutoSaveInterval int     `json:"autoSaveInterval" yaml:"autoSaveInterval"` // milliseconds
	FontSize         int     `json:"fontSize" yaml:"fontSize"`
	LineHeight       float64 `json:"lineHeight" yaml:"lineHeight"`
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		TabSize:          2,
		InsertSpaces:     true,
		WordWrap:         true,
		ShowLineNumbers:  true,
		EnableSpellCheck: false,
		AutoSave:         true,
		AutoSaveInterval: 30000,
		FontSize:         16,
		LineHeight:       1.6,
	}
}

// Interval returns AutoSaveInterval as a duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.AutoSaveInterval) * time.Millisecond
}

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error

	// cue.Context is not safe for concurrent use.
	settingsMu sync.Mutex
)

func settingsDef() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(settingsSchema, cue.Filename("settings.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile settings schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Settings"))
	})
	return schemaCtx, schemaDef, schemaErr
}

// Validate checks s against the embedded CUE schema.
func (s Settings) Validate() error {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	ctx, def, err := settingsDef()
	if err != nil {
		return err
	}
	v := def.Unify(ctx.Encode(s))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
