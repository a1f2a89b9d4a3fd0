package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/quire/internal/config"
	"github.com/roach88/quire/internal/kv"
	"github.com/roach88/quire/internal/render"
	"github.com/roach88/quire/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // overrides config db path when set
	Config  string // optional YAML config file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quire CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quire",
		Short: "quire - a markdown notebook",
		Long: `A markdown notebook with undo history, snapshots and autosave.

Documents live in a SQLite file. Every save records a snapshot that can be
restored later.`,
		SilenceErrors: true, // main prints errors that commands did not report
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "SQLite database path (default from config)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML config file")

	cmd.AddCommand(NewDocCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewOutlineCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewReplaceCommand(opts))
	cmd.AddCommand(NewTemplateCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewThemeCommand(opts))
	cmd.AddCommand(NewScriptCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter builds the formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // verbose logs go to stderr to keep JSON clean
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on w. Verbose forces debug level.
func newLogger(opts *RootOptions, cfg config.Config, w io.Writer) *slog.Logger {
	level := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// workspace is an open database with an initialized session.
type workspace struct {
	cfg     config.Config
	store   *kv.SQLite
	session *session.Session
	logger  *slog.Logger
}

// Close stops the session and closes the database.
func (w *workspace) Close() {
	w.session.Close()
	if err := w.store.Close(); err != nil {
		w.logger.Warn("close database", "error", err)
	}
}

// openWorkspace loads configuration, opens the database and initializes a
// session. Partial load failures are logged and the session is still
// returned; a database that cannot be opened is a command error.
func openWorkspace(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*workspace, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DB != "" {
		cfg.DB = opts.DB
	}

	logger := newLogger(opts, cfg, cmd.ErrOrStderr())

	store, err := kv.Open(cfg.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", cfg.DB), err)
	}

	rendererOpts := []render.Option{
		render.WithLogger(logger),
		render.WithCacheSize(cfg.Render.CacheSize),
	}
	if theme, ok := config.LookupTheme(config.DefaultTheme); ok {
		rendererOpts = append(rendererOpts, render.WithChain(render.DefaultChain(theme.Style, logger)))
	}
	if cfg.Render.Sanitize {
		rendererOpts = append(rendererOpts, render.WithSanitizer(render.SanitizePolicy()))
	}

	s := session.New(store,
		session.WithLogger(logger),
		session.WithRenderer(render.New(rendererOpts...)),
		session.WithDebounce(cfg.Autosave.Debounce),
	)
	if err := s.Initialize(ctx); err != nil {
		logger.Warn("session loaded with errors", "error", err)
	}

	return &workspace{cfg: cfg, store: store, session: s, logger: logger}, nil
}

// selectDocument switches to id when it is set.
func (w *workspace) selectDocument(ctx context.Context, id string) error {
	if id == "" || id == w.session.ActiveID() {
		return nil
	}
	return w.session.SwitchDocument(ctx, id)
}

// requireActive fails when no document is active.
func (w *workspace) requireActive() error {
	if w.session.ActiveID() == "" {
		return NewExitError(ExitCommandError, "no active document (use --doc)")
	}
	return nil
}

// withWorkspace opens a workspace, runs fn and reports any error through
// the formatter.
func withWorkspace(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, w *workspace, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w, err := openWorkspace(ctx, opts, cmd)
	if err != nil {
		return report(f, err)
	}
	defer w.Close()

	if err := fn(ctx, w, f); err != nil {
		return report(f, err)
	}
	return nil
}
