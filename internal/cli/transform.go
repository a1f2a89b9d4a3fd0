package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quire/internal/mdtext"
	"github.com/roach88/quire/internal/template"
)

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Normalize heading, list and blank-line spacing",
		Long: `Normalize markdown spacing in a document and save it.

Headings get one space after the hashes, list markers one space before the
item, runs of blank lines collapse to one, and code fences lose leading
blank lines and trailing whitespace.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				if err := w.requireActive(); err != nil {
					return err
				}
				return saveAndReport(ctx, w, f, w.session.FormatDocument())
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}

// NewReplaceCommand creates the replace command.
func NewReplaceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		docID string
		opts  mdtext.ReplaceOptions
	)

	cmd := &cobra.Command{
		Use:   "replace <pattern> <replacement>",
		Short: "Search and replace in a document",
		Long: `Replace every match of pattern in a document and save it.

The pattern is literal unless --regex is given. Matching ignores case
unless --case-sensitive is given.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				if err := w.requireActive(); err != nil {
					return err
				}
				changed, err := w.session.SearchAndReplace(args[0], args[1], opts)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid pattern", err)
				}
				return saveAndReport(ctx, w, f, changed)
			})
		},
	}

	addDocFlag(cmd, &docID)
	cmd.Flags().BoolVar(&opts.CaseSensitive, "case-sensitive", false, "match case")
	cmd.Flags().BoolVar(&opts.WholeWord, "whole-word", false, "match whole words only")
	cmd.Flags().BoolVar(&opts.UseRegex, "regex", false, "treat pattern as a regular expression")

	return cmd
}

// NewTemplateCommand creates the template command.
func NewTemplateCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "template [kind]",
		Short: "Insert a document template",
		Long: fmt.Sprintf(`Insert a template into a document and save it. Without a kind, list the
available kinds: %s.

An empty document is replaced by the template; otherwise the template is
appended after a blank line.`, strings.Join(template.Kinds(), ", ")),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				f := newFormatter(rootOpts, cmd)
				return f.Emit(template.Kinds(), strings.Join(template.Kinds(), "\n"))
			}
			if !template.Known(args[0]) {
				return report(newFormatter(rootOpts, cmd),
					NewExitError(ExitCommandError, fmt.Sprintf("unknown template %q", args[0])))
			}

			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				if err := w.requireActive(); err != nil {
					return err
				}
				changed, err := w.session.InsertTemplate(args[0])
				if err != nil {
					return err
				}
				return saveAndReport(ctx, w, f, changed)
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}
