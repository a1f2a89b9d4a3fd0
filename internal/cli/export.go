package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quire/internal/session"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		docID  string
		as     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a document",
		Long: fmt.Sprintf(`Export a document as %s.

The export is written to stdout unless --output is given. The --format
flag does not wrap export output; --as selects the export format.`, strings.Join(session.Formats, ", ")),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				out, err := w.session.ExportAs(as)
				if err != nil {
					return err
				}
				if output == "" {
					_, err := fmt.Fprintln(f.Writer, out)
					return err
				}
				if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("failed to write %s", output), err)
				}
				f.VerboseLog("wrote %d bytes to %s", len(out), output)
				return nil
			})
		},
	}

	addDocFlag(cmd, &docID)
	cmd.Flags().StringVar(&as, "as", session.FormatMarkdown, "export format ("+strings.Join(session.Formats, "|")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:           "render",
		Short:         "Render a document to an HTML fragment",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				html := w.session.HTML()
				st := w.session.RenderStats()
				f.VerboseLog("render: hits=%d misses=%d fallbacks=%d failures=%d",
					st.Hits, st.Misses, st.Fallbacks, st.Failures)
				return f.Emit(map[string]string{"html": html}, html)
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}
