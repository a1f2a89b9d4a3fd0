package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// EditResult reports the outcome of a content-changing command.
type EditResult struct {
	ID       string `json:"id"`
	Changed  bool   `json:"changed"`
	Snapshot string `json:"snapshot,omitempty"`
}

func addDocFlag(cmd *cobra.Command, id *string) {
	cmd.Flags().StringVar(id, "doc", "", "document id (default: most recent)")
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		docID string
		file  string
		title string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace a document's content",
		Long: `Replace the content of a document with the contents of a file or stdin
and save it. Saving records a snapshot.

Examples:
  quire edit --doc 0192... --file notes.md
  echo "# Hello" | quire edit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				text, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				if err := w.requireActive(); err != nil {
					return err
				}

				changed := w.session.UpdateContent(text)
				if title != "" {
					w.session.SetTitle(title)
				}
				return saveAndReport(ctx, w, f, changed)
			})
		},
	}

	addDocFlag(cmd, &docID)
	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from file instead of stdin")
	cmd.Flags().StringVar(&title, "title", "", "also set the document title")

	return cmd
}

// readInput reads path, or the command's stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", path), err)
	}
	return string(data), nil
}

// saveAndReport saves the session when the active document is dirty and
// prints an EditResult. A successful save of the active document always
// records a snapshot, which is the newest one.
func saveAndReport(ctx context.Context, w *workspace, f *OutputFormatter, changed bool) error {
	result := EditResult{ID: w.session.ActiveID(), Changed: changed || w.session.Dirty()}

	if w.session.Dirty() {
		if err := w.session.Save(ctx); err != nil {
			return err
		}
		if snaps := w.session.Snapshots(); len(snaps) > 0 {
			result.Snapshot = snaps[0].ID
		}
	}

	if f.JSON() {
		return f.Success(result)
	}
	if !result.Changed {
		return f.Success(fmt.Sprintf("%s unchanged", result.ID))
	}
	msg := fmt.Sprintf("saved %s", result.ID)
	if result.Snapshot != "" {
		msg += fmt.Sprintf(" (snapshot %s)", result.Snapshot)
	}
	return f.Success(msg)
}
