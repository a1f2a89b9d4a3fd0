package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		docID  string
		asNew  bool
		asHTML bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a markdown or HTML file",
		Long: `Import a file into a document and save it.

Files ending in .html or .htm (or any file with --html) are converted to
markdown first. With --new the file becomes a new document titled after
the file name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				text, err := readInput(cmd, path)
				if err != nil {
					return err
				}

				if asNew {
					base := filepath.Base(path)
					if _, err := w.session.CreateDocument(ctx, strings.TrimSuffix(base, filepath.Ext(base))); err != nil {
						return err
					}
				} else if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				if err := w.requireActive(); err != nil {
					return err
				}

				before := w.session.Content()
				if asHTML || isHTMLPath(path) {
					err = w.session.ImportHTML(ctx, text)
				} else {
					err = w.session.ImportMarkdown(ctx, text)
				}
				if err != nil {
					return err
				}
				return saveAndReport(ctx, w, f, w.session.Content() != before)
			})
		},
	}

	addDocFlag(cmd, &docID)
	cmd.Flags().BoolVar(&asNew, "new", false, "import into a new document")
	cmd.Flags().BoolVar(&asHTML, "html", false, "treat input as HTML regardless of extension")

	return cmd
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
