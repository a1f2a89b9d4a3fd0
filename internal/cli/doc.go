package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quire/internal/document"
)

// DocSummary is the listing form of a document.
type DocSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	Length     int       `json:"length"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

func summarizeDoc(d document.Document) DocSummary {
	return DocSummary{
		ID:         d.ID,
		Title:      d.Title,
		Tags:       d.Tags,
		Length:     len([]rune(d.Content)),
		ModifiedAt: d.ModifiedAt,
	}
}

// NewDocCommand creates the doc command group.
func NewDocCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Manage documents",
	}

	cmd.AddCommand(newDocListCommand(rootOpts))
	cmd.AddCommand(newDocNewCommand(rootOpts))
	cmd.AddCommand(newDocRemoveCommand(rootOpts))
	cmd.AddCommand(newDocRenameCommand(rootOpts))
	cmd.AddCommand(newDocTagCommand(rootOpts))

	return cmd
}

func newDocListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List documents, most recent first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(_ context.Context, w *workspace, f *OutputFormatter) error {
				docs := w.session.Documents()
				summaries := make([]DocSummary, len(docs))
				for i, d := range docs {
					summaries[i] = summarizeDoc(d)
				}
				rows := make([][]string, len(summaries))
				for i, s := range summaries {
					rows[i] = []string{s.ID, s.Title, strings.Join(s.Tags, ","),
						strconv.Itoa(s.Length), s.ModifiedAt.Format(time.RFC3339)}
				}
				return f.Table(summaries, []string{"ID", "TITLE", "TAGS", "CHARS", "MODIFIED"}, rows)
			})
		},
	}
}

func newDocNewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "new [title]",
		Short:         "Create an empty document",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				doc, err := w.session.CreateDocument(ctx, title)
				if err != nil {
					return err
				}
				f.VerboseLog("created document %s", doc.ID)
				return f.Emit(summarizeDoc(doc), doc.ID)
			})
		},
	}
}

func newDocRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.session.DeleteDocument(ctx, args[0]); err != nil {
					return err
				}
				return f.Success(fmt.Sprintf("deleted %s", args[0]))
			})
		},
	}
}

func newDocRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <id> <title>",
		Short:         "Rename a document",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.session.RenameDocument(ctx, args[0], args[1]); err != nil {
					return err
				}
				return f.Success(fmt.Sprintf("renamed %s", args[0]))
			})
		},
	}
}

func newDocTagCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string
	var remove bool

	cmd := &cobra.Command{
		Use:           "tag <tag>...",
		Short:         "Add or remove tags on a document",
		Args:          cobra.MinimumNArgs(1),
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
				for _, tag := range args {
					if remove {
						if err := w.session.RemoveTag(tag); err != nil {
							return err
						}
						continue
					}
					w.session.AddTag(tag)
				}
				if err := w.session.Save(ctx); err != nil {
					return err
				}
				tags := w.session.Working().Tags
				return f.Emit(tags, strings.Join(tags, ", "))
			})
		},
	}

	cmd.Flags().StringVar(&docID, "doc", "", "document id (default: most recent)")
	cmd.Flags().BoolVar(&remove, "rm", false, "remove the tags instead of adding them")

	return cmd
}
