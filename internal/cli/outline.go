package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quire/internal/mdtext"
)

// NewOutlineCommand creates the outline command.
func NewOutlineCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:           "outline",
		Short:         "Print the heading tree of a document",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				outline := w.session.Structure()
				if f.JSON() {
					return f.Success(outline)
				}
				writeOutline(f.Writer, outline, 0)
				return nil
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}

func writeOutline(w io.Writer, headings []*mdtext.Heading, depth int) {
	for _, h := range headings {
		fmt.Fprintf(w, "%s%s  (#%s, line %d)\n", strings.Repeat("  ", depth), h.Title, h.ID, h.Line)
		writeOutline(w, h.Children, depth+1)
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Print word, line and reading-time counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				st := w.session.Stats()
				return f.Table(st, nil, [][]string{
					{"characters", strconv.Itoa(st.Characters)},
					{"words", strconv.Itoa(st.Words)},
					{"lines", strconv.Itoa(st.Lines)},
					{"paragraphs", strconv.Itoa(st.Paragraphs)},
					{"reading", fmt.Sprintf("%d min", st.ReadingTime)},
				})
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}
