package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/quire/internal/config"
)

// NewThemeCommand creates the theme command.
func NewThemeCommand(rootOpts *RootOptions) *cobra.Command {
	var css bool

	cmd := &cobra.Command{
		Use:   "theme [id]",
		Short: "List themes or select one",
		Long: `Without an id, list the available themes and mark the current one.
With an id, select and persist that theme.

--css prints the code highlighting stylesheet for the current theme.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if len(args) == 1 {
					if err := w.session.SetTheme(ctx, args[0]); err != nil {
						return err
					}
				}

				if css {
					sheet, err := w.session.ThemeCSS()
					if err != nil {
						return err
					}
					_, err = fmt.Fprint(f.Writer, sheet)
					return err
				}

				current := w.session.Theme()
				if len(args) == 1 {
					return f.Emit(current, fmt.Sprintf("theme set to %s", current.ID))
				}

				themes := config.Themes()
				rows := make([][]string, len(themes))
				for i, t := range themes {
					mark := " "
					if t.ID == current.ID {
						mark = "*"
					}
					rows[i] = []string{mark + " " + t.ID, t.Name, t.Description}
				}
				return f.Table(map[string]interface{}{"current": current.ID, "themes": themes}, nil, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&css, "css", false, "print the highlighting stylesheet")
	return cmd
}
