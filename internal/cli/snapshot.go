package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "List, take, restore and delete snapshots",
	}

	cmd.AddCommand(newSnapshotListCommand(rootOpts))
	cmd.AddCommand(newSnapshotTakeCommand(rootOpts))
	cmd.AddCommand(newSnapshotRestoreCommand(rootOpts))
	cmd.AddCommand(newSnapshotRemoveCommand(rootOpts))

	return cmd
}

func newSnapshotListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List snapshots, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(_ context.Context, w *workspace, f *OutputFormatter) error {
				snaps := w.session.Snapshots()
				rows := make([][]string, len(snaps))
				for i, s := range snaps {
					rows[i] = []string{s.ID, s.Timestamp.Format(time.RFC3339), s.Title, strconv.Quote(s.Summary)}
				}
				return f.Table(snaps, []string{"ID", "TAKEN", "TITLE", "SUMMARY"}, rows)
			})
		},
	}
}

func newSnapshotTakeCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:           "take",
		Short:         "Snapshot a document without saving it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.selectDocument(ctx, docID); err != nil {
					return err
				}
				snap, err := w.session.CreateSnapshot(ctx)
				if err != nil {
					return err
				}
				return f.Emit(snap, snap.ID)
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}

func newSnapshotRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a snapshot into a document",
		Long: `Replace a document's content and title with a snapshot's and save it.
The save itself records a new snapshot.`,
		Args:          cobra.ExactArgs(1),
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
				before := w.session.Content()
				if err := w.session.RestoreSnapshot(args[0]); err != nil {
					return err
				}
				return saveAndReport(ctx, w, f, w.session.Content() != before)
			})
		},
	}

	addDocFlag(cmd, &docID)
	return cmd
}

func newSnapshotRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(rootOpts, cmd, func(ctx context.Context, w *workspace, f *OutputFormatter) error {
				if err := w.session.DeleteSnapshot(ctx, args[0]); err != nil {
					return err
				}
				return f.Success(fmt.Sprintf("deleted snapshot %s", args[0]))
			})
		},
	}
}
