package main

import (
	"io"

	"github.com/Nivl/git-lite/diff"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newDiffCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [REVISION]",
		Short: "Show changes between a commit, the index, and the working tree",
		Long:  "Without arguments, shows the changes of the working tree that are not staged.\nWith --cached, shows the staged changes compared to HEAD, or to the given revision.\nWith a revision, shows the changes of the working tree compared to the revision.",
		Args:  cobra.MaximumNArgs(1),
	}

	cached := cmd.Flags().Bool("cached", false, "Show the changes staged for the next commit.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return diffCmd(cmd.OutOrStdout(), cfg, name, *cached)
	}
	return cmd
}

func diffCmd(out io.Writer, cfg *globalFlags, name string, cached bool) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	idx, err := r.Backend().ReadIndex()
	if err != nil {
		return xerrors.Errorf("could not load the index: %w", err)
	}

	var from, to map[string]ginternals.Oid
	switch {
	case cached:
		if from, err = commitFiles(r, name); err != nil {
			return err
		}
		to = idx.Entries()
	case name != "":
		if from, err = commitFiles(r, name); err != nil {
			return err
		}
		if to, err = r.CaptureWorkingTree(); err != nil {
			return err
		}
	default:
		from = idx.Entries()
		working, err := r.CaptureWorkingTree()
		if err != nil {
			return err
		}
		// untracked files are not part of the diff
		to = make(map[string]ginternals.Oid, len(from))
		for p, oid := range working {
			if _, ok := from[p]; ok {
				to[p] = oid
			}
		}
	}

	patch, err := diff.DiffTrees(r.Backend(), from, to)
	if err != nil {
		return err
	}
	_, err = out.Write(patch)
	return err
}
