package main

import (
	"io"

	"github.com/Nivl/git-lite/diff"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newShowCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [REVISION]",
		Short: "Show a commit and its changes",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name := "@"
		if len(args) > 0 {
			name = args[0]
		}
		return showCmd(cmd.OutOrStdout(), cfg, name)
	}
	return cmd
}

func showCmd(out io.Writer, cfg *globalFlags, name string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(name)
	if err != nil {
		return err
	}
	c, err := r.Commit(oid)
	if err != nil {
		return err
	}

	parent := ginternals.NullOid
	if parents := c.ParentIDs(); len(parents) > 0 {
		parent = parents[0]
	}
	from, err := r.CommitFiles(parent)
	if err != nil {
		return err
	}
	to, err := r.ReadTree(c.TreeID())
	if err != nil {
		return err
	}
	patch, err := diff.DiffTrees(r.Backend(), from, to)
	if err != nil {
		return err
	}

	printCommit(out, oid, c, nil)
	_, err = out.Write(patch)
	return err
}
