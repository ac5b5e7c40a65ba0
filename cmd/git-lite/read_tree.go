package main

import (
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newReadTreeCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read-tree TREE-ISH",
		Short: "Reads tree information into the index",
		Args:  cobra.ExactArgs(1),
	}

	update := cmd.Flags().BoolP("update", "u", false, "Update the files in the working tree as well.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return readTreeCmd(cfg, args[0], *update)
	}
	return cmd
}

func readTreeCmd(cfg *globalFlags, name string, update bool) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(name)
	if err != nil {
		return err
	}
	o, err := r.Object(oid)
	if err != nil {
		return err
	}
	// a commit can be used in place of its tree
	if o.Type() == object.TypeCommit {
		c, err := o.AsCommit()
		if err != nil {
			return xerrors.Errorf("could not get commit %s: %w", oid, err)
		}
		oid = c.TreeID()
	}
	return r.CheckoutTree(oid, update)
}
