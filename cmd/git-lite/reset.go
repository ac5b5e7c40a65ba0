package main

import (
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newResetCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset COMMIT",
		Short: "Move the current branch to the given commit",
		Long:  "Move the current branch to the given commit. The index and the working tree are left untouched, unless --hard is set.",
		Args:  cobra.ExactArgs(1),
	}

	hard := cmd.Flags().Bool("hard", false, "Resets the index and working tree to the commit.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return resetCmd(cfg, args[0], *hard)
	}
	return cmd
}

func resetCmd(cfg *globalFlags, name string, hard bool) (err error) {
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
	if hard {
		if err = r.CheckoutTree(c.TreeID(), true); err != nil {
			return err
		}
	}
	return r.Reset(oid)
}
