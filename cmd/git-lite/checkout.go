package main

import (
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout [-b NEW-BRANCH] [BRANCH|COMMIT]",
		Short: "Switch branches or detach HEAD on a commit",
		Args:  cobra.MaximumNArgs(1),
	}

	newBranch := cmd.Flags().StringP("branch", "b", "", "Create a new branch named <new-branch> starting at <start-point> and switch to it.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return checkoutCmd(cfg, target, *newBranch)
	}
	return cmd
}

func checkoutCmd(cfg *globalFlags, target, newBranch string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	if newBranch != "" {
		startPoint := target
		if startPoint == "" {
			startPoint = "@"
		}
		oid, err := r.ResolveName(startPoint)
		if err != nil {
			return err
		}
		if _, err = r.CreateBranch(newBranch, oid); err != nil {
			return err
		}
		target = newBranch
	}
	if target == "" {
		return errBranchRequired
	}
	return r.Checkout(target)
}
