package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

var errBranchRequired = errors.New("a branch or a commit is required")

func newBranchCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch [NAME [START-POINT]]",
		Short: "List or create branches",
		Args:  cobra.MaximumNArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listBranchesCmd(cmd.OutOrStdout(), cfg)
		}
		startPoint := "@"
		if len(args) == 2 {
			startPoint = args[1]
		}
		return createBranchCmd(cmd.OutOrStdout(), cfg, args[0], startPoint)
	}
	return cmd
}

func listBranchesCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	current, _, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	names, err := r.BranchNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		prefix := " "
		if name == current {
			prefix = "*"
		}
		fmt.Fprintf(out, "%s %s\n", prefix, name)
	}
	return nil
}

func createBranchCmd(out io.Writer, cfg *globalFlags, name, startPoint string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(startPoint)
	if err != nil {
		return err
	}
	if _, err = r.CreateBranch(name, oid); err != nil {
		return err
	}
	fmt.Fprintf(out, "Branch %s created at %s\n", name, shortID(oid))
	return nil
}
