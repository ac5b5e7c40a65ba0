package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

var errNoMergeBase = errors.New("the commits have no common ancestor")

func newMergeCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge COMMIT",
		Short: "Join two development histories together",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return mergeCmd(cmd.OutOrStdout(), cfg, args[0])
	}
	return cmd
}

func mergeCmd(out io.Writer, cfg *globalFlags, name string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(name)
	if err != nil {
		return err
	}
	res, err := r.Merge(oid)
	if err != nil {
		return err
	}

	switch {
	case res.UpToDate:
		fmt.Fprintln(out, "Already up to date.")
	case res.FastForward:
		fmt.Fprintln(out, "Fast-forward")
	case len(res.Conflicts) > 0:
		for _, p := range res.Conflicts {
			fmt.Fprintf(out, "CONFLICT: merge conflict in %s\n", p)
		}
		fmt.Fprintln(out, "Automatic merge failed; fix conflicts and then commit the result.")
	default:
		fmt.Fprintln(out, "Merged in the working tree. Please commit.")
	}
	return nil
}

func newMergeBaseCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge-base COMMIT COMMIT",
		Short: "Find the best common ancestor of two commits",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return mergeBaseCmd(cmd.OutOrStdout(), cfg, args[0], args[1])
	}
	return cmd
}

func mergeBaseCmd(out io.Writer, cfg *globalFlags, a, b string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oidA, err := r.ResolveName(a)
	if err != nil {
		return err
	}
	oidB, err := r.ResolveName(b)
	if err != nil {
		return err
	}
	base, err := r.MergeBase(oidA, oidB)
	if err != nil {
		return err
	}
	if base.IsZero() {
		return errNoMergeBase
	}
	fmt.Fprintln(out, base.String())
	return nil
}
