package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-lite/diff"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newStatusCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the working tree status",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statusCmd(cmd.OutOrStdout(), cfg)
	}
	return cmd
}

func statusCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	s, err := r.Status()
	if err != nil {
		return err
	}

	switch {
	case s.Branch != "":
		fmt.Fprintf(out, "On branch %s\n", s.Branch)
	case !s.Head.IsZero():
		fmt.Fprintf(out, "HEAD detached at %s\n", shortID(s.Head))
	}
	if !s.MergeHead.IsZero() {
		fmt.Fprintf(out, "Merging with %s\n", shortID(s.MergeHead))
	}

	fmt.Fprintln(out, "\nChanges to be committed:")
	printChanges(out, s.Staged)

	fmt.Fprintln(out, "\nChanges not staged for commit:")
	printChanges(out, s.Unstaged)

	fmt.Fprintln(out, "\nUntracked files:")
	if len(s.Untracked) == 0 {
		fmt.Fprintln(out, "  (no untracked files)")
	}
	for _, p := range s.Untracked {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

func printChanges(out io.Writer, changes []diff.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(out, "  (no changes)")
		return
	}
	for _, c := range changes {
		fmt.Fprintf(out, "  %12s: %s\n", c.Action.String(), c.Path)
	}
}
