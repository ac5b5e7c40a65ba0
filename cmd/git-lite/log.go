package main

import (
	"fmt"
	"io"
	"strings"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [REVISION]",
		Short: "Show commit logs",
		Args:  cobra.MaximumNArgs(1),
	}

	oneline := cmd.Flags().Bool("oneline", false, "Print each commit on a single line.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name := "@"
		if len(args) > 0 {
			name = args[0]
		}
		return logCmd(cmd.OutOrStdout(), cfg, name, *oneline)
	}
	return cmd
}

func logCmd(out io.Writer, cfg *globalFlags, name string, oneline bool) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(name)
	if err != nil {
		return err
	}
	refs, err := refsByTarget(r)
	if err != nil {
		return err
	}

	return r.WalkHistory([]ginternals.Oid{oid}, func(oid ginternals.Oid, c *object.Commit) error {
		if oneline {
			title := strings.SplitN(c.Message(), "\n", 2)[0]
			fmt.Fprintf(out, "%s%s %s\n", shortID(oid), decoration(refs[oid]), title)
			return nil
		}
		printCommit(out, oid, c, refs[oid])
		return nil
	})
}

// refsByTarget returns the name of all the references, indexed by the
// commit they target
func refsByTarget(r *git.Repository) (map[ginternals.Oid][]string, error) {
	refs := map[ginternals.Oid][]string{}
	err := r.Backend().WalkReferences("", true, func(ref *ginternals.Reference) error {
		refs[ref.Target()] = append(refs[ref.Target()], ref.Name())
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not list the references: %w", err)
	}
	return refs, nil
}

func decoration(refs []string) string {
	if len(refs) == 0 {
		return ""
	}
	return " (" + strings.Join(refs, ", ") + ")"
}

// printCommit prints the id, the parents, and the indented message of
// a commit
func printCommit(out io.Writer, oid ginternals.Oid, c *object.Commit, refs []string) {
	fmt.Fprintf(out, "commit %s%s\n", oid.String(), decoration(refs))
	if parents := c.ParentIDs(); len(parents) > 1 {
		ids := make([]string, len(parents))
		for i, p := range parents {
			ids[i] = shortID(p)
		}
		fmt.Fprintf(out, "Merge: %s\n", strings.Join(ids, " "))
	}
	fmt.Fprintln(out, "")
	for _, line := range strings.Split(c.Message(), "\n") {
		fmt.Fprintf(out, "    %s\n", line)
	}
	fmt.Fprintln(out, "")
}
