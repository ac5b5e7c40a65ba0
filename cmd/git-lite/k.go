package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newKCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k",
		Short: "Print the graph of commits and references",
		Long:  "Print the graph of commits and references as a Graphviz dot document.\nex. git-lite k | dot -Tpng -o graph.png",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return kCmd(cmd.OutOrStdout(), cfg)
	}
	return cmd
}

func kCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	fmt.Fprintln(out, "digraph commits {")

	roots := []ginternals.Oid{}
	err = r.Backend().WalkReferences("", false, func(ref *ginternals.Reference) error {
		fmt.Fprintf(out, "\t%q [shape=note]\n", ref.Name())
		if ref.IsSymbolic() {
			fmt.Fprintf(out, "\t%q -> %q\n", ref.Name(), ref.SymbolicTarget())
			return nil
		}
		fmt.Fprintf(out, "\t%q -> %q\n", ref.Name(), ref.Target().String())
		// tags can target any kind of object
		o, err := r.Object(ref.Target())
		if err != nil {
			return err
		}
		if o.Type() == object.TypeCommit {
			roots = append(roots, ref.Target())
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = r.WalkHistory(roots, func(oid ginternals.Oid, c *object.Commit) error {
		fmt.Fprintf(out, "\t%q [shape=box style=filled label=%q]\n", oid.String(), shortID(oid))
		for _, p := range c.ParentIDs() {
			fmt.Fprintf(out, "\t%q -> %q\n", oid.String(), p.String())
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "}")
	return nil
}
