package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newWriteTreeCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-tree",
		Short: "Create a tree object from the current index",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return writeTreeCmd(cmd.OutOrStdout(), cfg)
	}
	return cmd
}

func writeTreeCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.WriteTree()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, oid.String())
	return nil
}
