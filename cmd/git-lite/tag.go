package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newTagCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [NAME [OBJECT]]",
		Short: "List or create tags",
		Args:  cobra.MaximumNArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listTagsCmd(cmd.OutOrStdout(), cfg)
		}
		target := "@"
		if len(args) == 2 {
			target = args[1]
		}
		return createTagCmd(cfg, args[0], target)
	}
	return cmd
}

func listTagsCmd(out io.Writer, cfg *globalFlags) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	names, err := r.TagNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func createTagCmd(cfg *globalFlags, name, target string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(target)
	if err != nil {
		return err
	}
	_, err = r.CreateTag(name, oid)
	return err
}
