package main

import (
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newAddCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add PATH...",
		Short: "Add file contents to the index",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return addCmd(cfg, args)
	}
	return cmd
}

func addCmd(cfg *globalFlags, paths []string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	abs := make([]string, len(paths))
	for i, p := range paths {
		abs[i] = absPath(cfg, p)
	}
	return r.Add(abs...)
}
