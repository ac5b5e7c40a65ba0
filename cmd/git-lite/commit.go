package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
)

func newCommitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record changes to the repository",
		Args:  cobra.NoArgs,
	}

	message := cmd.Flags().StringP("message", "m", "", "Use the given message as the commit message.")
	cmd.MarkFlagRequired("message") //nolint:errcheck // the flag exists

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return commitCmd(cmd.OutOrStdout(), cfg, *message)
	}
	return cmd
}

func commitCmd(out io.Writer, cfg *globalFlags, message string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.NewCommit(message)
	if err != nil {
		return err
	}

	branch, ok, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if !ok {
		branch = "detached HEAD"
	}
	title := strings.SplitN(message, "\n", 2)[0]
	fmt.Fprintf(out, "[%s %s] %s\n", branch, shortID(oid), title)
	return nil
}
