package main

import (
	"github.com/Nivl/git-lite/env"
	"github.com/Nivl/git-lite/internal/pathutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type globalFlags struct {
	env *env.Env

	C          pflag.Value // simpler version of git's -C: https://git-scm.com/docs/git#Documentation/git.txt--Cltpathgt
	IgnoreFile pflag.Value // extra file of patterns to ignore, on top of .gitliteignore
}

func newRootCmd(cwd string, e *env.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "git-lite",
		Short:         "minimal version control system",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := &globalFlags{
		env:        e,
		C:          pathutil.NewDirPathFlagWithDefault(cwd),
		IgnoreFile: pathutil.NewFilePathFlag(),
	}
	cmd.PersistentFlags().VarP(cfg.C, "C", "C", "Run as if git-lite was started in the provided path instead of the current working directory.")
	cmd.PersistentFlags().Var(cfg.IgnoreFile, "ignore-file", "File containing extra patterns of files to ignore.")

	// porcelain
	cmd.AddCommand(newInitCmd(cfg))
	cmd.AddCommand(newAddCmd(cfg))
	cmd.AddCommand(newCommitCmd(cfg))
	cmd.AddCommand(newLogCmd(cfg))
	cmd.AddCommand(newShowCmd(cfg))
	cmd.AddCommand(newDiffCmd(cfg))
	cmd.AddCommand(newStatusCmd(cfg))
	cmd.AddCommand(newCheckoutCmd(cfg))
	cmd.AddCommand(newBranchCmd(cfg))
	cmd.AddCommand(newTagCmd(cfg))
	cmd.AddCommand(newResetCmd(cfg))
	cmd.AddCommand(newMergeCmd(cfg))
	cmd.AddCommand(newFetchCmd(cfg))
	cmd.AddCommand(newPushCmd(cfg))
	cmd.AddCommand(newCloneCmd(cfg))
	cmd.AddCommand(newKCmd(cfg))

	// plumbing
	cmd.AddCommand(newCatFileCmd(cfg))
	cmd.AddCommand(newHashObjectCmd(cfg))
	cmd.AddCommand(newWriteTreeCmd(cfg))
	cmd.AddCommand(newReadTreeCmd(cfg))
	cmd.AddCommand(newMergeBaseCmd(cfg))

	return cmd
}
