package main

import (
	"fmt"
	"io"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals/config"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newInitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
	}

	branch := cmd.Flags().StringP("initial-branch", "b", "", "Use the specified name for the initial branch in the newly created repository.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := cfg.C.String()
		if len(args) > 0 {
			dir = absPath(cfg, args[0])
		}
		return initCmd(cmd.OutOrStdout(), cfg, dir, *branch)
	}

	return cmd
}

func initCmd(out io.Writer, cfg *globalFlags, dir, branch string) error {
	p, err := config.LoadConfig(cfg.env, config.LoadConfigOptions{
		WorkingDirectory: dir,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return xerrors.Errorf("could not create param: %w", err)
	}
	r, err := git.InitRepositoryWithParams(p, git.InitOptions{
		InitialBranchName: branch,
		IgnoreFiles:       cfg.ignoreFiles(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Initialized empty repository in %s\n", p.GitDirPath)
	return r.Close()
}
