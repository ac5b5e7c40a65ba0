package main

import (
	"fmt"
	"io"
	"strings"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/Nivl/git-lite/remote"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

// openRemote opens the repository of a remote. name is either the
// name of a remote from the config, or the path to a repository, in
// which case the remote is named origin
func openRemote(cfg *globalFlags, r *git.Repository, name string) (rem *git.Repository, remoteName string, err error) {
	path := name
	remoteName = ginternals.Origin
	if url, ok := r.Config.FromFiles().RemoteURL(name); ok {
		path = url
		remoteName = name
	}
	rem, err = remote.Open(absPath(cfg, path))
	if err != nil {
		return nil, "", xerrors.Errorf("could not open remote %s: %w", name, err)
	}
	return rem, remoteName, nil
}

func newFetchCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [REMOTE]",
		Short: "Download objects and refs from another repository",
		Long:  "Download objects and refs from another repository. REMOTE is either the name of a remote, or the path to a repository. Defaults to origin.",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		name := ginternals.Origin
		if len(args) > 0 {
			name = args[0]
		}
		return fetchCmd(cmd.OutOrStdout(), cfg, name)
	}
	return cmd
}

func fetchCmd(out io.Writer, cfg *globalFlags, name string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	rem, remoteName, err := openRemote(cfg, r, name)
	if err != nil {
		return err
	}
	defer errutil.Close(rem, &err)

	count, err := remote.Fetch(r, rem, remoteName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Fetched %d objects from %s\n", count, name)
	return nil
}

func newPushCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push REMOTE BRANCH",
		Short: "Update remote refs along with associated objects",
		Long:  "Update remote refs along with associated objects. REMOTE is either the name of a remote, or the path to a repository.",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return pushCmd(cmd.OutOrStdout(), cfg, args[0], args[1])
	}
	return cmd
}

func pushCmd(out io.Writer, cfg *globalFlags, name, branch string) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	rem, _, err := openRemote(cfg, r, name)
	if err != nil {
		return err
	}
	defer errutil.Close(rem, &err)

	count, err := remote.Push(r, rem, branch)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Pushed %d objects to %s %s\n", count, name, strings.TrimPrefix(branch, ginternals.RefsHeadsPrefix))
	return nil
}

func newCloneCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone REPOSITORY DIRECTORY",
		Short: "Clone a repository into a new directory",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return cloneCmd(cmd.OutOrStdout(), cfg, args[0], args[1])
	}
	return cmd
}

func cloneCmd(out io.Writer, cfg *globalFlags, src, dst string) error {
	dst = absPath(cfg, dst)
	r, err := remote.Clone(absPath(cfg, src), dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Cloned into %s\n", dst)
	return r.Close()
}
