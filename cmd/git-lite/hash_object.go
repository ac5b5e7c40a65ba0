package main

import (
	"fmt"
	"io"

	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newHashObjectCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-object FILE",
		Short: "Compute object ID and optionally creates a blob from a file",
		Args:  cobra.ExactArgs(1),
	}

	typ := cmd.Flags().StringP("type", "t", "blob", "Specify the type")
	write := cmd.Flags().BoolP("write", "w", false, "Actually write the object into the object database.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return hashObjectCmd(cmd.OutOrStdout(), cfg, absPath(cfg, args[0]), *typ, *write)
	}

	return cmd
}

func hashObjectCmd(out io.Writer, cfg *globalFlags, filePath, typ string, write bool) error {
	content, err := afero.ReadFile(afero.NewOsFs(), filePath)
	if err != nil {
		return err
	}

	var o *object.Object
	switch typ {
	case object.TypeBlob.String():
		o = object.New(object.TypeBlob, content)
	case object.TypeCommit.String():
		o = object.New(object.TypeCommit, content)
		if _, err = o.AsCommit(); err != nil {
			return xerrors.Errorf("invalid commit file: %w", err)
		}
	case object.TypeTree.String():
		o = object.New(object.TypeTree, content)
		if _, err = o.AsTree(); err != nil {
			return xerrors.Errorf("invalid tree file: %w", err)
		}
	default:
		return xerrors.Errorf("unsupported object type %s", typ)
	}

	if write {
		if err = writeObject(cfg, o); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, o.ID().String())
	return nil
}

func writeObject(cfg *globalFlags, o *object.Object) (err error) {
	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	if _, err = r.Backend().WriteObject(o); err != nil {
		return xerrors.Errorf("could not write the object: %w", err)
	}
	return nil
}
