package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var errBadFile = errors.New("bad file")

func newCatFileCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file [TYPE] OBJECT",
		Short: "Provide content or type and size information for repository objects",
		Args:  cobra.RangeArgs(1, 2),
	}

	typeOnly := cmd.Flags().BoolP("t", "t", false, "Instead of the content, show the object type identified by <object>.")
	sizeOnly := cmd.Flags().BoolP("s", "s", false, "Instead of the content, show the object size identified by <object>.")
	prettyPrint := cmd.Flags().BoolP("p", "p", false, "Pretty-print the contents of <object> based on its type.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p := catFileParams{
			typeOnly:    *typeOnly,
			sizeOnly:    *sizeOnly,
			prettyPrint: *prettyPrint,
			objectName:  args[0],
		}
		if len(args) == 2 {
			p.typ = args[0]
			p.objectName = args[1]
		}
		return catFileCmd(cmd.OutOrStdout(), cfg, p)
	}
	return cmd
}

type catFileParams struct {
	typeOnly    bool
	sizeOnly    bool
	prettyPrint bool
	objectName  string
	typ         string
}

func catFileCmd(out io.Writer, cfg *globalFlags, p catFileParams) (err error) {
	// Validate options
	if p.typ != "" && (p.typeOnly || p.sizeOnly || p.prettyPrint) {
		return errors.New("type not supported with options -t, -s, -p")
	}
	if p.typ == "" && !p.typeOnly && !p.sizeOnly && !p.prettyPrint {
		return errors.New("type and object required")
	}
	if p.typeOnly {
		switch {
		case p.sizeOnly:
			return errors.New("option -s not supported with option -t")
		case p.prettyPrint:
			return errors.New("option -p not supported with option -t")
		}
	}
	if p.sizeOnly && p.prettyPrint {
		return errors.New("option -p not supported with option -s")
	}

	r, err := loadRepository(cfg)
	if err != nil {
		return err
	}
	defer errutil.Close(r, &err)

	oid, err := r.ResolveName(p.objectName)
	if err != nil {
		return xerrors.Errorf("not a valid object name: %w", err)
	}
	o, err := r.Object(oid)
	if err != nil {
		return err
	}

	if p.typ != "" {
		if _, err = object.NewTypeFromString(p.typ); err != nil {
			return xerrors.Errorf("%s: %w", p.typ, err)
		}
		if o.Type().String() != p.typ {
			return xerrors.Errorf("%s: %w", p.objectName, errBadFile)
		}
	}

	switch {
	case p.sizeOnly:
		fmt.Fprintln(out, strconv.Itoa(o.Size()))
	case p.typeOnly:
		fmt.Fprintln(out, o.Type().String())
	case p.prettyPrint:
		switch o.Type() {
		case object.TypeCommit:
			c, err := o.AsCommit()
			if err != nil {
				return xerrors.Errorf("could not get commit: %w", err)
			}
			fmt.Fprintf(out, "tree %s\n", c.TreeID().String())
			for _, id := range c.ParentIDs() {
				fmt.Fprintf(out, "parent %s\n", id.String())
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, c.Message())
		case object.TypeTree:
			tree, err := o.AsTree()
			if err != nil {
				return xerrors.Errorf("could not get tree: %w", err)
			}
			for _, e := range tree.Entries() {
				fmt.Fprintf(out, "%s %s\t%s\n", e.Kind.String(), e.ID.String(), e.Name)
			}
		case object.TypeBlob:
			fmt.Fprint(out, string(o.Bytes()))
		default:
			return xerrors.Errorf("pretty-print not supported for type %s", o.Type().String())
		}
	default:
		fmt.Fprint(out, string(o.Bytes()))
	}
	return nil
}
