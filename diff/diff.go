// Package diff contains the methods to compare and merge flattened
// trees (path -> blob id mappings)
package diff

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/xerrors"
)

// binarySniffLen is the number of bytes inspected to decide if a
// content is binary
const binarySniffLen = 8000

// ObjectReader represents a store objects can be read from
type ObjectReader interface {
	Object(oid ginternals.Oid) (*object.Object, error)
}

// ObjectStore represents a store objects can be read from and
// written to
type ObjectStore interface {
	ObjectReader
	WriteObject(o *object.Object) (ginternals.Oid, error)
}

// Row represents a path and its blob id in each of the aligned trees.
// IDs[i] is ginternals.NullOid if the path is not in the tree i
type Row struct {
	Path string
	IDs  []ginternals.Oid
}

// Align outer-joins the given trees on their paths.
// The rows are sorted by path
func Align(trees ...map[string]ginternals.Oid) []Row {
	rows := map[string][]ginternals.Oid{}
	for i, t := range trees {
		for p, oid := range t {
			ids, ok := rows[p]
			if !ok {
				ids = make([]ginternals.Oid, len(trees))
				rows[p] = ids
			}
			ids[i] = oid
		}
	}

	out := make([]Row, 0, len(rows))
	for p, ids := range rows {
		out = append(out, Row{Path: p, IDs: ids})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// Action represents the kind of change that happened to a path
type Action int8

// List of all the possible actions
const (
	ActionAdded Action = iota + 1
	ActionDeleted
	ActionModified
)

func (a Action) String() string {
	switch a {
	case ActionAdded:
		return "new file"
	case ActionDeleted:
		return "deleted"
	case ActionModified:
		return "modified"
	default:
		return fmt.Sprintf("unknown(%d)", a)
	}
}

// Change represents a path that differs between two trees
type Change struct {
	Path   string
	Action Action
	From   ginternals.Oid
	To     ginternals.Oid
}

// ClassifyChanges returns the paths that differ between from and to,
// sorted by path
func ClassifyChanges(from, to map[string]ginternals.Oid) []Change {
	changes := []Change{}
	for _, row := range Align(from, to) {
		f, t := row.IDs[0], row.IDs[1]
		if f == t {
			continue
		}
		c := Change{
			Path:   row.Path,
			From:   f,
			To:     t,
			Action: ActionModified,
		}
		switch {
		case f.IsZero():
			c.Action = ActionAdded
		case t.IsZero():
			c.Action = ActionDeleted
		}
		changes = append(changes, c)
	}
	return changes
}

// blobContent returns the content of a blob, or nil if oid is
// ginternals.NullOid
func blobContent(r ObjectReader, oid ginternals.Oid) ([]byte, error) {
	if oid.IsZero() {
		return nil, nil
	}
	o, err := r.Object(oid)
	if err != nil {
		return nil, xerrors.Errorf("could not get object %s: %w", oid, err)
	}
	blob, err := o.AsBlob()
	if err != nil {
		return nil, err
	}
	return blob.Bytes(), nil
}

// IsBinary returns whether the content looks like binary data
func IsBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}

// DiffTrees renders the changes between 2 trees
//
// Each changed path is rendered as:
//
//	--- a/{path}
//	+++ b/{path}
//	@@ -{old-start},{old-lines} +{new-start},{new-lines} @@
//	 {common line}
//	-{removed line}
//	+{added line}
//
// Added and deleted files use /dev/null as the other side. Binary
// contents are not rendered
func DiffTrees(r ObjectReader, from, to map[string]ginternals.Oid) ([]byte, error) {
	buf := new(bytes.Buffer)
	for _, c := range ClassifyChanges(from, to) {
		oldContent, err := blobContent(r, c.From)
		if err != nil {
			return nil, err
		}
		newContent, err := blobContent(r, c.To)
		if err != nil {
			return nil, err
		}

		oldName, newName := "a/"+c.Path, "b/"+c.Path
		switch c.Action {
		case ActionAdded:
			oldName = "/dev/null"
		case ActionDeleted:
			newName = "/dev/null"
		}
		fmt.Fprintf(buf, "--- %s\n+++ %s\n", oldName, newName)

		if IsBinary(oldContent) || IsBinary(newContent) {
			fmt.Fprintf(buf, "Binary files %s and %s differ\n", oldName, newName)
			continue
		}
		writeLineDiff(buf, string(oldContent), string(newContent))
	}
	return buf.Bytes(), nil
}

// splitLines splits a text into lines, without the line terminators
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// hunkRange returns the range of a hunk header
func hunkRange(count int) string {
	if count == 0 {
		return "0,0"
	}
	return fmt.Sprintf("1,%d", count)
}

// writeLineDiff writes a line-based diff of the two texts as a single
// hunk
func writeLineDiff(buf *bytes.Buffer, oldText, newText string) {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	fmt.Fprintf(buf, "@@ -%s +%s @@\n", hunkRange(len(splitLines(oldText))), hunkRange(len(splitLines(newText))))
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}
		for _, line := range splitLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
}
