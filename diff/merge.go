package diff

import (
	"bytes"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"golang.org/x/xerrors"
)

// Conflict markers
const (
	MarkerHead      = "<<<<<<< HEAD"
	MarkerSeparator = "======="
	MarkerOther     = ">>>>>>>"
)

// resolution contains the side selected by a three-way merge
type resolution int8

const (
	takeHead resolution = iota
	takeOther
	conflict
)

// resolve applies the three-way merge rules to the ids of a single
// path, in order:
//  1. both sides agree
//  2. head is unchanged, other's change wins
//  3. other is unchanged, head's change wins
//  4. both changed differently: conflict
func resolve(base, head, other ginternals.Oid) resolution {
	switch {
	case head == other:
		return takeHead
	case base == head:
		return takeOther
	case base == other:
		return takeHead
	default:
		return conflict
	}
}

// conflictContent returns the content of head and other wrapped in
// conflict markers
func conflictContent(head, other []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(MarkerHead + "\n")
	buf.Write(head)
	buf.WriteString("\n" + MarkerSeparator + "\n")
	buf.Write(other)
	buf.WriteString("\n" + MarkerOther + "\n")
	return buf.Bytes()
}

// MergeBlobs returns the three-way merge of the content of the given
// blobs. ginternals.NullOid is treated as an empty content.
// conflicted is true when both sides changed, in which case the
// returned content contains conflict markers
func MergeBlobs(r ObjectReader, base, head, other ginternals.Oid) (content []byte, conflicted bool, err error) {
	var oid ginternals.Oid
	switch resolve(base, head, other) {
	case takeHead:
		oid = head
	case takeOther:
		oid = other
	case conflict:
		headContent, err := blobContent(r, head)
		if err != nil {
			return nil, false, err
		}
		otherContent, err := blobContent(r, other)
		if err != nil {
			return nil, false, err
		}
		return conflictContent(headContent, otherContent), true, nil
	}

	content, err = blobContent(r, oid)
	if err != nil {
		return nil, false, err
	}
	if content == nil {
		content = []byte{}
	}
	return content, false, nil
}

// MergeTrees merges every path of the three given trees and returns the
// merged tree, and the sorted list of paths in conflict.
// Conflicted contents are stored in s.
// A path is removed from the merged tree when the selected side doesn't
// contain it
func MergeTrees(s ObjectStore, base, head, other map[string]ginternals.Oid) (merged map[string]ginternals.Oid, conflicts []string, err error) {
	merged = make(map[string]ginternals.Oid, len(head))
	conflicts = []string{}
	for _, row := range Align(base, head, other) {
		b, h, o := row.IDs[0], row.IDs[1], row.IDs[2]
		switch resolve(b, h, o) {
		case takeHead:
			if !h.IsZero() {
				merged[row.Path] = h
			}
		case takeOther:
			if !o.IsZero() {
				merged[row.Path] = o
			}
		case conflict:
			content, _, err := MergeBlobs(s, b, h, o)
			if err != nil {
				return nil, nil, xerrors.Errorf("could not merge %s: %w", row.Path, err)
			}
			oid, err := s.WriteObject(object.New(object.TypeBlob, content))
			if err != nil {
				return nil, nil, xerrors.Errorf("could not store the merged version of %s: %w", row.Path, err)
			}
			merged[row.Path] = oid
			conflicts = append(conflicts, row.Path)
		}
	}
	return merged, conflicts, nil
}
