package ginternals

import (
	"bufio"
	"bytes"
	"errors"
	"sort"
	"strings"

	"golang.org/x/xerrors"
)

// ErrIndexInvalid is an error thrown when the index file cannot be
// parsed
var ErrIndexInvalid = errors.New("invalid index")

// Index represents the staging area: a flat mapping between the path
// of a file (relative to the root of the working tree, using "/" as
// separator) and the Oid of a blob.
// Directories are never stored, they are implicit in the paths.
//
// An index is persisted as one line per entry, sorted by path:
//
//	<40-hex oid> <path>\n
type Index struct {
	entries map[string]Oid
}

// NewIndex returns an empty index
func NewIndex() *Index {
	return &Index{
		entries: map[string]Oid{},
	}
}

// Get returns the Oid of the given path
func (idx *Index) Get(path string) (oid Oid, ok bool) {
	oid, ok = idx.entries[path]
	return oid, ok
}

// Set sets the Oid of a path
func (idx *Index) Set(path string, oid Oid) {
	idx.entries[path] = oid
}

// Delete removes a path from the index
func (idx *Index) Delete(path string) {
	delete(idx.entries, path)
}

// Replace replaces all the entries of the index by a copy of the
// given ones
func (idx *Index) Replace(entries map[string]Oid) {
	idx.entries = make(map[string]Oid, len(entries))
	for p, oid := range entries {
		idx.entries[p] = oid
	}
}

// Len returns the number of entries in the index
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Paths returns all the paths of the index, sorted
func (idx *Index) Paths() []string {
	paths := make([]string, 0, len(idx.entries))
	for p := range idx.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Entries returns a copy of the entries of the index
func (idx *Index) Entries() map[string]Oid {
	out := make(map[string]Oid, len(idx.entries))
	for p, oid := range idx.entries {
		out[p] = oid
	}
	return out
}

// Encode returns the persisted representation of the index
func (idx *Index) Encode() []byte {
	buf := new(bytes.Buffer)
	for _, p := range idx.Paths() {
		buf.WriteString(idx.entries[p].String())
		buf.WriteByte(' ')
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DecodeIndex parses a persisted index
func DecodeIndex(data []byte) (*Index, error) {
	idx := NewIndex()
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; sc.Scan(); i++ {
		line := sc.Text()
		if line == "" {
			continue
		}
		sha, path, found := strings.Cut(line, " ")
		if !found || path == "" {
			return nil, xerrors.Errorf("line %d: missing path: %w", i, ErrIndexInvalid)
		}
		oid, err := NewOidFromStr(sha)
		if err != nil {
			return nil, xerrors.Errorf("line %d: invalid oid %s: %w", i, sha, ErrIndexInvalid)
		}
		idx.entries[path] = oid
	}
	if err := sc.Err(); err != nil {
		return nil, xerrors.Errorf("could not read index: %w", err)
	}
	return idx, nil
}
