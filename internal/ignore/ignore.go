// Package ignore contains the predicate used to skip files of the
// working tree
package ignore

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// FileName is the name of the file, at the root of the working tree,
// that contains the patterns of the files to ignore
const FileName = ".gitliteignore"

// defaultPatterns are always ignored
var defaultPatterns = []string{
	// control directory
	".gitlite/",
	// python build artifacts
	"__pycache__/",
	"*.pyc",
	"*.pyo",
	"*.pyd",
}

type pattern struct {
	glob    string
	negated bool
	dirOnly bool
}

// Matcher reports whether a path of the working tree should be ignored.
// Patterns use the gitignore syntax: "!" negates, a trailing "/"
// only matches directories, a leading "/" anchors to the root, and
// a pattern without "/" matches at any depth
type Matcher struct {
	patterns []pattern
}

// New returns a Matcher that contains the default patterns and the
// given ones
func New(patterns ...string) *Matcher {
	m := &Matcher{}
	m.AddPatterns(defaultPatterns)
	m.AddPatterns(patterns)
	return m
}

// Load returns a Matcher that contains the default patterns, the
// patterns of the FileName file of workTree if any, and the patterns
// of each of the extra files
func Load(fs afero.Fs, workTree string, extraFiles ...string) (*Matcher, error) {
	m := New()
	if err := m.addFile(fs, filepath.Join(workTree, FileName), true); err != nil {
		return nil, err
	}
	for _, p := range extraFiles {
		if err := m.addFile(fs, p, false); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddPattern adds a single pattern. Blank lines and comments are
// skipped
func (m *Matcher) AddPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	p := pattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")
	if !anchored && !strings.Contains(line, "/") {
		line = "**/" + line
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return
	}
	p.glob = line
	m.patterns = append(m.patterns, p)
}

// AddPatterns adds multiple patterns
func (m *Matcher) AddPatterns(lines []string) {
	for _, l := range lines {
		m.AddPattern(l)
	}
}

func (m *Matcher) addFile(fs afero.Fs, path string, optional bool) (err error) {
	f, err := fs.Open(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return xerrors.Errorf("could not open %s: %w", path, err)
	}
	defer errutil.Close(f, &err)

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m.AddPattern(sc.Text())
	}
	if err = sc.Err(); err != nil {
		return xerrors.Errorf("could not read %s: %w", path, err)
	}
	return nil
}

// Match returns whether the given slash path, relative to the root of
// the working tree, is ignored. The last matching pattern wins
func (m *Matcher) Match(path string, isDir bool) bool {
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	ignored := false
	for _, p := range m.patterns {
		var matched bool
		if p.dirOnly && !isDir {
			matched = matchParent(p.glob, path)
		} else {
			matched = matchPattern(p.glob, path)
		}
		if matched {
			ignored = !p.negated
		}
	}
	return ignored
}

// matchParent returns whether one of the parent directories of path
// matches the pattern
func matchParent(glob, path string) bool {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if matchPattern(glob, strings.Join(parts[:i], "/")) {
			return true
		}
	}
	return false
}

// matchPattern returns whether path or one of its parents matches the
// pattern
func matchPattern(glob, path string) bool {
	// patterns are validated when added so errors cannot happen
	if matched, _ := doublestar.Match(glob, path); matched {
		return true
	}
	matched, _ := doublestar.Match(glob+"/**", path)
	return matched
}
