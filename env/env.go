// Package env contains a snapshot of the environment used to configure
// a repository
package env

import (
	"os"
	"strings"
)

// Variables read from the environment
const (
	// DirKey overrides the path of the control directory
	DirKey = "GITLITE_DIR"
	// WorkTreeKey overrides the path of the working tree. It requires
	// DirKey to be set
	WorkTreeKey = "GITLITE_WORK_TREE"
	// ObjectDirKey overrides the path of the object store
	ObjectDirKey = "GITLITE_OBJECT_DIRECTORY"
	// ConfigKey overrides the path of the repository config file
	ConfigKey = "GITLITE_CONFIG"
	// HomeKey is used to find the global config file
	HomeKey = "HOME"
)

// Env represents the environment
type Env struct {
	env map[string]string
}

// NewFromOs builds and returns an Env using os.Environ
func NewFromOs() *Env {
	return NewFromKVList(os.Environ())
}

// NewFromKVList builds and returns an Env using a provided list of
// string in the form "key=value".
// Only the first "=" is used as separator so values may contain "="
func NewFromKVList(env []string) *Env {
	e := &Env{
		make(map[string]string, len(env)),
	}
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		e.env[key] = value
	}
	return e
}

// Has returns whether the given key has a value set.
// Has is case-sensitive.
func (e *Env) Has(key string) bool {
	_, ok := e.env[key]
	return ok
}

// Get returns the value of the given key, or en empty string if the key
// has no values set.
// Get is case-sensitive.
func (e *Env) Get(key string) string {
	return e.env[key]
}
