package ginternals

import "errors"

// ErrObjectNotFound is an error corresponding to an object not being
// found in the odb
var ErrObjectNotFound = errors.New("object not found")
