// Package blob stores uploaded images under path-style references that the
// HTTP layer serves statically.
package blob

import "io"

type Store interface {
	// Put writes the upload and returns the reference to serve it under.
	// The stored name is derived from originalName but collision-resistant.
	Put(originalName string, data io.Reader) (string, error)
	// Remove deletes the blob a previous Put returned ref for.
	Remove(ref string) error
}
