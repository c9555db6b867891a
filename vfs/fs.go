// Package vfs implements the virtual filesystem composition (component
// C11): a uniform Open(path) interface with a composite that tries
// several backends in order, plus the concrete backends the host
// supplies — a native disk root, in-memory pre-compressed byte blobs,
// and a built-in default asset set.
//
// Grounded on original_source/include/system/{Filesystem,NativeFS,IndexFS}.hpp
// for the concept and the packed-asset-table format; expressed here as
// the same Open(path) (File, bool) shape httpwire.FileSystem consumes,
// so every backend in this package is directly usable as C5's
// filesystem collaborator.
package vfs

import "github.com/webfrontgo/webfront/httpwire"

// File and FileSystem are re-exported aliases of httpwire's
// collaborator interfaces, so package vfs can be read standalone
// without forcing callers to import httpwire just to spell the types.
type File = httpwire.File
type FileSystem = httpwire.FileSystem

// Multi composes several backends, trying each in registration order
// and returning the first hit — the Go equivalent of the C++
// Multi<FS1, FS2, …> template composite.
type Multi struct {
	backends []FileSystem
}

// NewMulti builds a composite trying each backend in order.
func NewMulti(backends ...FileSystem) *Multi {
	return &Multi{backends: backends}
}

// Open tries each backend in order, returning the first hit.
func (m *Multi) Open(path string) (File, bool) {
	for _, b := range m.backends {
		if f, ok := b.Open(path); ok {
			return f, ok
		}
	}
	return nil, false
}
