package vfs

import (
	"bytes"
	"encoding/binary"
)

// Asset describes one file backed by a packed word table rather than a
// byte slice, matching the host asset-generation tool's output format
// (spec.md §6): "bytes are packed 8-to-a-word in big-endian order".
type Asset struct {
	Words    []uint64
	DataSize int
	Encoding string // "br", "gzip", or "" for uncompressed
}

// Bytes reconstructs the asset's byte stream from its packed word
// table, regardless of this host's native endianness.
func (a Asset) Bytes() []byte {
	out := make([]byte, len(a.Words)*8)
	for i, w := range a.Words {
		binary.BigEndian.PutUint64(out[i*8:], w)
	}
	if a.DataSize < len(out) {
		out = out[:a.DataSize]
	}
	return out
}

// memoryFile adapts a decoded Asset's bytes to httpwire.File.
type memoryFile struct {
	*bytes.Reader
	encoding string
}

func (f memoryFile) IsEncoded() bool  { return f.encoding != "" }
func (f memoryFile) Encoding() string { return f.encoding }

// InMemoryFS serves a fixed set of assets kept entirely in memory, each
// tagged with its own content-encoding. Grounded on
// original_source/include/system/IndexFS.hpp's WebFrontJs/WebFrontIco
// tables, generalized to hold an arbitrary, host-supplied asset set
// instead of one fixed trio.
type InMemoryFS struct {
	assets map[string][]byte
	codecs map[string]string
}

// NewInMemoryFS builds a backend from a path → Asset map, typically
// produced by the host's asset-generation tool (out of scope per
// spec.md §1) and linked into the binary as Go data literals.
func NewInMemoryFS(assets map[string]Asset) *InMemoryFS {
	fs := &InMemoryFS{assets: make(map[string][]byte, len(assets)), codecs: make(map[string]string, len(assets))}
	for path, a := range assets {
		fs.assets[path] = a.Bytes()
		fs.codecs[path] = a.Encoding
	}
	return fs
}

// Open returns the asset at path, if registered.
func (fs *InMemoryFS) Open(path string) (File, bool) {
	data, ok := fs.assets[path]
	if !ok {
		return nil, false
	}
	return memoryFile{Reader: bytes.NewReader(data), encoding: fs.codecs[path]}, true
}
