package vfs

import "bytes"

// defaultIndexHTML and defaultFaviconICO are the built-in fallback
// assets a host gets for free without supplying its own document root,
// grounded on original_source/include/system/IndexFS.hpp's bundled
// index.html/favicon.ico/WebFront.js trio. Unlike the original, these
// are kept as plain uncompressed bytes rather than br/gzip word tables,
// since this module has no verified compressor output to embed;
// DESIGN.md records that tradeoff.
var defaultIndexHTML = []byte(`<!DOCTYPE html>
<html>
<head><title>WebFront</title></head>
<body>
<h1>WebFront is running</h1>
<script>
  // A host UI script is injected here once a WebLink session links.
</script>
</body>
</html>
`)

// A minimal ICO stub: the file header, one 16x16 32-bpp directory entry
// and its 40-byte bitmap info header. The pixel data the entry declares
// is not included; the stub only gives a browser's favicon probe a hit.
var defaultFaviconICO = []byte{
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
	0x68, 0x01, 0x00, 0x00, 0x16, 0x00, 0x00, 0x00,
	0x28, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// GeneratedFS serves a minimal built-in index.html and favicon.ico, so
// a fresh WebFront server has something to show even before the host
// configures a real document root.
type GeneratedFS struct{}

// NewGeneratedFS returns the default asset backend.
func NewGeneratedFS() GeneratedFS { return GeneratedFS{} }

func (GeneratedFS) Open(path string) (File, bool) {
	switch path {
	case "index.html":
		return memoryFile{Reader: bytes.NewReader(defaultIndexHTML)}, true
	case "favicon.ico":
		return memoryFile{Reader: bytes.NewReader(defaultFaviconICO)}, true
	default:
		return nil, false
	}
}
