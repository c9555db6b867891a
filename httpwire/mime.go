package httpwire

import "strings"

// mimeByExtension is the fixed content-type table from spec.md §6,
// grounded on the original source's webfront::http::MimeType.
var mimeByExtension = map[string]string{
	".htm":  "text/html",
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".json": "application/json",
	".pdf":  "application/pdf",
	".ttf":  "font/ttf",
	".ico":  "image/x-icon",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".csv":  "text/csv",
}

// ContentType derives the Content-Type for a path from its extension,
// defaulting to text/plain for anything not in the fixed table.
func ContentType(path string) string {
	ext := extensionOf(path)
	if ct, ok := mimeByExtension[ext]; ok {
		return ct
	}
	return "text/plain"
}

func extensionOf(path string) string {
	dot := strings.LastIndexByte(path, '.')
	slash := strings.LastIndexByte(path, '/')
	if dot <= slash {
		return ""
	}
	return strings.ToLower(path[dot:])
}
