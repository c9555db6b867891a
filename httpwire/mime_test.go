package httpwire

import "testing"

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"/index.html":  "text/html",
		"/a.htm":       "text/html",
		"/app.js":      "application/javascript",
		"/app.mjs":     "application/javascript",
		"/s.css":       "text/css",
		"/p.jpg":       "image/jpeg",
		"/p.jpeg":      "image/jpeg",
		"/p.png":       "image/png",
		"/p.gif":       "image/gif",
		"/d.json":      "application/json",
		"/d.pdf":       "application/pdf",
		"/f.ttf":       "font/ttf",
		"/f.ico":       "image/x-icon",
		"/v.svg":       "image/svg+xml",
		"/v.webp":      "image/webp",
		"/t.csv":       "text/csv",
		"/noextension": "text/plain",
		"/a.unknown":   "text/plain",
	}
	for path, want := range cases {
		if got := ContentType(path); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", path, got, want)
		}
	}
}
