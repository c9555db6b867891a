package httpwire

import (
	"bytes"
	"strings"
	"testing"
)

type fakeFile struct {
	*bytes.Reader
	encoded  bool
	encoding string
}

func (f *fakeFile) IsEncoded() bool  { return f.encoded }
func (f *fakeFile) Encoding() string { return f.encoding }

type fakeFileSpec struct {
	body     string
	encoded  bool
	encoding string
}

type fakeFS map[string]fakeFileSpec

func (fs fakeFS) Open(path string) (File, bool) {
	spec, ok := fs[path]
	if !ok {
		return nil, false
	}
	return &fakeFile{Reader: bytes.NewReader([]byte(spec.body)), encoded: spec.encoded, encoding: spec.encoding}, true
}

func newFakeFile(body string, encoded bool, encoding string) fakeFileSpec {
	return fakeFileSpec{body: body, encoded: encoded, encoding: encoding}
}

func parseFull(t *testing.T, raw string) *Request {
	t.Helper()
	p := NewParser()
	if res := p.Feed([]byte(raw)); res != Complete {
		t.Fatalf("Feed() = %v, want Complete", res)
	}
	r := p.Request()
	return &r
}

// Scenario 1 from spec.md §8: GET keep-alive static file.
func TestHandleGetStaticFile(t *testing.T) {
	body := strings.Repeat("a", 42)
	fs := fakeFS{"index.html": newFakeFile(body, false, "")}

	req := parseFull(t, "GET /index.html HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := Handle(req, fs)

	if resp.Status != StatusOK {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Body) != body {
		t.Errorf("body mismatch")
	}
	if ct, _ := headerValue(resp, "Content-Type"); ct != "text/html" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cl, _ := headerValue(resp, "Content-Length"); cl != "42" {
		t.Errorf("Content-Length = %q, want 42", cl)
	}
}

// Scenario 2: HEAD on unknown path.
func TestHandleHeadMissing(t *testing.T) {
	fs := fakeFS{}
	req := parseFull(t, "HEAD /missing HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := Handle(req, fs)

	if resp.Status != StatusNotFound {
		t.Fatalf("Status = %d, want 404", resp.Status)
	}
	if len(resp.Body) == 0 {
		t.Error("expected default error body")
	}
	cl, _ := headerValue(resp, "Content-Length")
	if cl != itoaHelper(len(resp.Body)) {
		t.Errorf("Content-Length mismatch: %q vs body len %d", cl, len(resp.Body))
	}
}

// Scenario 3: WebSocket upgrade.
func TestHandleUpgrade(t *testing.T) {
	req := parseFull(t, "GET /ws HTTP/1.1\r\nHost: x\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n"+
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\nSec-WebSocket-Version: 13\r\n\r\n")
	resp := Handle(req, fakeFS{})

	if resp.Status != StatusSwitchingProtocols {
		t.Fatalf("Status = %d, want 101", resp.Status)
	}
	accept, _ := headerValue(resp, "Sec-WebSocket-Accept")
	if accept != "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=" {
		t.Errorf("Sec-WebSocket-Accept = %q", accept)
	}
	proto, _ := headerValue(resp, "Sec-WebSocket-Protocol")
	if proto != "WebFront_0.1" {
		t.Errorf("Sec-WebSocket-Protocol = %q", proto)
	}
}

// Scenario 6: disallowed traversal.
func TestHandleTraversalRejected(t *testing.T) {
	req := parseFull(t, "GET /../etc/passwd HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := Handle(req, fakeFS{})
	if resp.Status != StatusBadRequest {
		t.Fatalf("Status = %d, want 400", resp.Status)
	}
}

// Scenario 7: encoding negotiation failure.
func TestHandleEncodingNotAcceptable(t *testing.T) {
	fs := fakeFS{"index.html": newFakeFile("body", true, "br")}
	req := parseFull(t, "GET /index.html HTTP/1.1\r\nHost: x\r\nAccept-Encoding: gzip\r\n\r\n")
	resp := Handle(req, fs)
	if resp.Status != StatusVariantAlsoNegotiates {
		t.Fatalf("Status = %d, want 506", resp.Status)
	}
}

func TestHandleEncodingAccepted(t *testing.T) {
	fs := fakeFS{"index.html": newFakeFile("body", true, "br")}
	req := parseFull(t, "GET /index.html HTTP/1.1\r\nHost: x\r\nAccept-Encoding: gzip, br\r\n\r\n")
	resp := Handle(req, fs)
	if resp.Status != StatusOK {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if enc, _ := headerValue(resp, "Content-Encoding"); enc != "br" {
		t.Errorf("Content-Encoding = %q", enc)
	}
}

func TestHandleUnsupportedMethod(t *testing.T) {
	req := parseFull(t, "POST /index.html HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := Handle(req, fakeFS{})
	if resp.Status != StatusNotImplemented {
		t.Fatalf("Status = %d, want 501", resp.Status)
	}
}

func TestHandleTrailingSlashAppendsIndex(t *testing.T) {
	fs := fakeFS{"dir/index.html": newFakeFile("hi", false, "")}
	req := parseFull(t, "GET /dir/ HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := Handle(req, fs)
	if resp.Status != StatusOK {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
}

func headerValue(r *Response, name string) (string, bool) {
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

func itoaHelper(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
