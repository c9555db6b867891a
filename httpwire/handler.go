package httpwire

import (
	"io"
	"strconv"
	"strings"
)

// File is the read-only view of an opened file that the request handler
// needs: its bytes, and whether they are pre-compressed under a fixed
// encoding tag (component C11 backends implement this).
type File interface {
	io.Reader
	IsEncoded() bool
	Encoding() string
}

// FileSystem is the read-only collaborator the request handler looks
// paths up against. vfs.Multi and its backends implement this.
type FileSystem interface {
	Open(path string) (File, bool)
}

// webSocketSubprotocol is the fixed value this runtime advertises in the
// upgrade response, per spec.md §4.2 step 3.
const webSocketSubprotocol = "WebFront_0.1"

// Handle implements component C5: given a complete Request and a
// read-only filesystem collaborator, produce a Response. See spec.md
// §4.2 for the full algorithm; this is a literal transcription.
func Handle(req *Request, fs FileSystem) *Response {
	path := DecodeURI(req.URI)

	if path == "" || path[0] != '/' || strings.Contains(path, "..") {
		return NewErrorResponse(StatusBadRequest)
	}
	if strings.HasSuffix(path, "/") {
		path += "index.html"
	}

	if req.Method == MethodGet && isUpgradeRequest(req) {
		return upgradeResponse(req)
	}

	switch req.Method {
	case MethodGet, MethodHead:
		return serveFile(req.Method, path, req, fs)
	default:
		return NewErrorResponse(StatusNotImplemented)
	}
}

func isUpgradeRequest(req *Request) bool {
	if !req.HeaderContainsToken("Connection", "upgrade") {
		return false
	}
	if !req.HeaderContainsToken("Upgrade", "websocket") {
		return false
	}
	_, hasKey := req.Header("Sec-WebSocket-Key")
	return hasKey
}

func upgradeResponse(req *Request) *Response {
	key, _ := req.Header("Sec-WebSocket-Key")
	r := &Response{Status: StatusSwitchingProtocols}
	r.SetHeader("Upgrade", "websocket")
	r.SetHeader("Connection", "Upgrade")
	r.SetHeader("Sec-WebSocket-Accept", ComputeAcceptKey(key))
	r.SetHeader("Sec-WebSocket-Protocol", webSocketSubprotocol)
	r.SetHeader("Content-Length", "0")
	return r
}

func serveFile(method Method, path string, req *Request, fs FileSystem) *Response {
	f, ok := fs.Open(strings.TrimPrefix(path, "/"))
	if !ok {
		return NewErrorResponse(StatusNotFound)
	}

	var body []byte
	if method == MethodGet {
		b, err := io.ReadAll(f)
		if err != nil {
			return NewErrorResponse(StatusNotFound)
		}
		body = b
	}

	r := &Response{Status: StatusOK, Body: body}
	r.SetHeader("Content-Type", ContentType(path))

	if f.IsEncoded() {
		enc := f.Encoding()
		if !acceptsEncoding(req, enc) {
			return NewErrorResponse(StatusVariantAlsoNegotiates)
		}
		r.SetHeader("Content-Encoding", enc)
		r.ContentEncoding = enc
	}

	r.SetHeader("Content-Length", strconv.Itoa(len(body)))
	return r
}

func acceptsEncoding(req *Request, encoding string) bool {
	accept, ok := req.Header("Accept-Encoding")
	if !ok {
		return false
	}
	for _, tok := range strings.Split(accept, ",") {
		if strings.EqualFold(strings.TrimSpace(tok), encoding) {
			return true
		}
	}
	return false
}

