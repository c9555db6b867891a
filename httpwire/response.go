package httpwire

import (
	"fmt"
	"strconv"
)

// StatusCode is an HTTP response status, restricted to the codes this
// runtime ever emits (spec.md §3).
type StatusCode int

const (
	StatusSwitchingProtocols  StatusCode = 101
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusForbidden           StatusCode = 403
	StatusNotFound            StatusCode = 404
	StatusNotImplemented      StatusCode = 501
	StatusVariantAlsoNegotiates StatusCode = 506
)

// reasonPhrases holds the exact strings spec.md §6 requires.
var reasonPhrases = map[StatusCode]string{
	StatusSwitchingProtocols:    "Switching Protocols",
	StatusOK:                    "OK",
	StatusBadRequest:            "Bad Request",
	StatusForbidden:             "Forbidden",
	StatusNotFound:              "Not Found",
	StatusNotImplemented:        "Not Implemented",
	StatusVariantAlsoNegotiates: "Variant Also Negotiates",
}

// Reason returns the fixed reason phrase for code, or "Unknown" for any
// code outside the table (which the core never produces).
func (c StatusCode) Reason() string {
	if r, ok := reasonPhrases[c]; ok {
		return r
	}
	return "Unknown"
}

// Response is a fully formed HTTP response, ready for serialization. It
// is owned by the reactor.Connection that built it until the bytes have
// been written to the socket.
type Response struct {
	Status          StatusCode
	Headers         []Header
	Body            []byte
	ContentEncoding string // "", "br", or "gzip"
}

// SetHeader sets (overwriting, if present) a header on the response.
func (r *Response) SetHeader(name, value string) {
	for i := range r.Headers {
		if r.Headers[i].Name == name {
			r.Headers[i].Value = value
			return
		}
	}
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
}

// DefaultErrorBody renders the fixed error body template from spec.md §6.
func DefaultErrorBody(code StatusCode) []byte {
	reason := code.Reason()
	return []byte(fmt.Sprintf(
		"<html><head><title>%s</title></head><body><h1>%d %s</h1></body></html>",
		reason, int(code), reason,
	))
}

// NewErrorResponse builds a Response carrying the default HTML error body
// and a correct Content-Length, for any of the non-2xx/101 status codes
// the request handler can produce.
func NewErrorResponse(code StatusCode) *Response {
	body := DefaultErrorBody(code)
	r := &Response{Status: code, Body: body}
	r.SetHeader("Content-Length", strconv.Itoa(len(body)))
	return r
}

// Bytes serializes the response head followed by its body, in the exact
// wire format of spec.md §6:
//
//	HTTP/1.1 <code> <reason>\r\n
//	<headers>\r\n
//	\r\n
//	<body>
func (r *Response) Bytes() []byte {
	var out []byte
	out = append(out, fmt.Sprintf("HTTP/1.1 %d %s\r\n", int(r.Status), r.Status.Reason())...)
	for _, h := range r.Headers {
		out = append(out, fmt.Sprintf("%s: %s\r\n", h.Name, h.Value)...)
	}
	out = append(out, "\r\n"...)
	out = append(out, r.Body...)
	return out
}
