package httpwire

import (
	"strings"
)

// Header is one (name, value) pair, in the order it appeared on the wire.
type Header struct {
	Name  string
	Value string
}

// Request is a fully parsed HTTP/1.x request, owned by whichever
// reactor.Connection fed it to completion. It is destroyed (garbage
// collected) once the request handler has produced a Response.
type Request struct {
	Method        Method
	URI           string // raw request-target, not yet percent-decoded
	VersionMajor  int
	VersionMinor  int
	Headers       []Header
	rawMethodName string // preserved so an unrecognized method can be reported
}

// Header looks up the first header matching name, case-insensitively, as
// RFC 7230 requires. Returns ("", false) if absent.
func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// HeaderContainsToken reports whether the named header's value contains
// token as a comma-separated element, case-insensitively. Used for the
// Connection/Upgrade upgrade checks in §4.2 of spec.md.
func (r *Request) HeaderContainsToken(name, token string) bool {
	v, ok := r.Header(name)
	if !ok {
		return false
	}
	for _, part := range strings.Split(v, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

// parseState is one state of the byte-wise request-line/header FSM.
// The state ordering and names follow the classic Boost.Asio HTTP server
// tutorial parser (the same shape the original WebFront HTTPServer::Impl
// hand-rolled), adapted to a restartable feed()/reset() contract instead
// of exceptions.
type parseState int

const (
	stateMethodStart parseState = iota
	stateMethod
	stateURI
	stateVersionH
	stateVersionT1
	stateVersionT2
	stateVersionP
	stateVersionSlash
	stateVersionMajorStart
	stateVersionMajor
	stateVersionMinorStart
	stateVersionMinor
	stateNewline1
	stateHeaderLineStart
	stateHeaderLws
	stateHeaderName
	stateSpaceBeforeHeaderValue
	stateHeaderValue
	stateNewline2
	stateNewline3
)

// FeedResult is the outcome of feeding one or more bytes to a Parser.
type FeedResult int

const (
	// NeedMore means the parser consumed valid bytes but has not yet
	// reached a complete request; feed more bytes.
	NeedMore FeedResult = iota
	// Complete means the request line and all headers were parsed
	// successfully; Parser.Request() now returns the result.
	Complete
	// Bad means a byte violated the grammar for the current state; the
	// parser must not be fed further bytes without an explicit Reset.
	Bad
)

// Parser is a byte-wise incremental HTTP/1.x request-line + header
// parser (component C3 of the design). It accepts any prefix of the byte
// stream via Feed and is restartable via Reset; it never consumes a
// message body, since only GET/HEAD are served by this runtime.
type Parser struct {
	state parseState
	req   Request

	methodBuf strings.Builder
	uriBuf    strings.Builder
	headerBuf strings.Builder // current header name being accumulated
	valueBuf  strings.Builder // current header value being accumulated
	bad       bool
}

// NewParser returns a Parser ready to parse a new request.
func NewParser() *Parser {
	p := &Parser{}
	p.Reset()
	return p
}

// Reset discards any partial parse state and returns the parser to its
// initial state, ready for a new request on the same or a different
// connection.
func (p *Parser) Reset() {
	p.state = stateMethodStart
	p.req = Request{}
	p.methodBuf.Reset()
	p.uriBuf.Reset()
	p.headerBuf.Reset()
	p.valueBuf.Reset()
	p.bad = false
}

// Request returns the parsed request. Only meaningful after Feed has
// returned Complete.
func (p *Parser) Request() Request {
	r := p.req
	r.Method = methodFromString(p.methodBuf.String())
	r.rawMethodName = p.methodBuf.String()
	r.URI = p.uriBuf.String()
	return r
}

// Feed consumes as much of data as forms valid grammar, stopping at the
// first byte that would violate the current state's character class, or
// at the terminating blank line (CRLFCRLF-equivalent: newline1 into an
// empty header line).
//
// Feed may be called repeatedly with arbitrary chunk boundaries,
// including single bytes at a time; the result is identical to feeding
// the whole request in one call (see spec.md §8's prefix invariant).
func (p *Parser) Feed(data []byte) FeedResult {
	if p.bad {
		return Bad
	}
	for _, b := range data {
		res, ok := p.consume(b)
		if !ok {
			p.bad = true
			return Bad
		}
		if res == Complete {
			return Complete
		}
	}
	return NeedMore
}

// Character classes, per spec.md §4.1.
func isChar(c byte) bool { return c <= 127 }
func isCtrl(c byte) bool { return c <= 31 || c == 127 }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpecial(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}', ' ', '\t':
		return true
	default:
		return false
	}
}

const (
	cr = '\r'
	lf = '\n'
	sp = ' '
	ht = '\t'
)

// consume feeds one byte through the FSM. The bool return is false iff
// the byte is rejected by the current state (maps to Bad).
//
//nolint:gocyclo // one state machine, one function, mirrors the source shape
func (p *Parser) consume(c byte) (FeedResult, bool) {
	switch p.state {
	case stateMethodStart:
		if !isChar(c) || isCtrl(c) || isSpecial(c) {
			return NeedMore, false
		}
		p.state = stateMethod
		p.methodBuf.WriteByte(c)
		return NeedMore, true

	case stateMethod:
		if c == sp {
			p.state = stateURI
			return NeedMore, true
		}
		if !isChar(c) || isCtrl(c) || isSpecial(c) {
			return NeedMore, false
		}
		p.methodBuf.WriteByte(c)
		return NeedMore, true

	case stateURI:
		if c == sp {
			p.state = stateVersionH
			return NeedMore, true
		}
		if isCtrl(c) {
			return NeedMore, false
		}
		p.uriBuf.WriteByte(c)
		return NeedMore, true

	case stateVersionH:
		if c != 'H' {
			return NeedMore, false
		}
		p.state = stateVersionT1
		return NeedMore, true

	case stateVersionT1:
		if c != 'T' {
			return NeedMore, false
		}
		p.state = stateVersionT2
		return NeedMore, true

	case stateVersionT2:
		if c != 'T' {
			return NeedMore, false
		}
		p.state = stateVersionP
		return NeedMore, true

	case stateVersionP:
		if c != 'P' {
			return NeedMore, false
		}
		p.state = stateVersionSlash
		return NeedMore, true

	case stateVersionSlash:
		if c != '/' {
			return NeedMore, false
		}
		p.state = stateVersionMajorStart
		return NeedMore, true

	case stateVersionMajorStart:
		if !isDigit(c) {
			return NeedMore, false
		}
		p.req.VersionMajor = int(c - '0')
		p.state = stateVersionMajor
		return NeedMore, true

	case stateVersionMajor:
		if c == '.' {
			p.state = stateVersionMinorStart
			return NeedMore, true
		}
		if !isDigit(c) {
			return NeedMore, false
		}
		p.req.VersionMajor = p.req.VersionMajor*10 + int(c-'0')
		return NeedMore, true

	case stateVersionMinorStart:
		if !isDigit(c) {
			return NeedMore, false
		}
		p.req.VersionMinor = int(c - '0')
		p.state = stateVersionMinor
		return NeedMore, true

	case stateVersionMinor:
		if c == cr {
			p.state = stateNewline1
			return NeedMore, true
		}
		if !isDigit(c) {
			return NeedMore, false
		}
		p.req.VersionMinor = p.req.VersionMinor*10 + int(c-'0')
		return NeedMore, true

	case stateNewline1:
		if c != lf {
			return NeedMore, false
		}
		p.state = stateHeaderLineStart
		return NeedMore, true

	case stateHeaderLineStart:
		if c == cr {
			p.state = stateNewline3
			return NeedMore, true
		}
		if c == sp || c == ht {
			// Header continuation; before the first header this is bad.
			if len(p.req.Headers) == 0 {
				return NeedMore, false
			}
			p.state = stateHeaderLws
			return NeedMore, true
		}
		if !isChar(c) || isCtrl(c) || isSpecial(c) {
			return NeedMore, false
		}
		p.headerBuf.Reset()
		p.valueBuf.Reset()
		p.headerBuf.WriteByte(c)
		p.state = stateHeaderName
		return NeedMore, true

	case stateHeaderLws:
		if c == cr {
			p.state = stateNewline2
			return NeedMore, true
		}
		if c == sp || c == ht {
			return NeedMore, true
		}
		if isCtrl(c) {
			return NeedMore, false
		}
		p.appendToLastHeaderValue(' ')
		p.appendToLastHeaderValue(rune(c))
		// The rest of the folded line keeps extending that same header:
		// reload it into the value state, which re-appends it on CR.
		last := p.req.Headers[len(p.req.Headers)-1]
		p.req.Headers = p.req.Headers[:len(p.req.Headers)-1]
		p.headerBuf.Reset()
		p.headerBuf.WriteString(last.Name)
		p.valueBuf.Reset()
		p.valueBuf.WriteString(last.Value)
		p.state = stateHeaderValue
		return NeedMore, true

	case stateHeaderName:
		if c == ':' {
			p.state = stateSpaceBeforeHeaderValue
			return NeedMore, true
		}
		if !isChar(c) || isCtrl(c) || isSpecial(c) {
			return NeedMore, false
		}
		p.headerBuf.WriteByte(c)
		return NeedMore, true

	case stateSpaceBeforeHeaderValue:
		if c != sp {
			return NeedMore, false
		}
		p.state = stateHeaderValue
		return NeedMore, true

	case stateHeaderValue:
		if c == cr {
			p.req.Headers = append(p.req.Headers, Header{
				Name:  p.headerBuf.String(),
				Value: p.valueBuf.String(),
			})
			p.state = stateNewline2
			return NeedMore, true
		}
		if isCtrl(c) {
			return NeedMore, false
		}
		p.valueBuf.WriteByte(c)
		return NeedMore, true

	case stateNewline2:
		if c != lf {
			return NeedMore, false
		}
		p.state = stateHeaderLineStart
		return NeedMore, true

	case stateNewline3:
		if c != lf {
			return NeedMore, false
		}
		return Complete, true
	}
	return NeedMore, false
}

// appendToLastHeaderValue extends the value of the header most recently
// appended, used by the header-continuation (LWS-folding) state.
func (p *Parser) appendToLastHeaderValue(r rune) {
	if len(p.req.Headers) == 0 {
		return
	}
	last := &p.req.Headers[len(p.req.Headers)-1]
	if r == ' ' {
		last.Value += " "
	} else {
		last.Value += string(r)
	}
}
