// Package reactor implements the per-socket Connection object
// (component C6) and the registry that owns the HTTP connection set
// (the single-threaded cooperative reactor of spec.md §5: each
// Connection's Serve loop is the only goroutine that ever touches that
// connection's state, and Registry guards its shared membership set with
// a plain sync.Mutex, the same registration-set shape coregx-stream's
// websocket.Hub uses for its client map).
package reactor

import (
	"errors"
	"io"
	"net"

	"github.com/webfrontgo/webfront/httpwire"
	"github.com/webfrontgo/webfront/vfs"
	"github.com/webfrontgo/webfront/wflog"
)

// defaultReadBufferSize is the scratch size for each HTTP-phase read,
// used unless UpgradeOptions.ReadBufferSize overrides it.
const defaultReadBufferSize = 8 * 1024

// UpgradeOptions configures the origin check and HTTP-phase read buffer
// size a Connection enforces, mirroring
// coregx-stream/websocket/handshake.go's UpgradeOptions. A nil
// *UpgradeOptions (or a zero CheckOrigin) allows every origin, matching
// the teacher's own documented default.
type UpgradeOptions struct {
	// CheckOrigin verifies the Origin header of an upgrade request.
	// nil = allow all origins (insecure in production, same caveat the
	// teacher documents on its own CheckOrigin field).
	CheckOrigin func(*httpwire.Request) bool

	// ReadBufferSize sets the scratch buffer size for the HTTP-phase
	// read loop. Zero uses defaultReadBufferSize.
	ReadBufferSize int
}

// protocolMode is the three states a Connection moves through,
// spec.md §4.6.
type protocolMode int

const (
	modeHTTP protocolMode = iota
	modeUpgrading
	modeWebSocket
)

// Connection owns one socket from accept until either it closes or it
// upgrades to WebSocket, at which point ownership passes to a
// wsconn.Endpoint via onUpgrade.
type Connection struct {
	conn   net.Conn
	fs     vfs.FileSystem
	parser *httpwire.Parser
	mode   protocolMode
	opts   UpgradeOptions

	onUpgrade func(conn net.Conn, req *httpwire.Request)
	onClosed  func(*Connection)
}

// New constructs a Connection for an accepted socket. opts may be nil to
// accept every origin with the default read buffer size. onUpgrade is
// called once, after a 101 response is fully written, handing off the
// raw socket (component C10 then wraps it in a wsconn.Endpoint and a
// weblink.Session). onClosed is called exactly once when the
// connection's HTTP lifetime ends, whether by close or, right after
// onUpgrade, by upgrade, so the owning registry can remove it.
func New(conn net.Conn, fs vfs.FileSystem, opts *UpgradeOptions, onUpgrade func(net.Conn, *httpwire.Request), onClosed func(*Connection)) *Connection {
	resolved := UpgradeOptions{}
	if opts != nil {
		resolved = *opts
	}
	if resolved.ReadBufferSize <= 0 {
		resolved.ReadBufferSize = defaultReadBufferSize
	}
	return &Connection{
		conn:      conn,
		fs:        fs,
		parser:    httpwire.NewParser(),
		opts:      resolved,
		onUpgrade: onUpgrade,
		onClosed:  onClosed,
	}
}

// Serve runs the HTTP-phase loop: async read, feed the parser, handle
// a complete request, write the response, and either rearm for the
// next keep-alive request or close. It blocks the calling goroutine
// and returns once the connection's HTTP lifetime ends.
func (c *Connection) Serve() {
	scratch := make([]byte, c.opts.ReadBufferSize)
	for c.mode == modeHTTP {
		n, err := c.conn.Read(scratch)
		if err != nil {
			c.closeWith(err)
			return
		}
		if !c.feed(scratch[:n]) {
			return
		}
	}
}

// feed hands chunk to the parser and handles the request once
// complete. Request pipelining (more than one request's bytes arriving
// in a single read) is not supported: Feed reports only
// {needMore, complete, bad}, not a consumed-byte count, so bytes past
// the first Complete within a chunk would need a second parser pass
// this connection doesn't make. In practice every client this runtime
// serves (browsers opening a page, then one upgrade request) sends at
// most one request per read.
func (c *Connection) feed(chunk []byte) bool {
	switch c.parser.Feed(chunk) {
	case httpwire.NeedMore:
		return true
	case httpwire.Bad:
		c.writeAndClose(httpwire.NewErrorResponse(httpwire.StatusBadRequest))
		return false
	case httpwire.Complete:
		req := c.parser.Request()
		if !c.handle(&req) {
			return false
		}
		c.parser.Reset()
		return true
	default:
		return true
	}
}

// handle dispatches a complete request to C5, writes the response, and
// reports whether the HTTP loop should continue (false means the
// connection's HTTP lifetime has ended, either by upgrade or by a
// non-keep-alive response).
func (c *Connection) handle(req *httpwire.Request) bool {
	resp := httpwire.Handle(req, c.fs)

	if resp.Status == httpwire.StatusSwitchingProtocols {
		if c.opts.CheckOrigin != nil && !c.opts.CheckOrigin(req) {
			c.writeAndClose(httpwire.NewErrorResponse(httpwire.StatusForbidden))
			return false
		}
		c.mode = modeUpgrading
		if _, err := c.conn.Write(resp.Bytes()); err != nil {
			c.closeWith(err)
			return false
		}
		c.mode = modeWebSocket
		if c.onUpgrade != nil {
			c.onUpgrade(c.conn, req)
		}
		// The socket now belongs to a wsconn.Endpoint; this Connection's
		// HTTP-registry membership ends here, same as on close.
		if c.onClosed != nil {
			c.onClosed(c)
		}
		return false
	}

	if _, err := c.conn.Write(resp.Bytes()); err != nil {
		c.closeWith(err)
		return false
	}

	if !keepAlive(req) {
		c.close()
		return false
	}
	return true
}

// keepAlive reports whether the connection should stay open after this
// response, per HTTP/1.1's default-persistent semantics: open unless
// the client explicitly asked to close, or declared HTTP/1.0 without an
// explicit keep-alive token.
func keepAlive(req *httpwire.Request) bool {
	if req.HeaderContainsToken("Connection", "close") {
		return false
	}
	if req.VersionMajor == 1 && req.VersionMinor == 0 {
		return req.HeaderContainsToken("Connection", "keep-alive")
	}
	return true
}

func (c *Connection) writeAndClose(resp *httpwire.Response) {
	_, _ = c.conn.Write(resp.Bytes())
	c.close()
}

func (c *Connection) closeWith(err error) {
	if !errors.Is(err, io.EOF) {
		wflog.Debugf("reactor: connection error: %v", err)
	}
	c.close()
}

func (c *Connection) close() {
	_ = c.conn.Close()
	if c.onClosed != nil {
		c.onClosed(c)
	}
}

// Close shuts the connection down from outside its own Serve loop, used
// by Registry.StopAll on server shutdown (spec.md §5). The blocked Read
// in Serve then returns an error and Serve exits through closeWith,
// which calls onClosed exactly once.
func (c *Connection) Close() error {
	return c.conn.Close()
}
