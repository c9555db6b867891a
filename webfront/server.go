// Package webfront implements the server facade (component C10): the
// acceptor loop, the HTTP connection registry, the WebLink registry
// keyed by WebLinkId, the registered-callable table, and the
// onUIStarted lifecycle hook a host application wires up.
//
// Grounded on original_source/src/WebFront.cpp and src/HelloWorld.cpp
// for the facade shape (webFront.cppFunction(...), webFront.onUIStarted(...),
// webFront.run()) and on coregx-stream's top-level server type for the
// Go idiom of a constructor-returned *Server with a blocking
// ListenAndServe method instead of a bare run()/runOne() pair.
package webfront

import (
	"net"
	"sync"

	"github.com/webfrontgo/webfront/httpwire"
	"github.com/webfrontgo/webfront/reactor"
	"github.com/webfrontgo/webfront/vfs"
	"github.com/webfrontgo/webfront/weblink"
	"github.com/webfrontgo/webfront/wflog"
	"github.com/webfrontgo/webfront/wsconn"
)

type weblinkEntry struct {
	endpoint *wsconn.Endpoint
	session  *weblink.Session
}

// Server owns the acceptor, the HTTP connection registry, the weblinks
// registry, and the registered-callable table, per spec.md §4.9.
type Server struct {
	fs        vfs.FileSystem
	callables *Callables

	onUIStarted func(UI)
	checkOrigin func(*httpwire.Request) bool

	readBufferSize  int
	writeBufferSize int

	listener net.Listener
	conns    *reactor.Registry

	weblinksMu sync.Mutex
	weblinks   map[WebLinkId]*weblinkEntry
	nextID     WebLinkId
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithFileSystem sets the backend served for ordinary HTTP requests.
// Defaults to vfs.NewGeneratedFS(), the built-in index.html/favicon.ico.
func WithFileSystem(fs vfs.FileSystem) Option {
	return func(s *Server) { s.fs = fs }
}

// OnUIStarted registers the hook fired once a browser session's WebLink
// handshake completes, with a UI facade for that session.
func OnUIStarted(f func(UI)) Option {
	return func(s *Server) { s.onUIStarted = f }
}

// WithCheckOrigin verifies the Origin header of every upgrade request,
// mirroring coregx-stream/websocket/handshake.go's UpgradeOptions.CheckOrigin:
// nil (the default if unset) allows every origin; returning false rejects
// the upgrade with 403 Forbidden before any WebLink session is created.
func WithCheckOrigin(f func(*httpwire.Request) bool) Option {
	return func(s *Server) { s.checkOrigin = f }
}

// WithReadBufferSize overrides the scratch buffer size used for both the
// HTTP-phase read loop (reactor.Connection) and the post-upgrade
// WebSocket read loop (wsconn.Endpoint). Zero keeps each package's own
// default.
func WithReadBufferSize(n int) Option {
	return func(s *Server) { s.readBufferSize = n }
}

// WithWriteBufferSize overrides the buffered writer size wsconn.Endpoint
// flushes WebLink frames through. Zero keeps wsconn's own default.
func WithWriteBufferSize(n int) Option {
	return func(s *Server) { s.writeBufferSize = n }
}

// New constructs a Server. Register callables via s.Callables() before
// calling ListenAndServe; per spec.md §5 the table is expected to be
// populated before accepting connections.
func New(opts ...Option) *Server {
	s := &Server{
		fs:        vfs.NewGeneratedFS(),
		callables: NewCallables(),
		conns:     reactor.NewRegistry(),
		weblinks:  make(map[WebLinkId]*weblinkEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Callables returns the registered-callable table, for the host to
// populate with RegisterFunc0/1/2 before ListenAndServe.
func (s *Server) Callables() *Callables { return s.callables }

// ConnectionCount reports the number of live HTTP-phase connections
// (not yet upgraded to WebSocket).
func (s *Server) ConnectionCount() int { return s.conns.Count() }

// WebLinkCount reports the number of currently linked WebLink sessions.
func (s *Server) WebLinkCount() int {
	s.weblinksMu.Lock()
	defer s.weblinksMu.Unlock()
	return len(s.weblinks)
}

// ListenAndServe binds address and accepts connections until Close is
// called or the listener errors. It blocks the calling goroutine,
// mirroring original_source's ui.run().
func (s *Server) ListenAndServe(address string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	s.listener = ln
	wflog.Infof("webfront: listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		s.acceptConn(conn)
	}
}

// Close stops accepting new connections and tears down every live HTTP
// connection and linked WebLink session, per spec.md §5's stopAll model.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.conns.StopAll()

	s.weblinksMu.Lock()
	entries := make([]*weblinkEntry, 0, len(s.weblinks))
	for _, e := range s.weblinks {
		entries = append(entries, e)
	}
	s.weblinksMu.Unlock()
	for _, e := range entries {
		_ = e.endpoint.Close()
	}
	return err
}

// acceptConn wraps a freshly accepted socket in a reactor.Connection
// and registers it, per spec.md §4.9: "On accept: construct a C6 with a
// back-pointer to C10 and the registry."
func (s *Server) acceptConn(conn net.Conn) {
	opts := &reactor.UpgradeOptions{
		CheckOrigin:    s.checkOrigin,
		ReadBufferSize: s.readBufferSize,
	}
	var rc *reactor.Connection
	rc = reactor.New(conn, s.fs, opts,
		func(raw net.Conn, req *httpwire.Request) { s.upgrade(raw) },
		func(c *reactor.Connection) { s.conns.Remove(c) },
	)
	s.conns.Add(rc)
	go rc.Serve()
}

// upgrade constructs a WebSocket endpoint (C7) and a WebLink session
// (C9) over a freshly upgraded socket, allocates its WebLinkId, and
// inserts it into the weblinks registry, per spec.md §4.9.
func (s *Server) upgrade(conn net.Conn) {
	id := s.allocID()
	var session *weblink.Session

	wsOpts := []wsconn.Option{
		wsconn.OnBinary(func(data []byte) { session.HandleFrame(data) }),
		wsconn.OnClose(func(wsconn.CloseReason) { session.Closed() }),
	}
	if s.readBufferSize > 0 {
		wsOpts = append(wsOpts, wsconn.WithReadBufferSize(s.readBufferSize))
	}
	if s.writeBufferSize > 0 {
		wsOpts = append(wsOpts, wsconn.WithWriteBufferSize(s.writeBufferSize))
	}
	endpoint := wsconn.New(conn, wsOpts...)

	session = weblink.NewSession(endpoint,
		weblink.OnLinked(func() {
			if s.onUIStarted != nil {
				s.onUIStarted(newUI(id, session))
			}
		}),
		weblink.OnClosed(func() { s.removeWeblink(id) }),
		weblink.OnCppFunctionCalled(func(name string, remaining []byte) {
			if !s.callables.invoke(name, remaining, session.PeerDiffers()) {
				wflog.Warnf("webfront: unknown callable %q", name)
			}
		}),
	)

	s.weblinksMu.Lock()
	s.weblinks[id] = &weblinkEntry{endpoint: endpoint, session: session}
	s.weblinksMu.Unlock()

	go endpoint.Serve()
}

func (s *Server) allocID() WebLinkId {
	s.weblinksMu.Lock()
	defer s.weblinksMu.Unlock()
	s.nextID++
	return s.nextID
}

func (s *Server) removeWeblink(id WebLinkId) {
	s.weblinksMu.Lock()
	delete(s.weblinks, id)
	s.weblinksMu.Unlock()
}
