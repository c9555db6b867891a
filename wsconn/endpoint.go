// Package wsconn implements the WebSocket endpoint (component C7): the
// read loop and write path over one already-upgraded socket, built on
// top of wsproto's frame codec and decoder.
//
// Grounded on coregx-stream/websocket/conn.go's Read/Write pair, but
// narrowed to the spec's scope: no fragmentation reassembly (the spec's
// explicit Non-goals exclude multi-frame messages) and a read loop
// driven by chunked Feed calls instead of one blocking frame read at a
// time, so a short TCP read never blocks dispatch of frames already
// buffered.
package wsconn

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/webfrontgo/webfront/wflog"
	"github.com/webfrontgo/webfront/wsproto"
)

// Default read/write buffer sizes, mirroring
// coregx-stream/websocket/handshake.go's defaultReadBufferSize/
// defaultWriteBufferSize. readBufferSize is also spec.md §4.5's "up to
// 8 KiB" scratch size for each asynchronous read.
const (
	defaultReadBufferSize  = 8 * 1024
	defaultWriteBufferSize = 4096
)

var (
	// ErrConnectionClosed is passed to onClose when the peer performed
	// a clean WebSocket or TCP close.
	ErrConnectionClosed = errors.New("wsconn: connection closed")
)

// CloseReason carries the status passed to the onClose callback:
// either a WebSocket close-frame status code, or a wrapped transport
// error.
type CloseReason struct {
	Code   uint16
	Reason string
	Err    error
}

// Endpoint owns one upgraded socket for its lifetime. Its write path
// allows at most one outstanding write, per spec.md §4.5; Write
// serializes concurrent callers with a mutex.
type Endpoint struct {
	conn net.Conn
	dec  *wsproto.Decoder

	readBufferSize int
	writer         *bufio.Writer

	onText   func([]byte)
	onBinary func([]byte)
	onClose  func(CloseReason)

	writeMu sync.Mutex
	closed  bool
}

// Option configures an Endpoint at construction time.
type Option func(*Endpoint)

// OnText registers the callback invoked for each complete text frame.
func OnText(f func([]byte)) Option { return func(e *Endpoint) { e.onText = f } }

// OnBinary registers the callback invoked for each complete binary frame.
func OnBinary(f func([]byte)) Option { return func(e *Endpoint) { e.onBinary = f } }

// OnClose registers the callback invoked once, when the read loop
// stops for any reason.
func OnClose(f func(CloseReason)) Option { return func(e *Endpoint) { e.onClose = f } }

// WithReadBufferSize overrides the scratch buffer size for Serve's read
// loop. Zero (the default if unset) uses defaultReadBufferSize.
func WithReadBufferSize(n int) Option {
	return func(e *Endpoint) {
		if n > 0 {
			e.readBufferSize = n
		}
	}
}

// WithWriteBufferSize overrides the buffered writer size Write flushes
// through. Zero (the default if unset) uses defaultWriteBufferSize.
func WithWriteBufferSize(n int) Option {
	return func(e *Endpoint) {
		if n > 0 {
			e.writer = bufio.NewWriterSize(e.conn, n)
		}
	}
}

// New wraps conn as a WebSocket endpoint. The caller must invoke Serve
// to start the read loop.
func New(conn net.Conn, opts ...Option) *Endpoint {
	e := &Endpoint{
		conn:           conn,
		dec:            wsproto.NewDecoder(),
		readBufferSize: defaultReadBufferSize,
		writer:         bufio.NewWriterSize(conn, defaultWriteBufferSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Serve runs the read loop until the socket errors or the peer closes.
// It blocks the calling goroutine, matching the reactor's model of one
// suspension point (the read) at a time per connection; callers run it
// in its own goroutine per connection.
func (e *Endpoint) Serve() {
	scratch := make([]byte, e.readBufferSize)
	for {
		n, err := e.conn.Read(scratch)
		if err != nil {
			e.stop(closeReasonFromReadErr(err))
			return
		}
		if !e.feed(scratch[:n]) {
			return
		}
	}
}

// feed drains chunk through the decoder, dispatching every frame it
// completes, and reports whether the loop should keep reading.
func (e *Endpoint) feed(chunk []byte) bool {
	for len(chunk) > 0 {
		result, n, err := e.dec.Feed(chunk)
		if err != nil {
			wflog.Debugf("wsconn: rejected chunk:\n%s", wsproto.DumpFrame(chunk, 0))
			wflog.Warnf("wsconn: frame decode error: %v", err)
			e.stop(CloseReason{Err: err})
			return false
		}
		chunk = chunk[n:]
		if result != wsproto.FrameComplete {
			return true
		}

		opcode, payload := e.dec.Result()
		frame := append([]byte(nil), payload...)
		e.dec.Reset()

		switch opcode {
		case wsproto.OpcodeText:
			if e.onText != nil {
				e.onText(frame)
			}
		case wsproto.OpcodeBinary:
			if e.onBinary != nil {
				e.onBinary(frame)
			}
		case wsproto.OpcodeClose:
			e.stop(closeReasonFromFrame(frame))
			return false
		case wsproto.OpcodePing, wsproto.OpcodePong:
			// Policy: accepted but not required to be answered (spec.md §4.4).
		}
	}
	return true
}

// Write wraps payload in a single unmasked binary frame and writes the
// header followed by payload through the buffered writer, flushing
// once, serialized so at most one write is outstanding at a time.
func (e *Endpoint) Write(payload []byte) error {
	e.writeMu.Lock()
	if e.closed {
		e.writeMu.Unlock()
		return ErrConnectionClosed
	}

	header := wsproto.EncodeHeader(wsproto.OpcodeBinary, uint64(len(payload)))
	_, err := e.writer.Write(header)
	if err == nil {
		_, err = e.writer.Write(payload)
	}
	if err == nil {
		err = e.writer.Flush()
	}
	// stop takes writeMu itself, so it runs after the lock is released.
	e.writeMu.Unlock()
	if err != nil {
		e.stop(CloseReason{Err: err})
		return err
	}
	return nil
}

// Close shuts down the endpoint from outside the read loop, e.g. during
// a server-wide stopAll (spec.md §5). It invokes onClose exactly once,
// same as a peer-initiated close.
func (e *Endpoint) Close() error {
	e.stop(CloseReason{Err: ErrConnectionClosed})
	return nil
}

// stop marks the endpoint closed and invokes onClose exactly once.
func (e *Endpoint) stop(reason CloseReason) {
	e.writeMu.Lock()
	already := e.closed
	e.closed = true
	e.writeMu.Unlock()
	if already {
		return
	}
	_ = e.conn.Close()
	if e.onClose != nil {
		e.onClose(reason)
	}
}

func closeReasonFromReadErr(err error) CloseReason {
	if errors.Is(err, io.EOF) {
		return CloseReason{Err: ErrConnectionClosed}
	}
	return CloseReason{Err: err}
}

func closeReasonFromFrame(payload []byte) CloseReason {
	reason := CloseReason{Err: ErrConnectionClosed}
	if len(payload) >= 2 {
		reason.Code = uint16(payload[0])<<8 | uint16(payload[1])
		reason.Reason = string(payload[2:])
	}
	return reason
}
