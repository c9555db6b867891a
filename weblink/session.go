package weblink

import (
	"github.com/webfrontgo/webfront/wflog"
)

// SessionState is one of the three states a Session moves through
// during its lifetime, spec.md §4.8.
type SessionState int

const (
	StateUnlinked SessionState = iota
	StateLinked
	StateClosed
)

// Writer is the minimal outbound capability a Session needs from its
// WebSocket endpoint: a single frame write. Satisfied by
// *wsconn.Endpoint without this package importing wsconn, keeping the
// dependency direction the same way C7 → C9 flows in the spec (C9
// never reaches back into C7's internals).
type Writer interface {
	Write(payload []byte) error
}

// Session implements the WebLink command dispatch and handshake state
// machine on top of one WebSocket endpoint (component C9).
type Session struct {
	state       SessionState
	peerDiffers bool
	writer      Writer
	logSink     wflog.SinkID
	hasLogSink  bool

	onLinked            func()
	onClosed            func()
	onCppFunctionCalled func(name string, remaining []byte)
}

// Option configures a Session at construction time.
type Option func(*Session)

func OnLinked(f func()) Option { return func(s *Session) { s.onLinked = f } }
func OnClosed(f func()) Option { return func(s *Session) { s.onClosed = f } }
func OnCppFunctionCalled(f func(name string, remaining []byte)) Option {
	return func(s *Session) { s.onCppFunctionCalled = f }
}

// NewSession creates a Session in the unlinked state, writing outbound
// WebLink messages through writer.
func NewSession(writer Writer, opts ...Option) *Session {
	s := &Session{writer: writer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the session's current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// PeerDiffers reports whether the linked peer's endianness differs
// from this host's, established at handshake time. Parameter encoding
// for outbound calls must use this flag.
func (s *Session) PeerDiffers() bool { return s.peerDiffers }

// HandleFrame decodes one WebLink message from an inbound WebSocket
// binary frame and dispatches it, per spec.md §4.8's transition table.
func (s *Session) HandleFrame(frame []byte) {
	msg, err := Parse(frame, s.peerDiffers)
	if err != nil {
		wflog.Warnf("weblink: dropping malformed message: %v", err)
		return
	}

	switch msg.Command {
	case CommandHandshake:
		s.handleHandshake(msg)
	case CommandFunctionCall:
		s.handleFunctionCall(msg)
	case CommandTextCommand:
		// TextCommand(debugLog) from the client is reserved for
		// client→server logs; the host has no consumer for it yet.
	default:
		wflog.Warnf("weblink: unexpected command %v in state %v", msg.Command, s.state)
	}
}

func (s *Session) handleHandshake(msg Message) {
	s.peerDiffers = !SameEndian(msg.Endian)

	if err := s.writer.Write(EncodeAck(HostEndian)); err != nil {
		wflog.Errorf("weblink: failed to send Ack: %v", err)
		return
	}

	s.logSink = wflog.Register(func(level wflog.Level, line string) {
		_ = s.writer.Write(EncodeTextCommand(TxtOpcodeDebugLog, line))
	})
	s.hasLogSink = true

	s.state = StateLinked
	if s.onLinked != nil {
		s.onLinked()
	}
}

func (s *Session) handleFunctionCall(msg Message) {
	name, remaining, err := NextParameter(msg.ParamsRemaining, s.peerDiffers)
	if err != nil {
		wflog.Warnf("weblink: dropping FunctionCall with undecodable name: %v", err)
		return
	}
	if s.onCppFunctionCalled != nil {
		s.onCppFunctionCalled(name.String, remaining)
	}
}

// Closed transitions the session to closed, deregistering its log sink
// and firing onClosed. Called by the owning C7 endpoint's onClose
// callback (spec.md §4.8: "Receive connectionClose … emit closed,
// deregister log sink").
func (s *Session) Closed() {
	if s.state == StateClosed {
		return
	}
	if s.hasLogSink {
		wflog.Deregister(s.logSink)
		s.hasLogSink = false
	}
	s.state = StateClosed
	if s.onClosed != nil {
		s.onClosed()
	}
}

// CallFunction sends a FunctionCall invoking a JS function by name,
// plus the extraArgCount additional parameters already coded into
// extraArgs (see the Encode* helpers). The function name itself counts
// as parameter #0, per spec.md §4.7.
func (s *Session) CallFunction(functionName string, extraArgCount int, extraArgs []byte) error {
	body := EncodeSmallString(nil, functionName)
	body = append(body, extraArgs...)

	header := make([]byte, 8)
	header[0] = byte(CommandFunctionCall)
	header[1] = byte(1 + extraArgCount)
	byteOrder(s.peerDiffers).PutUint32(header[4:8], uint32(len(body)))
	return s.writer.Write(append(header, body...))
}

// CallFunctionBuilt sends an already-assembled FunctionCallBuilder
// result, for callers that prefer its fluent Add* API.
func (s *Session) CallFunctionBuilt(b *FunctionCallBuilder) error {
	return s.writer.Write(b.Build(s.peerDiffers))
}

// InjectScript sends a TextCommand(injectScript), the mechanism behind
// the UI facade's addScript (component C10).
func (s *Session) InjectScript(text string) error {
	return s.writer.Write(EncodeTextCommand(TxtOpcodeInjectScript, text))
}
