package wsproto

// DecoderState is one of the three states in spec.md §4.4's table.
type DecoderState int

const (
	StateStarting DecoderState = iota
	StatePartialHeader
	StateDecodingPayload
)

// DecodeResult is the outcome of one Decoder.Feed call.
type DecodeResult int

const (
	// NeedMore means data was fully consumed but the frame is not yet
	// complete; feed more bytes from the next read.
	NeedMore DecodeResult = iota
	// FrameComplete means a full frame was reassembled; call Result()
	// to retrieve it, then Reset() before feeding the next frame.
	FrameComplete
)

// maxHeaderSize is 2 (mandatory) + 8 (64-bit extended length) + 4 (mask key).
const maxHeaderSize = 14

// Decoder reassembles a complete RFC 6455 frame from arbitrary byte
// chunks (component C2). One Decoder is created per WebSocket endpoint
// and reset after every complete frame; it never blocks or allocates a
// goroutine of its own, matching the reactor's single read-loop model.
type Decoder struct {
	state DecoderState

	headerScratch   [maxHeaderSize]byte
	headerLen       int
	wantHeaderSize  int // -1 until the first 2 bytes are known
	header          Header

	payload     []byte
	payloadWant int
}

// NewDecoder returns a Decoder ready to decode a new frame.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.Reset()
	return d
}

// Reset clears payloadBuffer, the scratch cursor, and the mask cursor,
// returning the state to starting (spec.md §4.4).
func (d *Decoder) Reset() {
	d.state = StateStarting
	d.headerLen = 0
	d.wantHeaderSize = -1
	d.header = Header{}
	d.payload = d.payload[:0]
	d.payloadWant = 0
}

// State reports the decoder's current state, for tests and diagnostics.
func (d *Decoder) State() DecoderState { return d.state }

// Result returns the most recently completed frame's opcode and
// payload. Only meaningful immediately after Feed returns FrameComplete.
func (d *Decoder) Result() (Opcode, []byte) {
	return d.header.Opcode, d.payload
}

// Feed consumes a prefix of data, advancing the state machine, and
// reports how many bytes it consumed. Any unconsumed suffix (when a
// single read contained more than one frame's worth of bytes) should be
// fed again after the caller has handled FrameComplete and called
// Reset.
func (d *Decoder) Feed(data []byte) (DecodeResult, int, error) {
	consumed := 0

	// Accumulate the first two header bytes, which determine the total
	// header size (spec.md §4.3: headerSize depends only on the 7-bit
	// length field and the MASK bit, both in byte 1).
	if d.headerLen < 2 {
		take := min(2-d.headerLen, len(data))
		copy(d.headerScratch[d.headerLen:], data[:take])
		d.headerLen += take
		data = data[take:]
		consumed += take
		if d.headerLen < 2 {
			d.state = StatePartialHeader
			return NeedMore, consumed, nil
		}
		_, size := IsHeaderComplete(d.headerScratch[:2])
		// IsHeaderComplete with only 2 bytes never reports complete for
		// an extended-length frame; recompute size directly.
		if size == 0 {
			size = headerSizeFromFirstTwo(d.headerScratch[:2])
		}
		d.wantHeaderSize = size
	}

	if d.headerLen < d.wantHeaderSize {
		take := min(d.wantHeaderSize-d.headerLen, len(data))
		copy(d.headerScratch[d.headerLen:], data[:take])
		d.headerLen += take
		data = data[take:]
		consumed += take
		if d.headerLen < d.wantHeaderSize {
			d.state = StatePartialHeader
			return NeedMore, consumed, nil
		}
	}

	if d.state != StateDecodingPayload {
		h, _, err := DecodeHeader(d.headerScratch[:d.headerLen])
		if err != nil {
			return NeedMore, consumed, err
		}
		if h.RSV1 || h.RSV2 || h.RSV3 {
			return NeedMore, consumed, ErrReservedBits
		}
		if !isKnownOpcode(h.Opcode) {
			return NeedMore, consumed, ErrInvalidOpcode
		}
		d.header = h
		d.payloadWant = int(h.PayloadSize)
		if cap(d.payload) < d.payloadWant {
			d.payload = make([]byte, 0, d.payloadWant)
		}
		d.state = StateDecodingPayload
	}

	take := min(d.payloadWant-len(d.payload), len(data))
	if take > 0 {
		start := len(d.payload)
		d.payload = append(d.payload, data[:take]...)
		if d.header.Mask {
			ApplyMask(d.payload[start:start+take], d.header.MaskingKey, start)
		}
		consumed += take
	}

	if len(d.payload) == d.payloadWant {
		return FrameComplete, consumed, nil
	}
	return NeedMore, consumed, nil
}

func headerSizeFromFirstTwo(b []byte) int {
	size := 2
	switch b[1] & payloadLenBits {
	case len16Tag:
		size += 2
	case len64Tag:
		size += 8
	}
	if b[1]&bitMask != 0 {
		size += 4
	}
	return size
}

func isKnownOpcode(o Opcode) bool {
	switch o {
	case OpcodeContinuation, OpcodeText, OpcodeBinary, OpcodeClose, OpcodePing, OpcodePong:
		return true
	default:
		return false
	}
}
