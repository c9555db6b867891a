// Package weblink implements the WebLink binary command protocol
// (components C8 and C9): a typed-parameter request/response layer
// carried over WebSocket frames that lets a native host call into a
// browser's JavaScript and be called back.
//
// Grounded on original_source/include/weblink/Messages.hpp for the
// wire layout, with the parsing style (explicit error values, a single
// parse entry point consuming a byte slice) carried over from
// httpwire's parser in this module.
package weblink

import (
	"encoding/binary"
	"errors"
	"math"
)

// Command identifies a WebLink message, spec.md §4.7.
type Command byte

const (
	CommandHandshake Command = iota
	CommandAck
	CommandTextCommand
	CommandFunctionCall
	CommandFunctionReturn
)

// Endian mirrors the JS client's reported byte order in a Handshake/Ack.
type Endian byte

const (
	EndianLittle Endian = 0
	EndianBig    Endian = 1
)

// TxtOpcode selects the meaning of a TextCommand's payload.
type TxtOpcode byte

const (
	TxtOpcodeDebugLog     TxtOpcode = 0
	TxtOpcodeInjectScript TxtOpcode = 1
)

// CodedType tags a parameter's wire representation, spec.md §3.
type CodedType byte

const (
	CodedUndefined    CodedType = 0
	CodedBooleanTrue  CodedType = 1
	CodedBooleanFalse CodedType = 2
	CodedNumber       CodedType = 3
	CodedSmallString  CodedType = 4
	CodedString       CodedType = 5
)

var (
	ErrShortHeader         = errors.New("weblink: fewer bytes than the command's header size")
	ErrShortPayload        = errors.New("weblink: fewer bytes than the declared payload size")
	ErrUnknownCommand      = errors.New("weblink: unknown command byte")
	ErrUnknownParameterTag = errors.New("weblink: unknown parameter tag byte")
	ErrLengthOverflow      = errors.New("weblink: length byte exceeds the remaining bytes")
)

// Message is the decoded form of any WebLink frame payload.
type Message struct {
	Command Command

	// Handshake / Ack
	Endian Endian

	// TextCommand
	TxtOpcode TxtOpcode
	Text      string

	// FunctionCall / FunctionReturn
	ParamCount      byte
	ParamsDataSize  uint32
	ParamsRemaining []byte // undecoded tail, decoded lazily via NextParameter
}

// headerSize returns the fixed header length for each command, per the
// table in spec.md §4.7.
func headerSize(cmd Command) int {
	switch cmd {
	case CommandHandshake, CommandAck:
		return 2
	case CommandTextCommand:
		return 4
	case CommandFunctionCall, CommandFunctionReturn:
		return 8
	default:
		return 0
	}
}

// byteOrder picks the binary.ByteOrder a multi-byte field should be
// read with, given whether the sender's endianness differs from ours.
func byteOrder(peerDiffers bool) binary.ByteOrder {
	if peerDiffers {
		return swappedOrder{}
	}
	return nativeOrder{}
}

// Parse decodes one WebLink message from data. peerDiffers must be the
// endianness-match flag established during the opening Handshake; it is
// ignored for the Handshake message itself, whose own endian field
// determines it.
func Parse(data []byte, peerDiffers bool) (Message, error) {
	if len(data) < 1 {
		return Message{}, ErrShortHeader
	}
	cmd := Command(data[0])
	hsize := headerSize(cmd)
	if hsize == 0 {
		return Message{}, ErrUnknownCommand
	}
	if len(data) < hsize {
		return Message{}, ErrShortHeader
	}

	switch cmd {
	case CommandHandshake:
		return Message{Command: cmd, Endian: Endian(data[1])}, nil
	case CommandAck:
		return Message{Command: cmd, Endian: Endian(data[1])}, nil
	case CommandTextCommand:
		length := int(data[2])*256 + int(data[3])
		if len(data) < hsize+length {
			return Message{}, ErrShortPayload
		}
		return Message{
			Command:   cmd,
			TxtOpcode: TxtOpcode(data[1]),
			Text:      string(data[hsize : hsize+length]),
		}, nil
	case CommandFunctionCall, CommandFunctionReturn:
		order := byteOrder(peerDiffers)
		paramCount := data[1]
		dataSize := order.Uint32(data[4:8])
		if len(data) < hsize+int(dataSize) {
			return Message{}, ErrShortPayload
		}
		return Message{
			Command:         cmd,
			ParamCount:      paramCount,
			ParamsDataSize:  dataSize,
			ParamsRemaining: data[hsize : hsize+int(dataSize)],
		}, nil
	default:
		return Message{}, ErrUnknownCommand
	}
}

// Parameter is one decoded coded-parameter value (spec.md §3).
type Parameter struct {
	Type    CodedType
	Bool    bool
	Number  float64
	String  string
}

// NextParameter decodes the first coded parameter from data and
// returns it along with the undecoded tail.
func NextParameter(data []byte, peerDiffers bool) (Parameter, []byte, error) {
	if len(data) < 1 {
		return Parameter{}, nil, ErrShortPayload
	}
	tag := CodedType(data[0])
	rest := data[1:]
	order := byteOrder(peerDiffers)

	switch tag {
	case CodedUndefined:
		return Parameter{Type: tag}, rest, nil
	case CodedBooleanTrue:
		return Parameter{Type: tag, Bool: true}, rest, nil
	case CodedBooleanFalse:
		return Parameter{Type: tag, Bool: false}, rest, nil
	case CodedNumber:
		if len(rest) < 8 {
			return Parameter{}, nil, ErrShortPayload
		}
		bits := order.Uint64(rest[:8])
		return Parameter{Type: tag, Number: math.Float64frombits(bits)}, rest[8:], nil
	case CodedSmallString:
		if len(rest) < 1 {
			return Parameter{}, nil, ErrLengthOverflow
		}
		n := int(rest[0])
		if len(rest) < 1+n {
			return Parameter{}, nil, ErrLengthOverflow
		}
		return Parameter{Type: tag, String: string(rest[1 : 1+n])}, rest[1+n:], nil
	case CodedString:
		if len(rest) < 2 {
			return Parameter{}, nil, ErrLengthOverflow
		}
		n := int(order.Uint16(rest[:2]))
		if len(rest) < 2+n {
			return Parameter{}, nil, ErrLengthOverflow
		}
		return Parameter{Type: tag, String: string(rest[2 : 2+n])}, rest[2+n:], nil
	default:
		return Parameter{}, nil, ErrUnknownParameterTag
	}
}

// EncodeBool, EncodeNumber, EncodeSmallString, and EncodeString append
// one coded parameter (tag byte + payload) to dst and return the
// extended slice. peerDiffers swaps multi-byte fields to match the
// receiving endpoint's endianness.

func EncodeBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, byte(CodedBooleanTrue))
	}
	return append(dst, byte(CodedBooleanFalse))
}

func EncodeNumber(dst []byte, v float64, peerDiffers bool) []byte {
	dst = append(dst, byte(CodedNumber))
	var buf [8]byte
	byteOrder(peerDiffers).PutUint64(buf[:], math.Float64bits(v))
	return append(dst, buf[:]...)
}

func EncodeSmallString(dst []byte, s string) []byte {
	dst = append(dst, byte(CodedSmallString), byte(len(s)))
	return append(dst, s...)
}

func EncodeString(dst []byte, s string, peerDiffers bool) []byte {
	dst = append(dst, byte(CodedString))
	var buf [2]byte
	byteOrder(peerDiffers).PutUint16(buf[:], uint16(len(s)))
	dst = append(dst, buf[:]...)
	return append(dst, s...)
}

// EncodeHandshake and EncodeAck build the 2-byte opening-handshake
// messages.

func EncodeHandshake(endian Endian) []byte {
	return []byte{byte(CommandHandshake), byte(endian)}
}

func EncodeAck(endian Endian) []byte {
	return []byte{byte(CommandAck), byte(endian)}
}

// EncodeTextCommand builds a TextCommand message; text must be at most
// 65535 bytes.
func EncodeTextCommand(opcode TxtOpcode, text string) []byte {
	n := len(text)
	buf := []byte{byte(CommandTextCommand), byte(opcode), byte(n >> 8), byte(n)}
	return append(buf, text...)
}

// FunctionCallBuilder accumulates coded parameters for a FunctionCall
// message, tracking the parameter count as it goes
// (unlike raw bytes, which don't self-report how many values they
// hold).
type FunctionCallBuilder struct {
	body  []byte
	count int
}

// NewFunctionCallBuilder starts a FunctionCall whose first parameter is
// the target function name, per spec.md §4.7 ("Parameter #0 of a
// FunctionCall is the function name as a smallString").
func NewFunctionCallBuilder(functionName string) *FunctionCallBuilder {
	b := &FunctionCallBuilder{}
	b.body = EncodeSmallString(b.body, functionName)
	b.count = 1
	return b
}

func (b *FunctionCallBuilder) AddBool(v bool) *FunctionCallBuilder {
	b.body = EncodeBool(b.body, v)
	b.count++
	return b
}

func (b *FunctionCallBuilder) AddNumber(v float64, peerDiffers bool) *FunctionCallBuilder {
	b.body = EncodeNumber(b.body, v, peerDiffers)
	b.count++
	return b
}

func (b *FunctionCallBuilder) AddString(s string, peerDiffers bool) *FunctionCallBuilder {
	b.body = EncodeString(b.body, s, peerDiffers)
	b.count++
	return b
}

// Build serializes the accumulated parameters behind a FunctionCall
// header.
func (b *FunctionCallBuilder) Build(peerDiffers bool) []byte {
	header := make([]byte, 8)
	header[0] = byte(CommandFunctionCall)
	header[1] = byte(b.count)
	byteOrder(peerDiffers).PutUint32(header[4:8], uint32(len(b.body)))
	return append(header, b.body...)
}
