package weblink

import "testing"

// Scenario 5 from spec.md §8.
func TestParseFunctionCallScenario(t *testing.T) {
	data := []byte{
		0x03, 0x02, 0x00, 0x00, 0x1C, 0x00, 0x00, 0x00, // header
		0x04, 0x05, 'p', 'r', 'i', 'n', 't', // param 0: smallString "print"
		0x04, 0x13, // param 1: smallString, length 19
	}
	data = append(data, "Hello World of 2022"...)

	msg, err := Parse(data, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if msg.Command != CommandFunctionCall {
		t.Fatalf("Command = %v, want FunctionCall", msg.Command)
	}
	if msg.ParamCount != 2 {
		t.Fatalf("ParamCount = %d, want 2", msg.ParamCount)
	}
	if msg.ParamsDataSize != 0x1C {
		t.Fatalf("ParamsDataSize = %d, want 28", msg.ParamsDataSize)
	}

	name, rest, err := NextParameter(msg.ParamsRemaining, false)
	if err != nil {
		t.Fatalf("NextParameter(name) error = %v", err)
	}
	if name.Type != CodedSmallString || name.String != "print" {
		t.Fatalf("function name = %+v, want smallString \"print\"", name)
	}

	arg, rest, err := NextParameter(rest, false)
	if err != nil {
		t.Fatalf("NextParameter(arg) error = %v", err)
	}
	if arg.Type != CodedSmallString || arg.String != "Hello World of 2022" {
		t.Fatalf("argument = %+v, want smallString \"Hello World of 2022\"", arg)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes = %d, want 0", len(rest))
	}
}

func TestParseHandshakeAndAck(t *testing.T) {
	hs, err := Parse([]byte{byte(CommandHandshake), byte(EndianBig)}, false)
	if err != nil {
		t.Fatalf("Parse(Handshake) error = %v", err)
	}
	if hs.Endian != EndianBig {
		t.Errorf("Endian = %v, want Big", hs.Endian)
	}

	ack := EncodeAck(EndianLittle)
	decoded, err := Parse(ack, false)
	if err != nil {
		t.Fatalf("Parse(Ack) error = %v", err)
	}
	if decoded.Command != CommandAck || decoded.Endian != EndianLittle {
		t.Errorf("decoded Ack = %+v", decoded)
	}
}

func TestParseTextCommand(t *testing.T) {
	raw := EncodeTextCommand(TxtOpcodeDebugLog, "boot ok")
	msg, err := Parse(raw, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if msg.TxtOpcode != TxtOpcodeDebugLog || msg.Text != "boot ok" {
		t.Errorf("decoded = %+v", msg)
	}
}

func TestParseShortHeader(t *testing.T) {
	if _, err := Parse([]byte{byte(CommandFunctionCall)}, false); err != ErrShortHeader {
		t.Errorf("error = %v, want ErrShortHeader", err)
	}
}

func TestParseShortPayload(t *testing.T) {
	header := []byte{byte(CommandFunctionCall), 1, 0, 0, 10, 0, 0, 0} // declares 10 bytes, supplies 0
	if _, err := Parse(header, false); err != ErrShortPayload {
		t.Errorf("error = %v, want ErrShortPayload", err)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	if _, err := Parse([]byte{0xFE, 0x00}, false); err != ErrUnknownCommand {
		t.Errorf("error = %v, want ErrUnknownCommand", err)
	}
}

func TestNextParameterUnknownTag(t *testing.T) {
	if _, _, err := NextParameter([]byte{0xFE}, false); err != ErrUnknownParameterTag {
		t.Errorf("error = %v, want ErrUnknownParameterTag", err)
	}
}

func TestNextParameterLengthOverflow(t *testing.T) {
	// smallString tag claiming 10 bytes but only 2 supplied.
	if _, _, err := NextParameter([]byte{byte(CodedSmallString), 10, 'h', 'i'}, false); err != ErrLengthOverflow {
		t.Errorf("error = %v, want ErrLengthOverflow", err)
	}
}

func TestEncodeDecodeNumberRoundTrip(t *testing.T) {
	encoded := EncodeNumber(nil, 3.5, false)
	p, rest, err := NextParameter(encoded, false)
	if err != nil {
		t.Fatalf("NextParameter() error = %v", err)
	}
	if p.Type != CodedNumber || p.Number != 3.5 {
		t.Errorf("decoded number = %+v, want 3.5", p)
	}
	if len(rest) != 0 {
		t.Errorf("trailing bytes = %d", len(rest))
	}
}

func TestEncodeDecodeStringRoundTrip(t *testing.T) {
	encoded := EncodeString(nil, "a longer string value", false)
	p, _, err := NextParameter(encoded, false)
	if err != nil {
		t.Fatalf("NextParameter() error = %v", err)
	}
	if p.Type != CodedString || p.String != "a longer string value" {
		t.Errorf("decoded string = %+v", p)
	}
}

func TestFunctionCallBuilderRoundTrip(t *testing.T) {
	raw := NewFunctionCallBuilder("onReady").
		AddBool(true).
		AddNumber(42, false).
		AddString("done", false).
		Build(false)

	msg, err := Parse(raw, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if msg.ParamCount != 4 {
		t.Fatalf("ParamCount = %d, want 4", msg.ParamCount)
	}

	name, rest, _ := NextParameter(msg.ParamsRemaining, false)
	if name.String != "onReady" {
		t.Fatalf("function name = %q", name.String)
	}
	b, rest, _ := NextParameter(rest, false)
	if !b.Bool {
		t.Fatalf("bool param = %+v", b)
	}
	n, rest, _ := NextParameter(rest, false)
	if n.Number != 42 {
		t.Fatalf("number param = %+v", n)
	}
	s, rest, _ := NextParameter(rest, false)
	if s.String != "done" {
		t.Fatalf("string param = %+v", s)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes = %d", len(rest))
	}
}

func TestSameEndian(t *testing.T) {
	if !SameEndian(HostEndian) {
		t.Error("SameEndian(HostEndian) = false, want true")
	}
	other := EndianBig
	if HostEndian == EndianBig {
		other = EndianLittle
	}
	if SameEndian(other) {
		t.Error("SameEndian(opposite) = true, want false")
	}
}
