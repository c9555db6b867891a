package wsproto

import (
	"fmt"
	"strings"
)

// DumpFrame renders buf as a classic hexdump -C style listing: 16 bytes
// per line, the offset, the hex bytes in two groups of eight, and an
// ASCII gutter with non-printable bytes shown as '.'. It exists purely
// for wflog.Debug call sites inspecting raw frames during development,
// grounded on original_source/include/tooling/HexDump.hpp.
func DumpFrame(buf []byte, startAddress int) string {
	var b strings.Builder
	for address := 0; address < len(buf); address += 16 {
		fmt.Fprintf(&b, "%08x", address+startAddress)
		for i := address; i < address+16; i++ {
			if i%8 == 0 {
				b.WriteByte(' ')
			}
			if i < len(buf) {
				fmt.Fprintf(&b, " %02x", buf[i])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteByte(' ')
		for i := address; i < address+16 && i < len(buf); i++ {
			c := buf[i]
			if c < 32 || c >= 127 {
				b.WriteByte('.')
			} else {
				b.WriteByte(c)
			}
		}
		if address+16 < len(buf) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
