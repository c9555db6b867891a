package weblink

import "encoding/binary"

// nativeOrder is this host's byte order for WebLink's multi-byte
// fields. Every realistic WebFront deployment target (amd64, arm64)
// is little-endian, so native order is fixed rather than probed at
// runtime; swappedOrder below is used whenever the JS peer reports the
// opposite endianness during the Handshake.
type nativeOrder struct{}

func (nativeOrder) Uint16(b []byte) uint16          { return binary.LittleEndian.Uint16(b) }
func (nativeOrder) Uint32(b []byte) uint32          { return binary.LittleEndian.Uint32(b) }
func (nativeOrder) Uint64(b []byte) uint64          { return binary.LittleEndian.Uint64(b) }
func (nativeOrder) PutUint16(b []byte, v uint16)    { binary.LittleEndian.PutUint16(b, v) }
func (nativeOrder) PutUint32(b []byte, v uint32)    { binary.LittleEndian.PutUint32(b, v) }
func (nativeOrder) PutUint64(b []byte, v uint64)    { binary.LittleEndian.PutUint64(b, v) }
func (nativeOrder) String() string                  { return "weblink.nativeOrder" }

// swappedOrder is used for multi-byte fields sent by a peer whose
// reported endianness differs from nativeOrder.
type swappedOrder struct{}

func (swappedOrder) Uint16(b []byte) uint16       { return binary.BigEndian.Uint16(b) }
func (swappedOrder) Uint32(b []byte) uint32       { return binary.BigEndian.Uint32(b) }
func (swappedOrder) Uint64(b []byte) uint64       { return binary.BigEndian.Uint64(b) }
func (swappedOrder) PutUint16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }
func (swappedOrder) PutUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func (swappedOrder) PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }
func (swappedOrder) String() string               { return "weblink.swappedOrder" }

// HostEndian reports this host's native JS-protocol endianness tag, for
// comparison against a Handshake's reported Endian.
const HostEndian = EndianLittle

// SameEndian reports whether peer matches the host's native endianness
// (spec.md §8: "sameEndian is true iff E == host_endian").
func SameEndian(peer Endian) bool { return peer == HostEndian }
