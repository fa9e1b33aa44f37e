package classifier

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const ipv4HeaderMinLen = 20

// ipv4Frame is a zero-copy view of an IPv4 header. The fixed part is 20
// bytes; the real header length is IHL*4 and may include options the
// classifier skips over.
type ipv4Frame struct {
	buf []byte
}

func newIPv4Frame(buf []byte) (ipv4Frame, error) {
	if len(buf) < ipv4HeaderMinLen {
		return ipv4Frame{}, core.ErrPacketTooShort
	}
	return ipv4Frame{buf: buf}, nil
}

func (f ipv4Frame) version() uint8 { return f.buf[0] >> 4 }
func (f ipv4Frame) ihl() uint8     { return f.buf[0] & 0x0F }

// headerLength returns the header length in bytes (IHL is in 32-bit words).
func (f ipv4Frame) headerLength() int { return int(f.ihl()) * 4 }

func (f ipv4Frame) dscp() uint8 { return f.buf[1] >> 2 }
func (f ipv4Frame) ecn() uint8  { return f.buf[1] & 0x03 }

func (f ipv4Frame) totalLength() uint16 {
	return binary.BigEndian.Uint16(f.buf[2:4])
}

func (f ipv4Frame) identification() uint16 {
	return binary.BigEndian.Uint16(f.buf[4:6])
}

// flagsFragment returns the 3-bit flags and 13-bit fragment offset packed in
// the big-endian word at offset 6, decomposed by shift and mask.
func (f ipv4Frame) flagsFragment() (flags uint8, fragOffset uint16) {
	w := binary.BigEndian.Uint16(f.buf[6:8])
	return uint8(w >> 13), w & 0x1FFF
}

func (f ipv4Frame) ttl() uint8      { return f.buf[8] }
func (f ipv4Frame) protocol() uint8 { return f.buf[9] }

func (f ipv4Frame) checksum() uint16 {
	return binary.BigEndian.Uint16(f.buf[10:12])
}

func (f ipv4Frame) protocolBytes() []byte    { return f.buf[9:10] }
func (f ipv4Frame) sourceBytes() []byte      { return f.buf[12:16] }
func (f ipv4Frame) destinationBytes() []byte { return f.buf[16:20] }
