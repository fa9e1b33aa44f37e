package classifier

import (
	"bytes"
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const (
	// dhcpFixedLen covers the fixed header up to and including the first 6
	// bytes of chaddr, the only MAC-relevant part of the 16-byte field. The
	// cookie seek below skips the chaddr padding and the BOOTP sname/file
	// areas that follow on the wire.
	dhcpFixedLen = 34

	dhcpOptionEnd = 0xFF
)

// dhcpMagicCookie delimits the start of the RFC 2131 options area.
var dhcpMagicCookie = [4]byte{0x63, 0x82, 0x53, 0x63}

// dhcpFrame is a zero-copy view of the fixed part of a DHCP message.
type dhcpFrame struct {
	buf []byte
}

func newDHCPFrame(buf []byte) (dhcpFrame, error) {
	if len(buf) < dhcpFixedLen {
		return dhcpFrame{}, core.ErrPacketTooShort
	}
	return dhcpFrame{buf: buf}, nil
}

func (f dhcpFrame) op() uint8           { return f.buf[0] }
func (f dhcpFrame) hardwareType() uint8 { return f.buf[1] }
func (f dhcpFrame) hardwareLen() uint8  { return f.buf[2] }
func (f dhcpFrame) hops() uint8         { return f.buf[3] }

func (f dhcpFrame) xid() uint32 {
	return binary.BigEndian.Uint32(f.buf[4:8])
}

func (f dhcpFrame) secs() uint16 {
	return binary.BigEndian.Uint16(f.buf[8:10])
}

func (f dhcpFrame) flags() uint16 {
	return binary.BigEndian.Uint16(f.buf[10:12])
}

func (f dhcpFrame) opBytes() []byte          { return f.buf[0:1] }
func (f dhcpFrame) xidBytes() []byte         { return f.buf[4:8] }
func (f dhcpFrame) clientAddrBytes() []byte  { return f.buf[12:16] }
func (f dhcpFrame) yourAddrBytes() []byte    { return f.buf[16:20] }
func (f dhcpFrame) serverAddrBytes() []byte  { return f.buf[20:24] }
func (f dhcpFrame) gatewayAddrBytes() []byte { return f.buf[24:28] }

// clientHardwareBytes returns the leading 6 bytes of chaddr.
func (f dhcpFrame) clientHardwareBytes() []byte { return f.buf[28:34] }

// options returns everything past the fixed part; the magic cookie is found
// by scanning, not at a fixed offset.
func (f dhcpFrame) options() []byte { return f.buf[dhcpFixedLen:] }

// DHCPOption is one type-length-value entry of the DHCP options area. Value
// is a window into the packet buffer. The zero value is the "not present"
// sentinel returned for codes the scan never saw.
type DHCPOption struct {
	Code   uint8
	Length uint8
	Value  []byte
}

// Empty reports whether the option is the absent sentinel.
func (o DHCPOption) Empty() bool { return o.Value == nil }

// optionScanState drives the bounded scan over the options region.
type optionScanState uint8

const (
	seekingCookie optionScanState = iota
	parsingOptions
	scanDone
)

// scanDHCPOptions walks the options region byte by byte until it finds the
// magic cookie, then consumes (code, length, value) triples until the 0xFF
// terminator or the end of the region. Later duplicates of a code overwrite
// earlier ones.
func scanDHCPOptions(opts []byte, table map[uint8]DHCPOption) {
	state := seekingCookie
	cur := 0
	for state != scanDone && cur < len(opts) {
		switch state {
		case seekingCookie:
			if cur+len(dhcpMagicCookie) <= len(opts) &&
				bytes.Equal(opts[cur:cur+len(dhcpMagicCookie)], dhcpMagicCookie[:]) {
				state = parsingOptions
				cur += len(dhcpMagicCookie)
			} else {
				cur++
			}
		case parsingOptions:
			code := opts[cur]
			if code == dhcpOptionEnd {
				state = scanDone
				break
			}
			if cur+2 > len(opts) {
				state = scanDone
				break
			}
			length := opts[cur+1]
			end := cur + 2 + int(length)
			if end > len(opts) {
				state = scanDone
				break
			}
			table[code] = DHCPOption{Code: code, Length: length, Value: opts[cur+2 : end]}
			cur = end
		}
	}
}
