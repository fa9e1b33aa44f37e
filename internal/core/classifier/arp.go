package classifier

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const (
	arpHeaderLen = 28

	arpHardwareEthernet = 1
	arpHardwareAddrLen  = 6
	arpProtocolAddrLen  = 4
)

// arpFrame is a zero-copy view of an Ethernet/IPv4 ARP header (28 bytes).
type arpFrame struct {
	buf []byte
}

func newARPFrame(buf []byte) (arpFrame, error) {
	if len(buf) < arpHeaderLen {
		return arpFrame{}, core.ErrPacketTooShort
	}
	return arpFrame{buf: buf}, nil
}

func (f arpFrame) hardwareType() uint16 {
	return binary.BigEndian.Uint16(f.buf[0:2])
}

func (f arpFrame) protocolType() uint16 {
	return binary.BigEndian.Uint16(f.buf[2:4])
}

func (f arpFrame) hardwareLen() uint8 { return f.buf[4] }
func (f arpFrame) protocolLen() uint8 { return f.buf[5] }

func (f arpFrame) operation() uint16 {
	return binary.BigEndian.Uint16(f.buf[6:8])
}

func (f arpFrame) operationBytes() []byte      { return f.buf[6:8] }
func (f arpFrame) senderHardwareBytes() []byte { return f.buf[8:14] }
func (f arpFrame) senderProtocolBytes() []byte { return f.buf[14:18] }
func (f arpFrame) targetHardwareBytes() []byte { return f.buf[18:24] }
func (f arpFrame) targetProtocolBytes() []byte { return f.buf[24:28] }

// valid reports whether the header describes Ethernet/IPv4 address
// resolution; anything else is skipped without binding.
func (f arpFrame) valid() bool {
	return f.hardwareType() == arpHardwareEthernet &&
		f.protocolType() == etherTypeIPv4 &&
		f.hardwareLen() == arpHardwareAddrLen &&
		f.protocolLen() == arpProtocolAddrLen
}
