package classifier

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const (
	udpHeaderLen = 8

	// Ports identifying DHCP client-to-server traffic.
	dhcpClientPort = 68
	dhcpServerPort = 67
)

// udpFrame is a zero-copy view of an 8-byte UDP header.
type udpFrame struct {
	buf []byte
}

func newUDPFrame(buf []byte) (udpFrame, error) {
	if len(buf) < udpHeaderLen {
		return udpFrame{}, core.ErrPacketTooShort
	}
	return udpFrame{buf: buf}, nil
}

func (f udpFrame) sourcePort() uint16 {
	return binary.BigEndian.Uint16(f.buf[0:2])
}

func (f udpFrame) destinationPort() uint16 {
	return binary.BigEndian.Uint16(f.buf[2:4])
}

func (f udpFrame) length() uint16 {
	return binary.BigEndian.Uint16(f.buf[4:6])
}

func (f udpFrame) checksum() uint16 {
	return binary.BigEndian.Uint16(f.buf[6:8])
}

func (f udpFrame) sourcePortBytes() []byte      { return f.buf[0:2] }
func (f udpFrame) destinationPortBytes() []byte { return f.buf[2:4] }

func (f udpFrame) payload() []byte { return f.buf[udpHeaderLen:] }
