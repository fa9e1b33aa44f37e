package classifier

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const tcpHeaderMinLen = 20

// TCP control flag bits of the 9-bit flag field spanning bytes 12-13.
const (
	tcpFlagFIN = 1 << iota
	tcpFlagSYN
	tcpFlagRST
	tcpFlagPSH
	tcpFlagACK
	tcpFlagURG
	tcpFlagECE
	tcpFlagCWR
	tcpFlagNS
)

// tcpFrame is a zero-copy view of the 20-byte fixed part of a TCP header.
// Options past the fixed part are not decoded.
type tcpFrame struct {
	buf []byte
}

func newTCPFrame(buf []byte) (tcpFrame, error) {
	if len(buf) < tcpHeaderMinLen {
		return tcpFrame{}, core.ErrPacketTooShort
	}
	return tcpFrame{buf: buf}, nil
}

func (f tcpFrame) sourcePort() uint16 {
	return binary.BigEndian.Uint16(f.buf[0:2])
}

func (f tcpFrame) destinationPort() uint16 {
	return binary.BigEndian.Uint16(f.buf[2:4])
}

func (f tcpFrame) sequenceNumber() uint32 {
	return binary.BigEndian.Uint32(f.buf[4:8])
}

func (f tcpFrame) ackNumber() uint32 {
	return binary.BigEndian.Uint32(f.buf[8:12])
}

// dataOffset returns the header length in 32-bit words (upper 4 bits of
// byte 12).
func (f tcpFrame) dataOffset() uint8 { return f.buf[12] >> 4 }

// flags returns the 9 control bits (NS through FIN) as a single value,
// extracted by shift and mask from the big-endian byte pair rather than any
// compiler bit-field layout.
func (f tcpFrame) flags() uint16 {
	return binary.BigEndian.Uint16(f.buf[12:14]) & 0x01FF
}

func (f tcpFrame) windowSize() uint16 {
	return binary.BigEndian.Uint16(f.buf[14:16])
}

func (f tcpFrame) checksum() uint16 {
	return binary.BigEndian.Uint16(f.buf[16:18])
}

func (f tcpFrame) urgentPointer() uint16 {
	return binary.BigEndian.Uint16(f.buf[18:20])
}

func (f tcpFrame) sourcePortBytes() []byte      { return f.buf[0:2] }
func (f tcpFrame) destinationPortBytes() []byte { return f.buf[2:4] }
