// Package classifier implements the packet-classification core: a zero-copy
// layered decode of one frame (L2 through the DHCP application layer) that
// exposes every decoded field through OXM identifiers for match evaluation
// and bounded in-place rewriting.
package classifier

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const (
	ethernetHeaderLen = 14
	dot1qHeaderLen    = 18

	// EtherType values
	etherTypeIPv4 = 0x0800
	etherTypeARP  = 0x0806
	etherTypeVLAN = 0x8100
	etherTypeIPv6 = 0x86DD
)

// ethernetFrame is a zero-copy view of an untagged Ethernet II header:
// destination MAC (6B), source MAC (6B), ethertype (2B big-endian).
type ethernetFrame struct {
	buf []byte
}

func newEthernetFrame(buf []byte) (ethernetFrame, error) {
	if len(buf) < ethernetHeaderLen {
		return ethernetFrame{}, core.ErrPacketTooShort
	}
	return ethernetFrame{buf: buf}, nil
}

func (f ethernetFrame) destination() []byte { return f.buf[0:6] }
func (f ethernetFrame) source() []byte      { return f.buf[6:12] }

func (f ethernetFrame) etherType() uint16 {
	return binary.BigEndian.Uint16(f.buf[12:14])
}

func (f ethernetFrame) etherTypeBytes() []byte { return f.buf[12:14] }

func (f ethernetFrame) payload() []byte { return f.buf[ethernetHeaderLen:] }

// dot1qFrame is a zero-copy view of an 802.1Q tagged frame: the Ethernet
// header with a 4-byte tag inserted after the source MAC. The tag carries the
// 0x8100 TPID at offset 12, the 16-bit TCI at offset 14, and the inner
// ethertype at offset 16.
type dot1qFrame struct {
	buf []byte
}

func newDot1QFrame(buf []byte) (dot1qFrame, error) {
	if len(buf) < dot1qHeaderLen {
		return dot1qFrame{}, core.ErrPacketTooShort
	}
	return dot1qFrame{buf: buf}, nil
}

func (f dot1qFrame) destination() []byte { return f.buf[0:6] }
func (f dot1qFrame) source() []byte      { return f.buf[6:12] }

func (f dot1qFrame) tci() uint16 {
	return binary.BigEndian.Uint16(f.buf[14:16])
}

func (f dot1qFrame) tciBytes() []byte { return f.buf[14:16] }

func (f dot1qFrame) innerEtherType() uint16 {
	return binary.BigEndian.Uint16(f.buf[16:18])
}

func (f dot1qFrame) innerEtherTypeBytes() []byte { return f.buf[16:18] }

func (f dot1qFrame) payload() []byte { return f.buf[dot1qHeaderLen:] }

// splitTCI decomposes the 16-bit tag control information word into its
// priority (3 bits), drop-eligible (1 bit), and VLAN id (12 bits) parts by
// explicit shifts and masks, independent of any compiler bit-field layout.
func splitTCI(tci uint16) (pcp uint8, dei bool, vid uint16) {
	return uint8(tci >> 13), tci&0x1000 != 0, tci & 0x0FFF
}

// joinTCI is the inverse of splitTCI.
func joinTCI(pcp uint8, dei bool, vid uint16) uint16 {
	tci := uint16(pcp&0x07)<<13 | vid&0x0FFF
	if dei {
		tci |= 0x1000
	}
	return tci
}
