package openflow

import (
	"encoding/binary"

	"firestige.xyz/strix/internal/core"
)

const (
	headerLen   = 8
	packetInLen = 18
)

// Header is the fixed preamble of every OpenFlow control message.
type Header struct {
	Version uint8
	Type    uint8
	Length  uint16
	XID     uint32
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < headerLen {
		return core.ErrInvalidMessageLength
	}
	h.Version = data[0]
	h.Type = data[1]
	h.Length = binary.BigEndian.Uint16(data[2:4])
	h.XID = binary.BigEndian.Uint32(data[4:8])
	return nil
}

// PacketInMessage is the control-plane "packet arrived" event: the switch
// hands the controller a raw frame together with the ingress port it was
// received on.
type PacketInMessage struct {
	Header
	BufferID uint32
	TotalLen uint16
	InPort   uint16
	Reason   uint8
	Data     []byte
}

func (r *PacketInMessage) UnmarshalBinary(data []byte) error {
	header := &Header{}
	if err := header.UnmarshalBinary(data); err != nil {
		return err
	}
	if len(data) < packetInLen || len(data) != int(header.Length) {
		return core.ErrInvalidMessageLength
	}

	r.Header = *header
	r.BufferID = binary.BigEndian.Uint32(data[8:12])
	r.TotalLen = binary.BigEndian.Uint16(data[12:14])
	r.InPort = binary.BigEndian.Uint16(data[14:16])
	r.Reason = data[16]
	r.Data = data[18:]

	return nil
}
