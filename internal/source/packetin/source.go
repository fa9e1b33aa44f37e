// Package packetin feeds the classification pipeline from decoded OpenFlow
// packet-in messages delivered by the control session.
package packetin

import (
	"time"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/openflow"
)

type Source struct {
	events <-chan *openflow.PacketInMessage
}

func NewSource(events <-chan *openflow.PacketInMessage) *Source {
	return &Source{events: events}
}

// ReadPacket blocks for the next packet-in event. A closed channel ends the
// run with ErrSourceClosed.
func (s *Source) ReadPacket() (core.RawPacket, error) {
	pi, ok := <-s.events
	if !ok {
		return core.RawPacket{}, core.ErrSourceClosed
	}
	return core.RawPacket{
		Data:      pi.Data,
		InPort:    uint32(pi.InPort),
		Timestamp: time.Now(),
		OrigLen:   uint32(pi.TotalLen),
	}, nil
}
