package classifier

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/openflow"
)

// IP protocol numbers dispatched by the transport layer.
const (
	protocolICMP = 1
	protocolTCP  = 6
	protocolUDP  = 17
)

// Parser classifies one frame delivered by a packet-in event. Construction
// eagerly runs the full layered parse; afterwards the Parser is a read/write
// view over the still-live buffer, queried through Load and patched through
// Modify until the enclosing processing unit is done with the packet.
//
// The Parser borrows the buffer and never copies or frees it; the buffer
// must outlive the Parser. One Parser serves one goroutine; independent
// Parsers over different buffers are fully independent.
type Parser struct {
	data        []byte
	inPort      [4]byte
	bindings    bindingTable
	vlanTagged  bool
	dhcpOptions map[uint8]DHCPOption
}

// NewParser builds a Parser over data, binds the ingress port, and parses
// the frame layer by layer. Truncated or unrecognized layers are skipped
// silently; only the layers a length check proves present contribute
// bindings.
func NewParser(data []byte, inPort uint32) *Parser {
	p := &Parser{
		data:        data,
		dhcpOptions: make(map[uint8]DHCPOption),
	}
	binary.BigEndian.PutUint32(p.inPort[:], inPort)
	p.bindings.bind(bindingEntry{id: openflow.FieldInPort, win: p.inPort[:]})

	if data != nil {
		p.parseLink(data)
	}
	return p
}

// NewParserFromPacketIn classifies the frame carried by a packet-in message.
func NewParserFromPacketIn(pi *openflow.PacketInMessage) *Parser {
	return NewParser(pi.Data, uint32(pi.InPort))
}

// parseLink decodes the Ethernet header, unwrapping a single 802.1Q tag when
// the 0x8100 TPID is present, and hands the inner ethertype to the network
// layer.
func (p *Parser) parseLink(data []byte) {
	eth, err := newEthernetFrame(data)
	if err != nil {
		return
	}

	if eth.etherType() == etherTypeVLAN {
		tagged, err := newDot1QFrame(data)
		if err != nil {
			return
		}
		p.vlanTagged = true
		p.bindings.bind(
			bindingEntry{id: openflow.FieldEthType, win: tagged.innerEtherTypeBytes()},
			bindingEntry{id: openflow.FieldEthSrc, win: tagged.source()},
			bindingEntry{id: openflow.FieldEthDst, win: tagged.destination()},
			bindingEntry{id: openflow.FieldVLANVID, win: tagged.tciBytes()},
		)
		p.parseNetwork(tagged.innerEtherType(), tagged.payload())
		return
	}

	p.bindings.bind(
		bindingEntry{id: openflow.FieldEthType, win: eth.etherTypeBytes()},
		bindingEntry{id: openflow.FieldEthSrc, win: eth.source()},
		bindingEntry{id: openflow.FieldEthDst, win: eth.destination()},
		absent(openflow.FieldVLANVID), // untagged frame has no VLAN id
	)
	p.parseNetwork(eth.etherType(), eth.payload())
}

// parseNetwork dispatches on the ethertype from the link layer.
func (p *Parser) parseNetwork(etherType uint16, data []byte) {
	switch etherType {
	case etherTypeIPv4:
		ip, err := newIPv4Frame(data)
		if err != nil {
			return
		}
		p.bindings.bind(
			bindingEntry{id: openflow.FieldIPProto, win: ip.protocolBytes()},
			bindingEntry{id: openflow.FieldIPv4Src, win: ip.sourceBytes()},
			bindingEntry{id: openflow.FieldIPv4Dst, win: ip.destinationBytes()},
		)
		if hl := ip.headerLength(); len(data) > hl {
			p.parseTransport(ip.protocol(), data[hl:])
		}
	case etherTypeARP:
		arp, err := newARPFrame(data)
		if err != nil {
			return
		}
		if !arp.valid() {
			return
		}
		p.bindings.bind(
			bindingEntry{id: openflow.FieldARPOp, win: arp.operationBytes()},
			bindingEntry{id: openflow.FieldARPSHA, win: arp.senderHardwareBytes()},
			bindingEntry{id: openflow.FieldARPTHA, win: arp.targetHardwareBytes()},
			bindingEntry{id: openflow.FieldARPSPA, win: arp.senderProtocolBytes()},
			bindingEntry{id: openflow.FieldARPTPA, win: arp.targetProtocolBytes()},
		)
	case etherTypeIPv6:
		// not decoded
	}
}

// parseTransport dispatches on the IP protocol number.
func (p *Parser) parseTransport(protocol uint8, data []byte) {
	switch protocol {
	case protocolTCP:
		tcp, err := newTCPFrame(data)
		if err != nil {
			return
		}
		p.bindings.bind(
			bindingEntry{id: openflow.FieldTCPSrc, win: tcp.sourcePortBytes()},
			bindingEntry{id: openflow.FieldTCPDst, win: tcp.destinationPortBytes()},
		)
	case protocolUDP:
		udp, err := newUDPFrame(data)
		if err != nil {
			return
		}
		p.bindings.bind(
			bindingEntry{id: openflow.FieldUDPSrc, win: udp.sourcePortBytes()},
			bindingEntry{id: openflow.FieldUDPDst, win: udp.destinationPortBytes()},
		)
		if len(data) > udpHeaderLen &&
			udp.sourcePort() == dhcpClientPort && udp.destinationPort() == dhcpServerPort {
			p.parseDHCP(udp.payload())
		}
	case protocolICMP:
		// not decoded
	}
}

// parseDHCP binds the fixed-header fields and scans the options region.
func (p *Parser) parseDHCP(data []byte) {
	dhcp, err := newDHCPFrame(data)
	if err != nil {
		return
	}
	p.bindings.bind(
		bindingEntry{id: openflow.FieldDHCPOp, win: dhcp.opBytes()},
		bindingEntry{id: openflow.FieldDHCPXID, win: dhcp.xidBytes()},
		bindingEntry{id: openflow.FieldDHCPCIAddr, win: dhcp.clientAddrBytes()},
		bindingEntry{id: openflow.FieldDHCPYIAddr, win: dhcp.yourAddrBytes()},
		bindingEntry{id: openflow.FieldDHCPCHAddr, win: dhcp.clientHardwareBytes()},
	)
	scanDHCPOptions(dhcp.options(), p.dhcpOptions)
}

// access resolves the window bound for t. Both failure modes are programming
// errors in the caller or a parse layer, never malformed input.
func (p *Parser) access(t openflow.Type) []byte {
	if t.Class() != openflow.ClassOpenFlowBasic {
		panic(core.ContractViolation{
			Op:     "access",
			Detail: fmt.Sprintf("unsupported oxm namespace 0x%04x", uint16(t.Class())),
		})
	}
	if t.Field() >= openflow.NumFields || p.bindings[t.Field()].state != stateBound {
		panic(core.ContractViolation{
			Op:     "access",
			Detail: fmt.Sprintf("field %s is not bound", t.Field()),
		})
	}
	return p.bindings[t.Field()].win
}

// Load reads the field's declared bit width big-endian from its bound
// location and returns it combined with the supplied significance mask.
// Partial-field matches (a VLAN-id match ignoring priority bits, say) are
// expressed through the mask.
func (p *Parser) Load(m openflow.Mask) openflow.Field {
	raw := loadBits(p.access(m.Type), m.Type.Bits())
	return openflow.Field{Type: m.Type, Value: raw & m.Bits, Mask: m.Bits}
}

// Modify replaces the bits of the field selected by the patch's mask and
// writes the result back in place. The read-modify-write keeps adjacent bits
// packed in the same bytes intact, so patching the VLAN id leaves the
// priority bits of the shared TCI word untouched.
func (p *Parser) Modify(patch openflow.Field) {
	win := p.access(patch.Type)
	cur := loadBits(win, patch.Type.Bits())
	next := (cur &^ patch.Mask) | (patch.Value & patch.Mask)
	storeBits(win, patch.Type.Bits(), next)
}

// VLANTagged reports whether the frame carried an 802.1Q tag.
func (p *Parser) VLANTagged() bool { return p.vlanTagged }

// SerializeTo copies up to len(buf) raw bytes of the original packet into
// buf and returns the number copied, capped at the smaller length.
func (p *Parser) SerializeTo(buf []byte) int { return copy(buf, p.data) }

// TotalBytes returns the original packet length.
func (p *Parser) TotalBytes() int { return len(p.data) }

// DHCPOption looks up a scanned option by code; the zero DHCPOption is the
// absent sentinel.
func (p *Parser) DHCPOption(code uint8) DHCPOption { return p.dhcpOptions[code] }

// Bound reports whether the parse bound t to a location in the buffer.
func (p *Parser) Bound(t openflow.Type) bool {
	return t.Class() == openflow.ClassOpenFlowBasic &&
		t.Field() < openflow.NumFields &&
		p.bindings[t.Field()].state == stateBound
}

// BoundFields lists every field id the parse bound, in id order.
func (p *Parser) BoundFields() []openflow.FieldID {
	var ids []openflow.FieldID
	for id := openflow.FieldID(0); id < openflow.NumFields; id++ {
		if p.bindings[id].state == stateBound {
			ids = append(ids, id)
		}
	}
	return ids
}

// loadBits interprets win as a big-endian bit string and keeps the low nbits.
func loadBits(win []byte, nbits uint8) uint64 {
	var v uint64
	for _, b := range win {
		v = v<<8 | uint64(b)
	}
	return v & widthMask(nbits)
}

// storeBits writes the low nbits of v into win big-endian, preserving any
// bits of the window above the declared width.
func storeBits(win []byte, nbits uint8, v uint64) {
	m := widthMask(nbits)
	w := loadBits(win, 64)
	w = (w &^ m) | (v & m)
	for i := len(win) - 1; i >= 0; i-- {
		win[i] = byte(w)
		w >>= 8
	}
}

func widthMask(nbits uint8) uint64 {
	if nbits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << nbits) - 1
}
