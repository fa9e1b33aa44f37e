// Package openflow carries the controller-facing OpenFlow types consumed by
// the packet classifier: OXM match-field identifiers with their declared bit
// widths, masked field values, and the packet-in message envelope.
package openflow

// Class is the OXM namespace a field identifier belongs to.
type Class uint16

// ClassOpenFlowBasic is OFPXMC_OPENFLOW_BASIC, the only namespace the
// classifier resolves.
const ClassOpenFlowBasic Class = 0x8000

// FieldID enumerates oxm_ofb_match_fields from OpenFlow 1.3, followed by the
// experimenter identifiers the controller assigns to DHCP attributes.
type FieldID uint8

const (
	FieldInPort FieldID = iota // OFPXMT_OFB_IN_PORT
	FieldInPhyPort
	FieldMetadata
	FieldEthDst
	FieldEthSrc
	FieldEthType
	FieldVLANVID
	FieldVLANPCP
	FieldIPDSCP
	FieldIPECN
	FieldIPProto
	FieldIPv4Src
	FieldIPv4Dst
	FieldTCPSrc
	FieldTCPDst
	FieldUDPSrc
	FieldUDPDst
	FieldSCTPSrc
	FieldSCTPDst
	FieldICMPv4Type
	FieldICMPv4Code
	FieldARPOp
	FieldARPSPA
	FieldARPTPA
	FieldARPSHA
	FieldARPTHA
	FieldIPv6Src
	FieldIPv6Dst
	FieldIPv6FLabel
	FieldICMPv6Type
	FieldICMPv6Code
	FieldIPv6NDTarget
	FieldIPv6NDSLL
	FieldIPv6NDTLL
	FieldMPLSLabel
	FieldMPLSTC
	FieldMPLSBOS
	FieldPBBISID
	FieldTunnelID
	FieldIPv6ExtHdr

	// Experimenter extensions used by the DHCP-aware classifier.
	FieldDHCPOp
	FieldDHCPXID
	FieldDHCPCIAddr
	FieldDHCPYIAddr
	FieldDHCPCHAddr

	// NumFields sizes per-packet binding tables.
	NumFields
)

// fieldBits holds the declared width in bits of each match field, per the
// OpenFlow 1.3 spec table 12 plus the DHCP extensions.
var fieldBits = [NumFields]uint8{
	FieldInPort:       32,
	FieldInPhyPort:    32,
	FieldMetadata:     64,
	FieldEthDst:       48,
	FieldEthSrc:       48,
	FieldEthType:      16,
	FieldVLANVID:      12,
	FieldVLANPCP:      3,
	FieldIPDSCP:       6,
	FieldIPECN:        2,
	FieldIPProto:      8,
	FieldIPv4Src:      32,
	FieldIPv4Dst:      32,
	FieldTCPSrc:       16,
	FieldTCPDst:       16,
	FieldUDPSrc:       16,
	FieldUDPDst:       16,
	FieldSCTPSrc:      16,
	FieldSCTPDst:      16,
	FieldICMPv4Type:   8,
	FieldICMPv4Code:   8,
	FieldARPOp:        16,
	FieldARPSPA:       32,
	FieldARPTPA:       32,
	FieldARPSHA:       48,
	FieldARPTHA:       48,
	FieldIPv6Src:      128,
	FieldIPv6Dst:      128,
	FieldIPv6FLabel:   20,
	FieldICMPv6Type:   8,
	FieldICMPv6Code:   8,
	FieldIPv6NDTarget: 128,
	FieldIPv6NDSLL:    48,
	FieldIPv6NDTLL:    48,
	FieldMPLSLabel:    20,
	FieldMPLSTC:       3,
	FieldMPLSBOS:      1,
	FieldPBBISID:      24,
	FieldTunnelID:     64,
	FieldIPv6ExtHdr:   9,
	FieldDHCPOp:       8,
	FieldDHCPXID:      32,
	FieldDHCPCIAddr:   32,
	FieldDHCPYIAddr:   32,
	FieldDHCPCHAddr:   48,
}

var fieldNames = [NumFields]string{
	FieldInPort:       "in_port",
	FieldInPhyPort:    "in_phy_port",
	FieldMetadata:     "metadata",
	FieldEthDst:       "eth_dst",
	FieldEthSrc:       "eth_src",
	FieldEthType:      "eth_type",
	FieldVLANVID:      "vlan_vid",
	FieldVLANPCP:      "vlan_pcp",
	FieldIPDSCP:       "ip_dscp",
	FieldIPECN:        "ip_ecn",
	FieldIPProto:      "ip_proto",
	FieldIPv4Src:      "ipv4_src",
	FieldIPv4Dst:      "ipv4_dst",
	FieldTCPSrc:       "tcp_src",
	FieldTCPDst:       "tcp_dst",
	FieldUDPSrc:       "udp_src",
	FieldUDPDst:       "udp_dst",
	FieldSCTPSrc:      "sctp_src",
	FieldSCTPDst:      "sctp_dst",
	FieldICMPv4Type:   "icmpv4_type",
	FieldICMPv4Code:   "icmpv4_code",
	FieldARPOp:        "arp_op",
	FieldARPSPA:       "arp_spa",
	FieldARPTPA:       "arp_tpa",
	FieldARPSHA:       "arp_sha",
	FieldARPTHA:       "arp_tha",
	FieldIPv6Src:      "ipv6_src",
	FieldIPv6Dst:      "ipv6_dst",
	FieldIPv6FLabel:   "ipv6_flabel",
	FieldICMPv6Type:   "icmpv6_type",
	FieldICMPv6Code:   "icmpv6_code",
	FieldIPv6NDTarget: "ipv6_nd_target",
	FieldIPv6NDSLL:    "ipv6_nd_sll",
	FieldIPv6NDTLL:    "ipv6_nd_tll",
	FieldMPLSLabel:    "mpls_label",
	FieldMPLSTC:       "mpls_tc",
	FieldMPLSBOS:      "mpls_bos",
	FieldPBBISID:      "pbb_isid",
	FieldTunnelID:     "tunnel_id",
	FieldIPv6ExtHdr:   "ipv6_exthdr",
	FieldDHCPOp:       "dhcp_op",
	FieldDHCPXID:      "dhcp_xid",
	FieldDHCPCIAddr:   "dhcp_ciaddr",
	FieldDHCPYIAddr:   "dhcp_yiaddr",
	FieldDHCPCHAddr:   "dhcp_chaddr",
}

func (f FieldID) String() string {
	if f < NumFields && fieldNames[f] != "" {
		return fieldNames[f]
	}
	return "unknown"
}

// Type is a canonical field identifier: a namespace, a numeric id within it,
// and the field's declared bit width.
type Type struct {
	class Class
	field FieldID
}

// BasicType returns the identifier of f in the OpenFlow-basic namespace.
func BasicType(f FieldID) Type {
	return Type{class: ClassOpenFlowBasic, field: f}
}

func (t Type) Class() Class   { return t.class }
func (t Type) Field() FieldID { return t.field }

// Bits returns the declared width of the field in bits.
func (t Type) Bits() uint8 {
	if t.field >= NumFields {
		return 0
	}
	return fieldBits[t.field]
}

// ExactBits returns the all-ones significance mask for the field's width,
// saturated at 64 bits for the wide IPv6 identifiers that the classifier
// never binds.
func (t Type) ExactBits() uint64 {
	n := t.Bits()
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

func (t Type) String() string { return t.field.String() }

// Mask selects the significant bits of a field for a partial-field match.
type Mask struct {
	Type Type
	Bits uint64
}

// ExactMask covers every bit of the field's declared width.
func ExactMask(t Type) Mask {
	return Mask{Type: t, Bits: t.ExactBits()}
}

// Field is a masked field value: only the bits selected by Mask carry
// significance, which is how partial matches and partial updates are
// expressed.
type Field struct {
	Type  Type
	Value uint64
	Mask  uint64
}

// Exact wraps a fully significant value of type t.
func Exact(t Type, value uint64) Field {
	m := t.ExactBits()
	return Field{Type: t, Value: value & m, Mask: m}
}
