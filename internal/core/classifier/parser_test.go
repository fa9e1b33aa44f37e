package classifier

import (
	"bytes"
	"reflect"
	"testing"

	"firestige.xyz/strix/internal/openflow"
)

// Builds an untagged Ethernet + IPv4 + TCP frame with known ports.
func makeTCPPacket() []byte {
	packet := make([]byte, 54) // Ethernet + IPv4 + TCP headers

	// Ethernet header (14 bytes)
	copy(packet[0:6], []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	copy(packet[6:12], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	packet[12], packet[13] = 0x08, 0x00 // EtherType: IPv4

	// IPv4 header (20 bytes)
	packet[14] = 0x45                   // Version 4, IHL 5
	packet[16], packet[17] = 0x00, 0x28 // Total Length: 40
	packet[22] = 0x40                   // TTL: 64
	packet[23] = 0x06                   // Protocol: TCP
	copy(packet[26:30], []byte{10, 0, 0, 1})
	copy(packet[30:34], []byte{10, 0, 0, 2})

	// TCP header (20 bytes)
	packet[34], packet[35] = 0x1F, 0x90 // Src Port: 8080
	packet[36], packet[37] = 0x00, 0x50 // Dst Port: 80
	packet[46] = 0x50                   // Data offset 5

	return packet
}

// Builds an 802.1Q tagged frame carrying IPv4: PCP 5, VID 100.
func makeVLANPacket() []byte {
	packet := make([]byte, 38) // 18-byte tagged Ethernet + 20-byte IPv4

	copy(packet[0:6], []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	copy(packet[6:12], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	packet[12], packet[13] = 0x81, 0x00 // TPID: 802.1Q
	packet[14], packet[15] = 0xA0, 0x64 // TCI: PCP 5, VID 100
	packet[16], packet[17] = 0x08, 0x00 // Inner EtherType: IPv4

	packet[18] = 0x45 // Version 4, IHL 5
	packet[27] = 0x01 // Protocol: ICMP (transport not decoded)
	copy(packet[30:34], []byte{192, 168, 0, 1})
	copy(packet[34:38], []byte{192, 168, 0, 2})

	return packet
}

// Builds an Ethernet + ARP request; hardwareType overrides the htype field.
func makeARPPacket(hardwareType uint16) []byte {
	packet := make([]byte, 42) // Ethernet + 28-byte ARP

	copy(packet[0:6], []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	copy(packet[6:12], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	packet[12], packet[13] = 0x08, 0x06 // EtherType: ARP

	packet[14] = byte(hardwareType >> 8)
	packet[15] = byte(hardwareType)
	packet[16], packet[17] = 0x08, 0x00 // Protocol type: IPv4
	packet[18] = 6                      // Hardware length
	packet[19] = 4                      // Protocol length
	packet[20], packet[21] = 0x00, 0x01 // Operation: request
	copy(packet[22:28], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}) // SHA
	copy(packet[28:32], []byte{10, 0, 0, 1})                        // SPA
	copy(packet[38:42], []byte{10, 0, 0, 2})                        // TPA

	return packet
}

func loadValue(t *testing.T, p *Parser, id openflow.FieldID) uint64 {
	t.Helper()
	return p.Load(openflow.ExactMask(openflow.BasicType(id))).Value
}

func TestParserShortBuffer(t *testing.T) {
	p := NewParser([]byte{0x00, 0x11, 0x22, 0x33}, 7)

	ids := p.BoundFields()
	if len(ids) != 1 || ids[0] != openflow.FieldInPort {
		t.Fatalf("Expected only in_port bound, got %v", ids)
	}
	if got := loadValue(t, p, openflow.FieldInPort); got != 7 {
		t.Errorf("Expected in_port 7, got %d", got)
	}

	expectContractViolation(t, "access", func() {
		p.Load(openflow.ExactMask(openflow.BasicType(openflow.FieldEthType)))
	})
}

func TestParserTCP(t *testing.T) {
	p := NewParser(makeTCPPacket(), 3)

	if p.VLANTagged() {
		t.Error("Expected untagged frame")
	}
	if got := loadValue(t, p, openflow.FieldEthType); got != 0x0800 {
		t.Errorf("Expected eth_type 0x0800, got 0x%04x", got)
	}
	if got := loadValue(t, p, openflow.FieldIPProto); got != 6 {
		t.Errorf("Expected ip_proto 6, got %d", got)
	}
	if got := loadValue(t, p, openflow.FieldIPv4Src); got != 0x0A000001 {
		t.Errorf("Expected ipv4_src 10.0.0.1, got 0x%08x", got)
	}
	if got := loadValue(t, p, openflow.FieldTCPSrc); got != 8080 {
		t.Errorf("Expected tcp_src 8080, got %d", got)
	}
	if got := loadValue(t, p, openflow.FieldTCPDst); got != 80 {
		t.Errorf("Expected tcp_dst 80, got %d", got)
	}
	if got := loadValue(t, p, openflow.FieldEthSrc); got != 0xAABBCCDDEEFF {
		t.Errorf("Expected eth_src AA:BB:CC:DD:EE:FF, got 0x%012x", got)
	}

	// Untagged: VLAN id is recorded absent, not bound.
	if p.Bound(openflow.BasicType(openflow.FieldVLANVID)) {
		t.Error("Expected vlan_vid unbound on untagged frame")
	}
	expectContractViolation(t, "access", func() {
		p.Load(openflow.ExactMask(openflow.BasicType(openflow.FieldVLANVID)))
	})
}

func TestParserVLAN(t *testing.T) {
	p := NewParser(makeVLANPacket(), 1)

	if !p.VLANTagged() {
		t.Fatal("Expected VLAN tagged frame")
	}
	if got := loadValue(t, p, openflow.FieldEthType); got != 0x0800 {
		t.Errorf("Expected inner eth_type 0x0800, got 0x%04x", got)
	}
	// The declared 12-bit width strips the PCP/DEI bits of the TCI.
	if got := loadValue(t, p, openflow.FieldVLANVID); got != 100 {
		t.Errorf("Expected vlan_vid 100, got %d", got)
	}
	// Network layer continues past the tag.
	if got := loadValue(t, p, openflow.FieldIPv4Dst); got != 0xC0A80002 {
		t.Errorf("Expected ipv4_dst 192.168.0.2, got 0x%08x", got)
	}
}

func TestParserARPValidation(t *testing.T) {
	p := NewParser(makeARPPacket(1), 2)
	if got := loadValue(t, p, openflow.FieldARPOp); got != 1 {
		t.Errorf("Expected arp_op 1, got %d", got)
	}
	if got := loadValue(t, p, openflow.FieldARPTPA); got != 0x0A000002 {
		t.Errorf("Expected arp_tpa 10.0.0.2, got 0x%08x", got)
	}

	// Wrong hardware type: the ARP layer is skipped without error.
	p = NewParser(makeARPPacket(6), 2)
	if p.Bound(openflow.BasicType(openflow.FieldARPOp)) {
		t.Error("Expected no ARP bindings for hardware type 6")
	}
	expectContractViolation(t, "access", func() {
		p.Load(openflow.ExactMask(openflow.BasicType(openflow.FieldARPSHA)))
	})
}

func TestLoadMask(t *testing.T) {
	p := NewParser(makeTCPPacket(), 1)

	// A partial mask keeps only the selected bits and echoes the mask.
	f := p.Load(openflow.Mask{Type: openflow.BasicType(openflow.FieldIPv4Src), Bits: 0xFFFF0000})
	if f.Value != 0x0A000000 {
		t.Errorf("Expected masked value 0x0A000000, got 0x%08x", f.Value)
	}
	if f.Mask != 0xFFFF0000 {
		t.Errorf("Expected mask echoed back, got 0x%08x", f.Mask)
	}
}

func TestModifyPartial(t *testing.T) {
	data := makeVLANPacket()
	p := NewParser(data, 1)

	// Patch only the low 6 bits of the VLAN id.
	p.Modify(openflow.Field{
		Type:  openflow.BasicType(openflow.FieldVLANVID),
		Value: 0x01,
		Mask:  0x3F,
	})

	if got := loadValue(t, p, openflow.FieldVLANVID); got != 0x041 {
		t.Errorf("Expected vlan_vid 0x041 after patch, got 0x%03x", got)
	}
	// The priority bits packed in the same TCI word survive the patch.
	if pcp, _, _ := splitTCI(uint16(data[14])<<8 | uint16(data[15])); pcp != 5 {
		t.Errorf("Expected PCP 5 preserved, got %d", pcp)
	}
}

func TestModifyFull(t *testing.T) {
	data := makeTCPPacket()
	p := NewParser(data, 1)

	p.Modify(openflow.Exact(openflow.BasicType(openflow.FieldIPv4Dst), 0xC0A80A01))

	if got := loadValue(t, p, openflow.FieldIPv4Dst); got != 0xC0A80A01 {
		t.Errorf("Expected ipv4_dst rewritten, got 0x%08x", got)
	}
	// The mutation happened in place in the original buffer.
	if !bytes.Equal(data[30:34], []byte{192, 168, 10, 1}) {
		t.Errorf("Expected buffer bytes rewritten, got %v", data[30:34])
	}
}

func TestSerializeTo(t *testing.T) {
	data := makeTCPPacket()
	p := NewParser(data, 1)

	small := make([]byte, 10)
	if n := p.SerializeTo(small); n != 10 {
		t.Errorf("Expected 10 bytes copied into small buffer, got %d", n)
	}
	if !bytes.Equal(small, data[:10]) {
		t.Error("Expected copied prefix to match the packet")
	}

	big := make([]byte, len(data)+16)
	if n := p.SerializeTo(big); n != len(data) {
		t.Errorf("Expected full packet copied, got %d", n)
	}
	if p.TotalBytes() != len(data) {
		t.Errorf("Expected total length %d, got %d", len(data), p.TotalBytes())
	}
}

func TestReparseDeterminism(t *testing.T) {
	data := makeDHCPPacket()

	a := NewParser(data, 9)
	b := NewParser(data, 9)

	if !reflect.DeepEqual(a.BoundFields(), b.BoundFields()) {
		t.Errorf("Expected identical bindings, got %v vs %v", a.BoundFields(), b.BoundFields())
	}
	if !reflect.DeepEqual(a.dhcpOptions, b.dhcpOptions) {
		t.Error("Expected identical DHCP option tables")
	}
}

func BenchmarkNewParser(b *testing.B) {
	data := makeTCPPacket()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewParser(data, 1)
	}
}
