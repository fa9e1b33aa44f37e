package classifier

import (
	"bytes"
	"testing"

	"firestige.xyz/strix/internal/openflow"
)

// Builds Ethernet + IPv4 + UDP(68→67) + DHCP fixed header followed by opts.
// The options area starts right after the 34-byte fixed part; the magic
// cookie is found by scanning, as on the wire where chaddr padding and the
// BOOTP sname/file areas precede it.
func makeDHCPPacketWithOptions(opts []byte) []byte {
	packet := make([]byte, 76, 76+len(opts))

	// Ethernet header (14 bytes)
	copy(packet[0:6], []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	copy(packet[6:12], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	packet[12], packet[13] = 0x08, 0x00

	// IPv4 header (20 bytes)
	packet[14] = 0x45
	packet[22] = 0x40 // TTL
	packet[23] = 0x11 // Protocol: UDP
	copy(packet[26:30], []byte{0, 0, 0, 0})
	copy(packet[30:34], []byte{255, 255, 255, 255})

	// UDP header (8 bytes): client port 68 → server port 67
	packet[34], packet[35] = 0x00, 0x44
	packet[36], packet[37] = 0x00, 0x43

	// DHCP fixed header (34 bytes at offset 42)
	packet[42] = 0x01                                               // op: BOOTREQUEST
	packet[43] = 0x01                                               // htype: Ethernet
	packet[44] = 0x06                                               // hlen
	copy(packet[46:50], []byte{0xDE, 0xAD, 0xBE, 0xEF})             // xid
	copy(packet[54:58], []byte{10, 0, 0, 50})                       // ciaddr
	copy(packet[58:62], []byte{10, 0, 0, 51})                       // yiaddr
	copy(packet[70:76], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}) // chaddr

	return append(packet, opts...)
}

func makeDHCPPacket() []byte {
	return makeDHCPPacketWithOptions([]byte{
		0x00, 0x00, 0x00, // padding before the cookie, skipped by the seek
		0x63, 0x82, 0x53, 0x63, // magic cookie
		53, 1, 0x02, // option 53 (message type): DHCPOFFER
		0xFF, // terminator
	})
}

func TestParserDHCP(t *testing.T) {
	p := NewParser(makeDHCPPacket(), 4)

	if got := loadValue(t, p, openflow.FieldUDPSrc); got != 68 {
		t.Errorf("Expected udp_src 68, got %d", got)
	}
	if got := loadValue(t, p, openflow.FieldDHCPOp); got != 1 {
		t.Errorf("Expected dhcp_op 1, got %d", got)
	}
	if got := loadValue(t, p, openflow.FieldDHCPXID); got != 0xDEADBEEF {
		t.Errorf("Expected dhcp_xid 0xDEADBEEF, got 0x%08x", got)
	}
	if got := loadValue(t, p, openflow.FieldDHCPYIAddr); got != 0x0A000033 {
		t.Errorf("Expected dhcp_yiaddr 10.0.0.51, got 0x%08x", got)
	}
	if got := loadValue(t, p, openflow.FieldDHCPCHAddr); got != 0xAABBCCDDEEFF {
		t.Errorf("Expected dhcp_chaddr AA:BB:CC:DD:EE:FF, got 0x%012x", got)
	}

	opt := p.DHCPOption(53)
	if opt.Empty() {
		t.Fatal("Expected option 53 present")
	}
	if opt.Code != 53 || opt.Length != 1 || !bytes.Equal(opt.Value, []byte{0x02}) {
		t.Errorf("Unexpected option 53: %+v", opt)
	}

	if !p.DHCPOption(99).Empty() {
		t.Error("Expected option 99 absent")
	}
}

func TestDHCPServerPortsNotParsed(t *testing.T) {
	packet := makeDHCPPacket()
	// Swap to server-to-client ports: the DHCP layer must not run.
	packet[34], packet[35] = 0x00, 0x43
	packet[36], packet[37] = 0x00, 0x44

	p := NewParser(packet, 4)
	if p.Bound(openflow.BasicType(openflow.FieldDHCPOp)) {
		t.Error("Expected no DHCP bindings for 67→68 traffic")
	}
	if !p.DHCPOption(53).Empty() {
		t.Error("Expected empty option table")
	}
}

func TestScanOptionsTerminator(t *testing.T) {
	table := make(map[uint8]DHCPOption)
	scanDHCPOptions([]byte{
		0x63, 0x82, 0x53, 0x63,
		53, 1, 0x01,
		0xFF,
		12, 4, 'h', 'o', 's', 't', // after the terminator: ignored
	}, table)

	if len(table) != 1 {
		t.Fatalf("Expected 1 option, got %d", len(table))
	}
	if _, ok := table[12]; ok {
		t.Error("Expected options after terminator to be ignored")
	}
}

func TestScanOptionsLastWins(t *testing.T) {
	table := make(map[uint8]DHCPOption)
	scanDHCPOptions([]byte{
		0x63, 0x82, 0x53, 0x63,
		53, 1, 0x01,
		53, 1, 0x03,
		0xFF,
	}, table)

	opt := table[53]
	if !bytes.Equal(opt.Value, []byte{0x03}) {
		t.Errorf("Expected last duplicate to win, got %v", opt.Value)
	}
}

func TestScanOptionsTruncated(t *testing.T) {
	// Declared length runs past the region: scan stops without the entry.
	table := make(map[uint8]DHCPOption)
	scanDHCPOptions([]byte{
		0x63, 0x82, 0x53, 0x63,
		50, 10, 0x01, 0x02,
	}, table)
	if len(table) != 0 {
		t.Errorf("Expected no entries from truncated TLV, got %d", len(table))
	}

	// Code byte with no room for a length byte.
	table = make(map[uint8]DHCPOption)
	scanDHCPOptions([]byte{0x63, 0x82, 0x53, 0x63, 50}, table)
	if len(table) != 0 {
		t.Errorf("Expected no entries, got %d", len(table))
	}
}

func TestScanOptionsNoCookie(t *testing.T) {
	table := make(map[uint8]DHCPOption)
	scanDHCPOptions([]byte{53, 1, 0x01, 0xFF}, table)
	if len(table) != 0 {
		t.Errorf("Expected no options without the magic cookie, got %d", len(table))
	}
}
