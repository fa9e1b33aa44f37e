// Package file replays frames from a pcap capture file as classification
// input. Captures carry no switch ingress port, so a configured one is
// attributed to every frame.
package file

import (
	"fmt"
	"io"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/strix/internal/core"
)

type Source struct {
	path   string
	inPort uint32
	handle *pcap.Handle
}

func NewSource(path string, inPort uint32) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("pcap path is required")
	}
	return &Source{path: path, inPort: inPort}, nil
}

func (s *Source) Start() error {
	handle, err := pcap.OpenOffline(s.path)
	if err != nil {
		return fmt.Errorf("failed to open pcap file %s: %w", s.path, err)
	}
	s.handle = handle
	return nil
}

// ReadPacket returns the next frame of the capture. io.EOF ends the replay.
func (s *Source) ReadPacket() (core.RawPacket, error) {
	if s.handle == nil {
		return core.RawPacket{}, core.ErrSourceClosed
	}

	data, ci, err := s.handle.ReadPacketData()
	if err != nil {
		if err == io.EOF {
			return core.RawPacket{}, io.EOF
		}
		return core.RawPacket{}, fmt.Errorf("failed to read packet: %w", err)
	}

	return core.RawPacket{
		Data:      data,
		InPort:    s.inPort,
		Timestamp: ci.Timestamp,
		OrigLen:   uint32(ci.Length),
	}, nil
}

func (s *Source) LinkType() layers.LinkType {
	if s.handle == nil {
		return layers.LinkTypeEthernet // default
	}
	return s.handle.LinkType()
}

func (s *Source) Stop() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	return nil
}
