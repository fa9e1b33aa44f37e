// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawPacket is one frame delivered to the classifier, zero-copy reference to
// the buffer owned by the source that produced it. The buffer must outlive
// every classifier built over it.
type RawPacket struct {
	Data      []byte    // Raw frame data, zero-copy slice
	InPort    uint32    // Switch-local ingress port the frame arrived on
	Timestamp time.Time // Delivery timestamp
	OrigLen   uint32    // Original frame length on the wire
}
