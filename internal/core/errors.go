// Package core defines sentinel errors.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for recoverable conditions.
var (
	// Classification errors
	ErrPacketTooShort   = errors.New("strix: packet too short")
	ErrUnsupportedProto = errors.New("strix: unsupported protocol")

	// OpenFlow session errors
	ErrInvalidMessageLength = errors.New("strix: invalid openflow message length")

	// Pipeline errors
	ErrPipelineStopped = errors.New("strix: pipeline stopped")
	ErrSourceClosed    = errors.New("strix: packet source closed")

	// Configuration errors
	ErrConfigInvalid = errors.New("strix: invalid configuration")
)

// ContractViolation is the panic payload raised when classifier code breaks a
// binding or access precondition: binding an already-bound field, rebinding a
// field no layer has set, or resolving a field that was never bound. It marks
// a defect in the classifier or its caller rather than malformed input, so it
// aborts the current processing unit instead of being absorbed as an error.
type ContractViolation struct {
	Op     string
	Detail string
}

func (v ContractViolation) Error() string {
	return fmt.Sprintf("strix: contract violation in %s: %s", v.Op, v.Detail)
}
