package classifier

import (
	"fmt"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/openflow"
)

// bindState tracks the lifecycle of one field slot. A slot starts never-set;
// a parse layer either binds it to a byte window or records it explicitly
// absent (a field the frame structurally lacks, such as the VLAN id of an
// untagged frame). The two non-window states stay distinguishable so "layer
// never ran" and "absent by design" are separate facts.
type bindState uint8

const (
	stateUnset bindState = iota
	stateAbsent
	stateBound
)

// binding is one slot of the table: its state and, when bound, the
// big-endian field bytes inside the packet buffer.
type binding struct {
	state bindState
	win   []byte
}

// bindingEntry pairs a field id with its window. A nil window records the
// field as explicitly absent.
type bindingEntry struct {
	id  openflow.FieldID
	win []byte
}

// absent marks id as structurally missing from the frame.
func absent(id openflow.FieldID) bindingEntry {
	return bindingEntry{id: id}
}

// bindingTable maps each canonical field id to its location inside the
// packet buffer. Slots move from never-set exactly once per parse.
type bindingTable [openflow.NumFields]binding

// bind sets each entry's slot, requiring it never set before. A violation is
// a defect in a parse layer (it, or an earlier layer, already bound the
// field) and panics.
func (t *bindingTable) bind(entries ...bindingEntry) {
	for _, e := range entries {
		slot := &t[e.id]
		if slot.state != stateUnset {
			panic(core.ContractViolation{
				Op:     "bind",
				Detail: fmt.Sprintf("field %s already bound", e.id),
			})
		}
		if e.win == nil {
			slot.state = stateAbsent
		} else {
			slot.state = stateBound
			slot.win = e.win
		}
	}
}

// rebind is the symmetric counterpart: each slot must already be set, and is
// overwritten. Intended for re-parsing flows where a later layer invalidates
// an earlier interpretation; no current parse path uses it.
func (t *bindingTable) rebind(entries ...bindingEntry) {
	for _, e := range entries {
		slot := &t[e.id]
		if slot.state == stateUnset {
			panic(core.ContractViolation{
				Op:     "rebind",
				Detail: fmt.Sprintf("field %s was never bound", e.id),
			})
		}
		if e.win == nil {
			slot.state = stateAbsent
			slot.win = nil
		} else {
			slot.state = stateBound
			slot.win = e.win
		}
	}
}
