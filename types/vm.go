package types

import (
	"fmt"
)

// VMID addresses a virtual machine within one backend. Depending on the
// backend it is a name, a numeric index, a UUID or a .vmx path.
type VMID string

// VM is an entry of a backend inventory
type VM struct {
	ID   VMID   `json:"id"`
	Name string `json:"name"`
}

// VMState is the power state of a virtual machine
type VMState int

// Known power states
const (
	StateUnknown VMState = iota
	StateRunning
	StateStopped
	StatePaused
	StateSuspended
)

var stateNames = map[VMState]string{
	StateUnknown:   "unknown",
	StateRunning:   "running",
	StateStopped:   "stopped",
	StatePaused:    "paused",
	StateSuspended: "suspended",
}

func (s VMState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("VMState(%d)", int(s))
}

// MarshalText renders the state name
func (s VMState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SnapshotID addresses a snapshot of one VM
type SnapshotID string

// Snapshot describes a point-in-time state of a VM
type Snapshot struct {
	ID          SnapshotID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Current     bool       `json:"current,omitempty"`
}
