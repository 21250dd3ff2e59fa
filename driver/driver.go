// Package driver defines the operations every hypervisor backend offers.
//
// There are exactly four implementations: vbox.Driver, vmrun.Driver,
// vmrest.Driver and hyperv.Driver. Callers pick one at construction time
// through provider.New and program against Driver afterwards.
//
// Every error returned by a Driver is a *vmerr.Error. Identifiers returned
// by one driver must only be passed back to that same driver.
package driver

import (
	"context"

	"github.com/nanovms/hvctl/types"
)

// InventoryService enumerates VMs and reports their state
type InventoryService interface {
	ListVMs(ctx context.Context) ([]types.VM, error)
	// State is queried fresh on every call.
	State(ctx context.Context, id types.VMID) (types.VMState, error)
}

// PowerService changes the power state of a VM
type PowerService interface {
	Start(ctx context.Context, id types.VMID, mode types.StartMode) error
	Stop(ctx context.Context, id types.VMID, mode types.StopMode) error
	Pause(ctx context.Context, id types.VMID) error
	// Resume brings a paused or suspended VM back to running.
	Resume(ctx context.Context, id types.VMID) error
	// Suspend saves the VM state to disk and stops it.
	Suspend(ctx context.Context, id types.VMID) error
	// Reset is a hard reboot.
	Reset(ctx context.Context, id types.VMID) error
}

// SnapshotService manages point-in-time states of a VM
type SnapshotService interface {
	ListSnapshots(ctx context.Context, id types.VMID) ([]types.Snapshot, error)
	TakeSnapshot(ctx context.Context, id types.VMID, name, description string) (types.SnapshotID, error)
	RevertSnapshot(ctx context.Context, id types.VMID, snapshot types.SnapshotID) error
	DeleteSnapshot(ctx context.Context, id types.VMID, snapshot types.SnapshotID) error
}

// GuestService works inside the guest operating system
type GuestService interface {
	CopyFile(ctx context.Context, id types.VMID, creds types.GuestCredentials, direction types.CopyDirection, host types.HostPath, guest types.GuestPath) error
	RunInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, program types.GuestPath, args []string) (*types.GuestResult, error)
	GuestIP(ctx context.Context, id types.VMID) (string, error)
}

// Driver is the complete set of hypervisor operations
type Driver interface {
	Backend() types.Backend
	// Version reports the version of the backend tool or service.
	Version(ctx context.Context) (string, error)

	InventoryService
	PowerService
	SnapshotService
	GuestService
}
