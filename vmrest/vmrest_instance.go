package vmrest

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	vim "github.com/vmware/govmomi/vim25/types"
)

// statePaused is reported by vmrest in addition to the vSphere power states
const statePaused = "paused"

// power operations accepted by PUT /vms/{id}/power
const (
	powerOn       = "on"
	powerOff      = "off"
	powerShutdown = "shutdown"
	powerSuspend  = "suspend"
	powerPause    = "pause"
	powerUnpause  = "unpause"
)

// ListVMs returns the VMs known to vmrest. Names are taken from the .vmx
// file name.
func (d *Driver) ListVMs(ctx context.Context) (vms []types.VM, err error) {
	defer vmerr.Annotate(&err, backend, "list vms")

	var list vmList
	if err = d.do(ctx, http.MethodGet, "/vms", nil, &list); err != nil {
		return nil, err
	}
	for _, e := range list {
		vms = append(vms, types.VM{ID: types.VMID(e.ID), Name: vmxName(e.Path)})
	}
	return vms, nil
}

func vmxName(p string) string {
	base := p[strings.LastIndexAny(p, `/\`)+1:]
	return strings.TrimSuffix(base, path.Ext(base))
}

// State returns the power state of a VM
func (d *Driver) State(ctx context.Context, id types.VMID) (state types.VMState, err error) {
	defer vmerr.Annotate(&err, backend, "state")

	var doc powerDoc
	if err = d.do(ctx, http.MethodGet, vmPath(id, "power"), nil, &doc); err != nil {
		return types.StateUnknown, err
	}
	return mapState(doc.PowerState), nil
}

func mapState(s string) types.VMState {
	switch vim.VirtualMachinePowerState(s) {
	case vim.VirtualMachinePowerStatePoweredOn:
		return types.StateRunning
	case vim.VirtualMachinePowerStatePoweredOff:
		return types.StateStopped
	case vim.VirtualMachinePowerStateSuspended:
		return types.StateSuspended
	}
	if s == statePaused {
		return types.StatePaused
	}
	return types.StateUnknown
}

func (d *Driver) power(ctx context.Context, id types.VMID, op string) error {
	var doc powerDoc
	return d.do(ctx, http.MethodPut, vmPath(id, "power"), op, &doc)
}

// Start powers on a VM. vmrest has no display option, so GUI mode starts
// the VM like headless mode.
func (d *Driver) Start(ctx context.Context, id types.VMID, mode types.StartMode) (err error) {
	defer vmerr.Annotate(&err, backend, "start")

	if mode == types.GUI {
		log.Debug("vmrest: starting %s without a console window", id)
	}
	return d.power(ctx, id, powerOn)
}

// Stop shuts the guest down or powers the VM off
func (d *Driver) Stop(ctx context.Context, id types.VMID, mode types.StopMode) (err error) {
	defer vmerr.Annotate(&err, backend, "stop")

	if mode == types.Hard {
		return d.power(ctx, id, powerOff)
	}
	return d.power(ctx, id, powerShutdown)
}

// Pause freezes a running VM
func (d *Driver) Pause(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "pause")

	return d.power(ctx, id, powerPause)
}

// Resume unpauses a paused VM or powers on a suspended one
func (d *Driver) Resume(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "resume")

	state, err := d.State(ctx, id)
	if err != nil {
		return err
	}
	if state == types.StatePaused {
		return d.power(ctx, id, powerUnpause)
	}
	return d.power(ctx, id, powerOn)
}

// Suspend saves the VM state to disk
func (d *Driver) Suspend(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "suspend")

	return d.power(ctx, id, powerSuspend)
}

// Reset powers a VM off and on again
func (d *Driver) Reset(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "reset")

	if err = d.power(ctx, id, powerOff); err != nil {
		return err
	}
	return d.power(ctx, id, powerOn)
}

// ListSnapshots is not provided by vmrest
func (d *Driver) ListSnapshots(ctx context.Context, id types.VMID) ([]types.Snapshot, error) {
	return nil, vmerr.Unsupported(backend, "list snapshots")
}

// TakeSnapshot is not provided by vmrest
func (d *Driver) TakeSnapshot(ctx context.Context, id types.VMID, name, description string) (types.SnapshotID, error) {
	return "", vmerr.Unsupported(backend, "take snapshot")
}

// RevertSnapshot is not provided by vmrest
func (d *Driver) RevertSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) error {
	return vmerr.Unsupported(backend, "revert snapshot")
}

// DeleteSnapshot is not provided by vmrest
func (d *Driver) DeleteSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) error {
	return vmerr.Unsupported(backend, "delete snapshot")
}

// DeleteVM removes a powered off VM and its files
func (d *Driver) DeleteVM(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "delete vm")

	return d.do(ctx, http.MethodDelete, vmPath(id), nil, nil)
}
