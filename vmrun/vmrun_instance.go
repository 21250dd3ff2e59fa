package vmrun

import (
	"context"
	"runtime"
	"strings"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// ListVMs returns the registered VMs plus any running VM missing from the
// inventory file
func (d *Driver) ListVMs(ctx context.Context) (vms []types.VM, err error) {
	defer vmerr.Annotate(&err, backend, "list vms")

	vms, err = d.opts.Inventory.List()
	if err != nil {
		return nil, err
	}
	running, err := d.running(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range running {
		if !containsVM(vms, p) {
			vms = append(vms, types.VM{ID: types.VMID(p), Name: vmName(p)})
		}
	}
	return vms, nil
}

func (d *Driver) running(ctx context.Context) ([]string, error) {
	out, err := d.run(ctx, nil, "list")
	if err != nil {
		return nil, err
	}
	return ParseRunning(out)
}

// State reports Running for VMs in the running list, Suspended for a known
// VM with a suspend state file and Stopped for any other known VM
func (d *Driver) State(ctx context.Context, id types.VMID) (state types.VMState, err error) {
	defer vmerr.Annotate(&err, backend, "state")

	running, err := d.running(ctx)
	if err != nil {
		return types.StateUnknown, err
	}
	for _, p := range running {
		if samePath(p, string(id)) {
			return types.StateRunning, nil
		}
	}

	known, err := d.known(id)
	if err != nil {
		return types.StateUnknown, err
	}
	if !known {
		return types.StateUnknown, vmerr.Newf(vmerr.NotFound, "no VM at %s", id)
	}
	if d.opts.Inventory.Suspended(string(id)) {
		return types.StateSuspended, nil
	}
	return types.StateStopped, nil
}

func (d *Driver) known(id types.VMID) (bool, error) {
	if d.opts.Inventory.Exists(string(id)) {
		return true, nil
	}
	vms, err := d.opts.Inventory.List()
	if err != nil {
		return false, err
	}
	return containsVM(vms, string(id)), nil
}

// Start powers on a VM
func (d *Driver) Start(ctx context.Context, id types.VMID, mode types.StartMode) (err error) {
	defer vmerr.Annotate(&err, backend, "start")

	_, err = d.run(ctx, nil, "start", string(id), startArg(mode))
	return err
}

func startArg(mode types.StartMode) string {
	if mode == types.GUI {
		return "gui"
	}
	return "nogui"
}

// Stop shuts a VM down through VMware Tools or powers it off
func (d *Driver) Stop(ctx context.Context, id types.VMID, mode types.StopMode) (err error) {
	defer vmerr.Annotate(&err, backend, "stop")

	_, err = d.run(ctx, nil, "stop", string(id), stopArg(mode))
	return err
}

func stopArg(mode types.StopMode) string {
	if mode == types.Hard {
		return "hard"
	}
	return "soft"
}

// Pause freezes a running VM
func (d *Driver) Pause(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "pause")

	_, err = d.run(ctx, nil, "pause", string(id))
	return err
}

// Resume unpauses a paused VM or starts a suspended one. vmrun cannot
// tell a paused VM from a running one, so a running VM is unpaused.
func (d *Driver) Resume(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "resume")

	state, err := d.State(ctx, id)
	if err != nil {
		return err
	}
	if state == types.StateRunning {
		_, err = d.run(ctx, nil, "unpause", string(id))
		return err
	}
	_, err = d.run(ctx, nil, "start", string(id), startArg(types.Headless))
	return err
}

// Suspend saves the VM state to disk
func (d *Driver) Suspend(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "suspend")

	_, err = d.run(ctx, nil, "suspend", string(id), "hard")
	return err
}

// Reset power cycles a VM
func (d *Driver) Reset(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "reset")

	_, err = d.run(ctx, nil, "reset", string(id), "hard")
	return err
}

func containsVM(vms []types.VM, vmx string) bool {
	for _, vm := range vms {
		if samePath(string(vm.ID), vmx) {
			return true
		}
	}
	return false
}

// samePath compares .vmx paths; Windows paths are case-insensitive
func samePath(a, b string) bool {
	if runtime.GOOS == "windows" || strings.Contains(a, `\`) {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// ToolsState is the VMware Tools status reported by checkToolsState
type ToolsState string

// VMware Tools states
const (
	ToolsUnknown   ToolsState = "unknown"
	ToolsInstalled ToolsState = "installed"
	ToolsRunning   ToolsState = "running"
)

// ToolsState reports whether VMware Tools are installed and running
func (d *Driver) ToolsState(ctx context.Context, id types.VMID) (state ToolsState, err error) {
	defer vmerr.Annotate(&err, backend, "tools state")

	out, err := d.run(ctx, nil, "checkToolsState", string(id))
	if err != nil {
		return "", err
	}
	return ParseToolsState(out)
}

// InstallTools mounts the VMware Tools installer in a running guest
func (d *Driver) InstallTools(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "install tools")

	_, err = d.run(ctx, nil, "installTools", string(id))
	return err
}

// DeleteVM removes a stopped VM and its files
func (d *Driver) DeleteVM(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "delete vm")

	_, err = d.run(ctx, nil, "deleteVM", string(id))
	return err
}
