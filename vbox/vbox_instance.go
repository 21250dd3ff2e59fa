package vbox

import (
	"context"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// ListVMs returns the registered VMs
func (d *Driver) ListVMs(ctx context.Context) (vms []types.VM, err error) {
	defer vmerr.Annotate(&err, backend, "list")

	out, err := d.run(ctx, "list", "vms")
	if err != nil {
		return nil, err
	}
	return ParseVMList(out)
}

// Info returns every property of "showvminfo --machinereadable"
func (d *Driver) Info(ctx context.Context, id types.VMID) (info map[string]string, err error) {
	defer vmerr.Annotate(&err, backend, "info")

	out, err := d.run(ctx, "showvminfo", string(id), "--machinereadable")
	if err != nil {
		return nil, err
	}
	return ParseInfo(out)
}

// State returns the current power state of a VM
func (d *Driver) State(ctx context.Context, id types.VMID) (state types.VMState, err error) {
	defer vmerr.Annotate(&err, backend, "state")

	out, err := d.run(ctx, "showvminfo", string(id), "--machinereadable")
	if err != nil {
		return types.StateUnknown, err
	}
	return ParseState(out)
}

// Start powers on a VM
func (d *Driver) Start(ctx context.Context, id types.VMID, mode types.StartMode) (err error) {
	defer vmerr.Annotate(&err, backend, "start")

	_, err = d.run(ctx, "startvm", string(id), "--type", mode.String())
	return err
}

// Stop presses the ACPI power button or cuts the power
func (d *Driver) Stop(ctx context.Context, id types.VMID, mode types.StopMode) (err error) {
	defer vmerr.Annotate(&err, backend, "stop")

	action := "acpipowerbutton"
	if mode == types.Hard {
		action = "poweroff"
	}
	return d.control(ctx, id, action)
}

// Pause freezes a running VM
func (d *Driver) Pause(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "pause")

	return d.control(ctx, id, "pause")
}

// Resume continues a paused VM or restores a saved one
func (d *Driver) Resume(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "resume")

	state, err := d.State(ctx, id)
	if err != nil {
		return err
	}
	if state == types.StateSuspended {
		_, err = d.run(ctx, "startvm", string(id), "--type", types.Headless.String())
		return err
	}
	return d.control(ctx, id, "resume")
}

// Suspend saves the VM state to disk
func (d *Driver) Suspend(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "suspend")

	return d.control(ctx, id, "savestate")
}

// Reset hard-reboots a VM
func (d *Driver) Reset(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "reset")

	return d.control(ctx, id, "reset")
}

func (d *Driver) control(ctx context.Context, id types.VMID, action string) error {
	_, err := d.run(ctx, "controlvm", string(id), action)
	return err
}
