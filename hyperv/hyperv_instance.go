package hyperv

import (
	"context"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

const (
	listScript = `
Get-VM | Select-Object VMId, Name | Format-Table -AutoSize | Out-String -Width 4096
`
	stateScript = `
$vm = Find-VM $p.vm
$vm.State.ToString()
`
	startScript = `
$vm = Find-VM $p.vm
Start-VM -VM $vm
if ($p.gui) {
  Start-Process -FilePath vmconnect.exe -ArgumentList @('localhost', ('"' + $vm.Name + '"'))
}
`
	stopScript = `
$vm = Find-VM $p.vm
if ($p.hard) {
  Stop-VM -VM $vm -TurnOff -Force
} else {
  Stop-VM -VM $vm -Force
}
`
	pauseScript = `
$vm = Find-VM $p.vm
Suspend-VM -VM $vm
`
	resumeScript = `
$vm = Find-VM $p.vm
if ($vm.State -eq 'Saved') {
  Start-VM -VM $vm
} else {
  Resume-VM -VM $vm
}
`
	suspendScript = `
$vm = Find-VM $p.vm
Save-VM -VM $vm
`
	resetScript = `
$vm = Find-VM $p.vm
Restart-VM -VM $vm -Force -Confirm:$false
`
)

// ListVMs returns every VM on the host; IDs are VMId GUIDs
func (d *Driver) ListVMs(ctx context.Context) (vms []types.VM, err error) {
	defer vmerr.Annotate(&err, backend, "list vms")

	out, err := d.ps.Run(ctx, listScript, nil)
	if err != nil {
		return nil, err
	}
	return ParseVMTable(out)
}

// State returns the power state of a VM
func (d *Driver) State(ctx context.Context, id types.VMID) (state types.VMState, err error) {
	defer vmerr.Annotate(&err, backend, "state")

	out, err := d.ps.Run(ctx, stateScript, vmParams{VM: string(id)})
	if err != nil {
		return types.StateUnknown, err
	}
	name, err := ParseValue(out)
	if err != nil {
		return types.StateUnknown, err
	}
	return ParseState(name), nil
}

type startParams struct {
	VM  string `json:"vm"`
	GUI bool   `json:"gui"`
}

// Start powers on a VM. GUI mode also opens a vmconnect window.
func (d *Driver) Start(ctx context.Context, id types.VMID, mode types.StartMode) (err error) {
	defer vmerr.Annotate(&err, backend, "start")

	_, err = d.ps.Run(ctx, startScript, startParams{VM: string(id), GUI: mode == types.GUI})
	return err
}

type stopParams struct {
	VM   string `json:"vm"`
	Hard bool   `json:"hard"`
}

// Stop shuts the guest down or turns the VM off. Stopping a VM that is
// already off succeeds.
func (d *Driver) Stop(ctx context.Context, id types.VMID, mode types.StopMode) (err error) {
	defer vmerr.Annotate(&err, backend, "stop")

	_, err = d.ps.Run(ctx, stopScript, stopParams{VM: string(id), Hard: mode == types.Hard})
	return err
}

// Pause freezes a running VM
func (d *Driver) Pause(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "pause")

	_, err = d.ps.Run(ctx, pauseScript, vmParams{VM: string(id)})
	return err
}

// Resume continues a paused VM or starts a saved one
func (d *Driver) Resume(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "resume")

	_, err = d.ps.Run(ctx, resumeScript, vmParams{VM: string(id)})
	return err
}

// Suspend saves the VM state to disk
func (d *Driver) Suspend(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "suspend")

	_, err = d.ps.Run(ctx, suspendScript, vmParams{VM: string(id)})
	return err
}

// Reset hard resets a VM
func (d *Driver) Reset(ctx context.Context, id types.VMID) (err error) {
	defer vmerr.Annotate(&err, backend, "reset")

	_, err = d.ps.Run(ctx, resetScript, vmParams{VM: string(id)})
	return err
}
