package hyperv

import (
	"context"

	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

const (
	listSnapshotsScript = `
$vm = Find-VM $p.vm
Get-VMSnapshot -VM $vm |
  Select-Object Id, Name, @{n='Current'; e={ $_.Id -eq $vm.ParentSnapshotId }}, @{n='Notes'; e={ $_.Notes -replace '\r?\n', ' ' }} |
  Format-Table -AutoSize | Out-String -Width 4096
`
	takeSnapshotScript = `
$vm = Find-VM $p.vm
$snap = Checkpoint-VM -VM $vm -SnapshotName $p.name -Passthru
$snap.Id.ToString()
`
	revertSnapshotScript = `
$vm = Find-VM $p.vm
$snap = Find-Snapshot $vm $p.snapshot
Restore-VMSnapshot -VMSnapshot $snap -Confirm:$false
`
	deleteSnapshotScript = `
$vm = Find-VM $p.vm
$snap = Find-Snapshot $vm $p.snapshot
Remove-VMSnapshot -VMSnapshot $snap -Confirm:$false
`
)

type snapshotParams struct {
	VM       string `json:"vm"`
	Name     string `json:"name,omitempty"`
	Snapshot string `json:"snapshot,omitempty"`
}

// ListSnapshots returns the checkpoints of a VM; IDs are GUIDs
func (d *Driver) ListSnapshots(ctx context.Context, id types.VMID) (snaps []types.Snapshot, err error) {
	defer vmerr.Annotate(&err, backend, "list snapshots")

	out, err := d.ps.Run(ctx, listSnapshotsScript, snapshotParams{VM: string(id)})
	if err != nil {
		return nil, err
	}
	return ParseSnapshotTable(out)
}

// TakeSnapshot checkpoints a VM and returns the checkpoint GUID. The
// cmdlets offer no way to set notes, so description is not stored.
func (d *Driver) TakeSnapshot(ctx context.Context, id types.VMID, name, description string) (snap types.SnapshotID, err error) {
	defer vmerr.Annotate(&err, backend, "take snapshot")

	if description != "" {
		log.Debug("hyperv: ignoring description of checkpoint %s", name)
	}
	out, err := d.ps.Run(ctx, takeSnapshotScript, snapshotParams{VM: string(id), Name: name})
	if err != nil {
		return "", err
	}
	guid, err := ParseGUID(out)
	return types.SnapshotID(guid), err
}

// RevertSnapshot applies a checkpoint given by GUID or name
func (d *Driver) RevertSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer vmerr.Annotate(&err, backend, "revert snapshot")

	_, err = d.ps.Run(ctx, revertSnapshotScript, snapshotParams{VM: string(id), Snapshot: string(snap)})
	return err
}

// DeleteSnapshot removes a checkpoint given by GUID or name
func (d *Driver) DeleteSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer vmerr.Annotate(&err, backend, "delete snapshot")

	_, err = d.ps.Run(ctx, deleteSnapshotScript, snapshotParams{VM: string(id), Snapshot: string(snap)})
	return err
}
