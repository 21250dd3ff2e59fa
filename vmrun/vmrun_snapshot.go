package vmrun

import (
	"context"

	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// ListSnapshots returns the snapshots of a VM
func (d *Driver) ListSnapshots(ctx context.Context, id types.VMID) (snaps []types.Snapshot, err error) {
	defer vmerr.Annotate(&err, backend, "list snapshots")

	out, err := d.run(ctx, nil, "listSnapshots", string(id))
	if err != nil {
		return nil, err
	}
	return ParseSnapshots(out)
}

// TakeSnapshot snapshots a VM. The snapshot name is its ID; vmrun has no
// way to store a description.
func (d *Driver) TakeSnapshot(ctx context.Context, id types.VMID, name, description string) (snap types.SnapshotID, err error) {
	defer vmerr.Annotate(&err, backend, "take snapshot")

	if description != "" {
		log.Debug("vmrun: ignoring description of snapshot %s", name)
	}
	if _, err = d.run(ctx, nil, "snapshot", string(id), name); err != nil {
		return "", err
	}
	return types.SnapshotID(name), nil
}

// RevertSnapshot reverts a VM to the named snapshot
func (d *Driver) RevertSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer vmerr.Annotate(&err, backend, "revert snapshot")

	if err = d.requireSnapshot(ctx, id, snap); err != nil {
		return err
	}
	_, err = d.run(ctx, nil, "revertToSnapshot", string(id), string(snap))
	return err
}

// DeleteSnapshot removes the named snapshot
func (d *Driver) DeleteSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer vmerr.Annotate(&err, backend, "delete snapshot")

	if err = d.requireSnapshot(ctx, id, snap); err != nil {
		return err
	}
	_, err = d.run(ctx, nil, "deleteSnapshot", string(id), string(snap))
	return err
}

// requireSnapshot fails with NotFound unless the VM has the snapshot.
// vmrun reports an unknown snapshot with a generic error.
func (d *Driver) requireSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) error {
	snaps, err := d.ListSnapshots(ctx, id)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		if s.ID == snap {
			return nil
		}
	}
	return vmerr.Newf(vmerr.NotFound, "%s has no snapshot named %q", id, snap)
}
