package vbox

import (
	"context"
	"strings"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// ListSnapshots returns the snapshots of a VM; identifiers are UUIDs
func (d *Driver) ListSnapshots(ctx context.Context, id types.VMID) (snaps []types.Snapshot, err error) {
	defer vmerr.Annotate(&err, backend, "list snapshots")

	out, err := d.exec(ctx, "snapshot", string(id), "list", "--machinereadable")
	if err != nil {
		return nil, err
	}
	// a VM without snapshots makes VBoxManage exit with status 1
	if strings.Contains(out.stdout+out.stderr, noSnapshots) {
		return nil, nil
	}
	if out.code != 0 {
		return nil, ParseError(out.stderr, out.stdout, out.code)
	}
	return ParseSnapshots(out.stdout)
}

// TakeSnapshot snapshots a VM and returns the new snapshot UUID
func (d *Driver) TakeSnapshot(ctx context.Context, id types.VMID, name, description string) (snap types.SnapshotID, err error) {
	defer vmerr.Annotate(&err, backend, "take snapshot")

	args := []string{"snapshot", string(id), "take", name}
	if description != "" {
		args = append(args, "--description", description)
	}
	if d.opts.LiveSnapshots {
		args = append(args, "--live")
	}

	out, err := d.exec(ctx, args...)
	if err != nil {
		return "", err
	}
	if out.code != 0 {
		return "", ParseError(out.stderr, out.stdout, out.code)
	}
	return ParseSnapshotTaken(out.stdout + "\n" + out.stderr)
}

// RevertSnapshot restores a VM to a snapshot given by UUID or name
func (d *Driver) RevertSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer vmerr.Annotate(&err, backend, "revert snapshot")

	_, err = d.run(ctx, "snapshot", string(id), "restore", string(snap))
	return err
}

// DeleteSnapshot removes a snapshot given by UUID or name
func (d *Driver) DeleteSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer vmerr.Annotate(&err, backend, "delete snapshot")

	_, err = d.run(ctx, "snapshot", string(id), "delete", string(snap))
	return err
}
