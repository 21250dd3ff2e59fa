package vmrun

import (
	"context"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// EnableSharedFolders turns folder sharing on. With runtimeOnly the
// setting is not saved to the .vmx.
func (d *Driver) EnableSharedFolders(ctx context.Context, id types.VMID, runtimeOnly bool) (err error) {
	defer vmerr.Annotate(&err, backend, "enable shared folders")

	_, err = d.run(ctx, nil, withRuntime([]string{"enableSharedFolders", string(id)}, runtimeOnly)...)
	return err
}

// DisableSharedFolders turns folder sharing off
func (d *Driver) DisableSharedFolders(ctx context.Context, id types.VMID, runtimeOnly bool) (err error) {
	defer vmerr.Annotate(&err, backend, "disable shared folders")

	_, err = d.run(ctx, nil, withRuntime([]string{"disableSharedFolders", string(id)}, runtimeOnly)...)
	return err
}

// AddSharedFolder shares a host directory with the guest under name
func (d *Driver) AddSharedFolder(ctx context.Context, id types.VMID, name string, host types.HostPath) (err error) {
	defer vmerr.Annotate(&err, backend, "add shared folder")

	hostPath, err := d.hostPath(ctx, host)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, nil, "addSharedFolder", string(id), name, hostPath)
	return err
}

// RemoveSharedFolder stops sharing the folder called name
func (d *Driver) RemoveSharedFolder(ctx context.Context, id types.VMID, name string) (err error) {
	defer vmerr.Annotate(&err, backend, "remove shared folder")

	_, err = d.run(ctx, nil, "removeSharedFolder", string(id), name)
	return err
}

// SetSharedFolderState points an existing shared folder at host and sets
// whether the guest may write to it
func (d *Driver) SetSharedFolderState(ctx context.Context, id types.VMID, name string, host types.HostPath, writable bool) (err error) {
	defer vmerr.Annotate(&err, backend, "set shared folder state")

	hostPath, err := d.hostPath(ctx, host)
	if err != nil {
		return err
	}
	mode := "readonly"
	if writable {
		mode = "writable"
	}
	_, err = d.run(ctx, nil, "setSharedFolderState", string(id), name, hostPath, mode)
	return err
}

func withRuntime(args []string, runtimeOnly bool) []string {
	if runtimeOnly {
		return append(args, "runtime")
	}
	return args
}
