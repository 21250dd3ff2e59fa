package driver

import (
	"context"
	"strings"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// FindVM resolves ref to a VM of inv. ref is matched against identifiers
// first, then display names, then display names ignoring case.
func FindVM(ctx context.Context, inv InventoryService, ref string) (types.VM, error) {
	vms, err := inv.ListVMs(ctx)
	if err != nil {
		return types.VM{}, err
	}

	for _, vm := range vms {
		if string(vm.ID) == ref {
			return vm, nil
		}
	}

	for _, match := range []func(string) bool{
		func(name string) bool { return name == ref },
		func(name string) bool { return strings.EqualFold(name, ref) },
	} {
		var found []types.VM
		for _, vm := range vms {
			if match(vm.Name) {
				found = append(found, vm)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return types.VM{}, vmerr.Newf(vmerr.BackendError, "%d VMs are named %q, use an identifier", len(found), ref)
		}
	}

	return types.VM{}, vmerr.Newf(vmerr.NotFound, "no VM matches %q", ref)
}

// FindSnapshot resolves ref to a snapshot of vm by identifier or name
func FindSnapshot(ctx context.Context, snaps SnapshotService, vm types.VMID, ref string) (types.Snapshot, error) {
	list, err := snaps.ListSnapshots(ctx, vm)
	if err != nil {
		return types.Snapshot{}, err
	}
	for _, s := range list {
		if string(s.ID) == ref {
			return s, nil
		}
	}
	for _, s := range list {
		if s.Name == ref {
			return s, nil
		}
	}
	return types.Snapshot{}, vmerr.Newf(vmerr.NotFound, "no snapshot of %s matches %q", vm, ref)
}
