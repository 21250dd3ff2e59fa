package vmrest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// NIC is a virtual network adapter
type NIC struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	VMnet string `json:"vmnet"`
	MAC   string `json:"mac"`
}

// NICType is the network connection of an adapter
type NICType string

// Adapter connection types
const (
	NICNAT      NICType = "nat"
	NICBridged  NICType = "bridged"
	NICHostOnly NICType = "hostOnly"
	// NICCustom connects to the vmnet given with it
	NICCustom NICType = "custom"
)

// SharedFolder is a host directory shared with the guest
type SharedFolder struct {
	ID       string `json:"id"`
	HostPath string `json:"hostPath"`
	ReadOnly bool   `json:"readOnly"`
}

// folderWritable is the flags value of a read-write shared folder
const folderWritable = 4

// NICs lists the network adapters of a VM
func (d *Driver) NICs(ctx context.Context, id types.VMID) (nics []NIC, err error) {
	defer vmerr.Annotate(&err, backend, "list nics")

	var doc nicList
	if err = d.do(ctx, http.MethodGet, vmPath(id, "nic"), nil, &doc); err != nil {
		return nil, err
	}
	for _, n := range doc.NICs {
		nics = append(nics, NIC{Index: n.Index, Type: n.Type, VMnet: n.VMnet, MAC: n.MacAddress})
	}
	return nics, nil
}

// SharedFolders lists the shared folders of a VM
func (d *Driver) SharedFolders(ctx context.Context, id types.VMID) (folders []SharedFolder, err error) {
	defer vmerr.Annotate(&err, backend, "list shared folders")

	var doc folderList
	if err = d.do(ctx, http.MethodGet, vmPath(id, "sharedfolders"), nil, &doc); err != nil {
		return nil, err
	}
	for _, f := range doc {
		folders = append(folders, SharedFolder{ID: f.FolderID, HostPath: f.HostPath, ReadOnly: f.Flags != folderWritable})
	}
	return folders, nil
}

// AddNIC adds a network adapter. vmnet is only sent for NICCustom.
func (d *Driver) AddNIC(ctx context.Context, id types.VMID, typ NICType, vmnet string) (nic NIC, err error) {
	defer vmerr.Annotate(&err, backend, "add nic")

	var doc nicDoc
	if err = d.do(ctx, http.MethodPost, vmPath(id, "nic"), newNICRequest(typ, vmnet), &doc); err != nil {
		return NIC{}, err
	}
	return NIC{Index: doc.Index, Type: doc.Type, VMnet: doc.VMnet, MAC: doc.MacAddress}, nil
}

// UpdateNIC changes the connection of the adapter at index
func (d *Driver) UpdateNIC(ctx context.Context, id types.VMID, index int, typ NICType, vmnet string) (err error) {
	defer vmerr.Annotate(&err, backend, "update nic")

	var doc nicDoc
	if err = d.do(ctx, http.MethodPut, vmPath(id, "nic", strconv.Itoa(index)), newNICRequest(typ, vmnet), &doc); err != nil {
		return err
	}
	if doc.Index != index {
		return vmerr.Newf(vmerr.ParseFailure, "updated nic %d but the service answered for nic %d", index, doc.Index)
	}
	return nil
}

// DeleteNIC removes the adapter at index
func (d *Driver) DeleteNIC(ctx context.Context, id types.VMID, index int) (err error) {
	defer vmerr.Annotate(&err, backend, "delete nic")

	return d.do(ctx, http.MethodDelete, vmPath(id, "nic", strconv.Itoa(index)), nil, nil)
}

// MountSharedFolder shares a host directory with the guest and returns
// the shared folders of the VM afterwards
func (d *Driver) MountSharedFolder(ctx context.Context, id types.VMID, folder SharedFolder) (folders []SharedFolder, err error) {
	defer vmerr.Annotate(&err, backend, "mount shared folder")

	if folder.ID == "" || folder.HostPath == "" {
		return nil, vmerr.New(vmerr.BackendError, "a shared folder needs an id and a host path")
	}
	req := folderDoc{FolderID: folder.ID, HostPath: folder.HostPath}
	if !folder.ReadOnly {
		req.Flags = folderWritable
	}
	var doc folderList
	if err = d.do(ctx, http.MethodPost, vmPath(id, "sharedfolders"), req, &doc); err != nil {
		return nil, err
	}
	for _, f := range doc {
		folders = append(folders, SharedFolder{ID: f.FolderID, HostPath: f.HostPath, ReadOnly: f.Flags != folderWritable})
	}
	return folders, nil
}

// DeleteSharedFolder stops sharing the folder with the given id
func (d *Driver) DeleteSharedFolder(ctx context.Context, id types.VMID, folderID string) (err error) {
	defer vmerr.Annotate(&err, backend, "delete shared folder")

	return d.do(ctx, http.MethodDelete, vmPath(id, "sharedfolders", url.PathEscape(folderID)), nil, nil)
}
