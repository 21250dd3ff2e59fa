package cmd

import (
	"context"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/vmrest"
	"github.com/nanovms/hvctl/vmrun"
	"github.com/spf13/cobra"
)

// Operations only some backends offer. Commands reach them through the
// backend driver, so they are not counted in the metrics file.

type vmInfoer interface {
	Info(ctx context.Context, id types.VMID) (map[string]string, error)
}

type keyboard interface {
	KeyboardPutScancode(ctx context.Context, id types.VMID, codes []byte) error
	KeyboardPutString(ctx context.Context, id types.VMID, text ...string) error
}

type vmDeleter interface {
	DeleteVM(ctx context.Context, id types.VMID) error
}

type toolsManager interface {
	ToolsState(ctx context.Context, id types.VMID) (vmrun.ToolsState, error)
	InstallTools(ctx context.Context, id types.VMID) error
}

type nicManager interface {
	NICs(ctx context.Context, id types.VMID) ([]vmrest.NIC, error)
	AddNIC(ctx context.Context, id types.VMID, typ vmrest.NICType, vmnet string) (vmrest.NIC, error)
	UpdateNIC(ctx context.Context, id types.VMID, index int, typ vmrest.NICType, vmnet string) error
	DeleteNIC(ctx context.Context, id types.VMID, index int) error
}

// folderMounter manages shared folders that carry their own access flags
type folderMounter interface {
	SharedFolders(ctx context.Context, id types.VMID) ([]vmrest.SharedFolder, error)
	MountSharedFolder(ctx context.Context, id types.VMID, folder vmrest.SharedFolder) ([]vmrest.SharedFolder, error)
	DeleteSharedFolder(ctx context.Context, id types.VMID, folderID string) error
}

// folderSharer manages shared folders of a vmx and the switch that turns
// sharing on
type folderSharer interface {
	EnableSharedFolders(ctx context.Context, id types.VMID, runtimeOnly bool) error
	DisableSharedFolders(ctx context.Context, id types.VMID, runtimeOnly bool) error
	AddSharedFolder(ctx context.Context, id types.VMID, name string, host types.HostPath) error
	RemoveSharedFolder(ctx context.Context, id types.VMID, name string) error
	SetSharedFolderState(ctx context.Context, id types.VMID, name string, host types.HostPath, writable bool) error
}

type guestProcesses interface {
	ListProcessesInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials) ([]vmrun.Process, error)
	KillProcessInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, pid uint64) error
}

type guestFiles interface {
	ListDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) ([]string, error)
	CreateDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) error
	DeleteDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) error
	DeleteFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) error
	RenameFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, from, to types.GuestPath) error
	CreateTempFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials) (types.GuestPath, error)
	FileExistsInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (bool, error)
	DirectoryExistsInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (bool, error)
}

type guestConsole interface {
	CaptureScreen(ctx context.Context, id types.VMID, creds types.GuestCredentials, host types.HostPath) error
	TypeKeystrokesInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, text string) error
}

type guestVariables interface {
	ReadVariable(ctx context.Context, id types.VMID, creds types.GuestCredentials, scope vmrun.VarScope, name string) (string, error)
	WriteVariable(ctx context.Context, id types.VMID, creds types.GuestCredentials, scope vmrun.VarScope, name, value string) error
}

// backend returns the driver beneath any instrumentation
func (s *session) backend() driver.Driver {
	d := s.Driver
	for {
		u, ok := d.(interface{ Unwrap() driver.Driver })
		if !ok {
			return d
		}
		d = u.Unwrap()
	}
}

// extra returns the backend driver as T or an UnsupportedOperation error
// naming op
func extra[T any](s *session, op string) (T, error) {
	x, ok := s.backend().(T)
	if !ok {
		var zero T
		return zero, vmerr.Unsupported(string(s.Backend()), op)
	}
	return x, nil
}

// withVM opens a session, resolves ref and runs work. The session is
// closed afterwards.
func withVM(cmd *cobra.Command, ref string, work func(s *session, id types.VMID) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.resolveVM(ref)
	if err != nil {
		return err
	}
	return work(s, id)
}
