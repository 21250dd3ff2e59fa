package vmrun

import (
	"context"
	"strconv"
	"strings"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// Process is a process running in the guest
type Process struct {
	PID     uint64 `json:"pid"`
	Owner   string `json:"owner"`
	Command string `json:"command"`
}

// VarScope selects where ReadVariable and WriteVariable look
type VarScope string

// Variable scopes
const (
	// GuestVar is a non-persistent variable VMware Tools shares with the guest
	GuestVar VarScope = "guestVar"
	// RuntimeConfig is an entry of the running VM's configuration
	RuntimeConfig VarScope = "runtimeConfig"
	// GuestEnv is an environment variable of the guest and needs a login
	GuestEnv VarScope = "guestEnv"
)

// CopyFile copies one file between host and guest through VMware Tools
func (d *Driver) CopyFile(ctx context.Context, id types.VMID, creds types.GuestCredentials, direction types.CopyDirection, host types.HostPath, guest types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "copy "+direction.String())

	hostPath, err := d.hostPath(ctx, host)
	if err != nil {
		return err
	}
	if direction == types.FromGuest {
		_, err = d.run(ctx, &creds, "CopyFileFromGuestToHost", string(id), string(guest), hostPath)
	} else {
		_, err = d.run(ctx, &creds, "CopyFileFromHostToGuest", string(id), hostPath, string(guest))
	}
	return err
}

// RunInGuest runs a program in the guest and waits for it. vmrun does not
// return the program's output, so the result is never Captured.
func (d *Driver) RunInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, program types.GuestPath, args []string) (res *types.GuestResult, err error) {
	defer vmerr.Annotate(&err, backend, "run")

	cmd := append([]string{"runProgramInGuest", string(id), string(program)}, args...)
	out, err := d.exec(ctx, &creds, cmd...)
	if err != nil {
		return nil, err
	}
	if code, ok := ParseExitCode(out.stdout + "\n" + out.stderr); ok {
		return &types.GuestResult{ExitCode: code}, nil
	}
	if failed(out.stdout, out.stderr, out.code) {
		return nil, ParseError(out.stdout, out.stderr, out.code)
	}
	return &types.GuestResult{}, nil
}

// GuestIP waits for VMware Tools to report the guest address
func (d *Driver) GuestIP(ctx context.Context, id types.VMID) (ip string, err error) {
	defer vmerr.Annotate(&err, backend, "guest ip")

	out, err := d.run(ctx, nil, "getGuestIPAddress", string(id), "-wait")
	if err != nil {
		return "", err
	}
	return ParseIP(out)
}

// FileExistsInGuest reports whether a regular file exists in the guest
func (d *Driver) FileExistsInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (ok bool, err error) {
	defer vmerr.Annotate(&err, backend, "file exists")

	return d.exists(ctx, creds, "fileExistsInGuest", id, p, "file")
}

// DirectoryExistsInGuest reports whether a directory exists in the guest
func (d *Driver) DirectoryExistsInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (ok bool, err error) {
	defer vmerr.Annotate(&err, backend, "directory exists")

	return d.exists(ctx, creds, "directoryExistsInGuest", id, p, "directory")
}

// exists asks vmrun about a guest path. The negative answer comes with a
// non-zero exit status, so only "Error: " lines count as failures.
func (d *Driver) exists(ctx context.Context, creds types.GuestCredentials, cmd string, id types.VMID, p types.GuestPath, what string) (bool, error) {
	out, err := d.exec(ctx, &creds, cmd, string(id), string(p))
	if err != nil {
		return false, err
	}
	if errorLine.MatchString(out.stdout) || errorLine.MatchString(out.stderr) {
		return false, ParseError(out.stdout, out.stderr, out.code)
	}
	return ParseExists(out.stdout, what)
}

// ListProcessesInGuest lists the processes running in the guest
func (d *Driver) ListProcessesInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials) (procs []Process, err error) {
	defer vmerr.Annotate(&err, backend, "list processes")

	out, err := d.run(ctx, &creds, "listProcessesInGuest", string(id))
	if err != nil {
		return nil, err
	}
	return ParseProcesses(out)
}

// KillProcessInGuest ends a guest process
func (d *Driver) KillProcessInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, pid uint64) (err error) {
	defer vmerr.Annotate(&err, backend, "kill process")

	_, err = d.run(ctx, &creds, "killProcessInGuest", string(id), strconv.FormatUint(pid, 10))
	return err
}

// ListDirectoryInGuest lists the entries of a guest directory
func (d *Driver) ListDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) (names []string, err error) {
	defer vmerr.Annotate(&err, backend, "list directory")

	out, err := d.run(ctx, &creds, "listDirectoryInGuest", string(id), string(dir))
	if err != nil {
		return nil, err
	}
	return ParseDirectory(out)
}

// CreateDirectoryInGuest creates a guest directory
func (d *Driver) CreateDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "create directory")

	_, err = d.run(ctx, &creds, "createDirectoryInGuest", string(id), string(dir))
	return err
}

// DeleteDirectoryInGuest removes a guest directory and its contents
func (d *Driver) DeleteDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "delete directory")

	_, err = d.run(ctx, &creds, "deleteDirectoryInGuest", string(id), string(dir))
	return err
}

// DeleteFileInGuest removes a guest file
func (d *Driver) DeleteFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "delete file")

	_, err = d.run(ctx, &creds, "deleteFileInGuest", string(id), string(p))
	return err
}

// RenameFileInGuest moves a guest file
func (d *Driver) RenameFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, from, to types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "rename file")

	_, err = d.run(ctx, &creds, "renameFileInGuest", string(id), string(from), string(to))
	return err
}

// CreateTempFileInGuest creates an empty temporary file in the guest and
// returns its path
func (d *Driver) CreateTempFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials) (p types.GuestPath, err error) {
	defer vmerr.Annotate(&err, backend, "create temp file")

	out, err := d.run(ctx, &creds, "CreateTempfileInGuest", string(id))
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(out)
	if name == "" || strings.Contains(name, "\n") {
		return "", vmerr.Newf(vmerr.ParseFailure, "unexpected temp file name %q", name)
	}
	return types.GuestPath(name), nil
}

// CaptureScreen saves a PNG of the guest console to host
func (d *Driver) CaptureScreen(ctx context.Context, id types.VMID, creds types.GuestCredentials, host types.HostPath) (err error) {
	defer vmerr.Annotate(&err, backend, "capture screen")

	hostPath, err := d.hostPath(ctx, host)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, &creds, "captureScreen", string(id), hostPath)
	return err
}

// TypeKeystrokesInGuest types text on the guest keyboard
func (d *Driver) TypeKeystrokesInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, text string) (err error) {
	defer vmerr.Annotate(&err, backend, "type keystrokes")

	_, err = d.run(ctx, &creds, "typeKeystrokesInGuest", string(id), text)
	return err
}

// ReadVariable reads a variable. Only GuestEnv uses creds.
func (d *Driver) ReadVariable(ctx context.Context, id types.VMID, creds types.GuestCredentials, scope VarScope, name string) (value string, err error) {
	defer vmerr.Annotate(&err, backend, "read variable")

	out, err := d.run(ctx, scopeCredentials(scope, creds), "readVariable", string(id), string(scope), name)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\r\n"), nil
}

// WriteVariable sets a variable. Only GuestEnv uses creds.
func (d *Driver) WriteVariable(ctx context.Context, id types.VMID, creds types.GuestCredentials, scope VarScope, name, value string) (err error) {
	defer vmerr.Annotate(&err, backend, "write variable")

	_, err = d.run(ctx, scopeCredentials(scope, creds), "writeVariable", string(id), string(scope), name, value)
	return err
}

func scopeCredentials(scope VarScope, creds types.GuestCredentials) *types.GuestCredentials {
	if scope == GuestEnv {
		return &creds
	}
	return nil
}
