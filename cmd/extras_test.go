package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nanovms/hvctl/constants"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/vmrest"
	"github.com/nanovms/hvctl/vmrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVBoxExtras adds the VBoxManage only operations
type fakeVBoxExtras struct {
	*fakeDriver
	scancodes []byte
	typed     []string
}

func (f *fakeVBoxExtras) Info(ctx context.Context, id types.VMID) (map[string]string, error) {
	return map[string]string{"name": "ubuntu", "VMState": "running", "memory": "4096"}, nil
}

func (f *fakeVBoxExtras) KeyboardPutScancode(ctx context.Context, id types.VMID, codes []byte) error {
	f.scancodes = codes
	return nil
}

func (f *fakeVBoxExtras) KeyboardPutString(ctx context.Context, id types.VMID, text ...string) error {
	f.typed = text
	return nil
}

// fakeVMRestExtras adds the adapter and shared folder operations of vmrest
type fakeVMRestExtras struct {
	*fakeDriver
	calls   []string
	folders []vmrest.SharedFolder
}

func (f *fakeVMRestExtras) Backend() types.Backend {
	return types.BackendVmRest
}

func (f *fakeVMRestExtras) NICs(ctx context.Context, id types.VMID) ([]vmrest.NIC, error) {
	return []vmrest.NIC{{Index: 1, Type: "nat", VMnet: "vmnet8", MAC: "00:0c:29:3a:5f:11"}}, nil
}

func (f *fakeVMRestExtras) AddNIC(ctx context.Context, id types.VMID, typ vmrest.NICType, vmnet string) (vmrest.NIC, error) {
	f.calls = append(f.calls, fmt.Sprintf("add %s %s", typ, vmnet))
	return vmrest.NIC{Index: 2, Type: string(typ), VMnet: vmnet}, nil
}

func (f *fakeVMRestExtras) UpdateNIC(ctx context.Context, id types.VMID, index int, typ vmrest.NICType, vmnet string) error {
	f.calls = append(f.calls, fmt.Sprintf("update %d %s", index, typ))
	return nil
}

func (f *fakeVMRestExtras) DeleteNIC(ctx context.Context, id types.VMID, index int) error {
	f.calls = append(f.calls, fmt.Sprintf("delete %d", index))
	return nil
}

func (f *fakeVMRestExtras) SharedFolders(ctx context.Context, id types.VMID) ([]vmrest.SharedFolder, error) {
	return f.folders, nil
}

func (f *fakeVMRestExtras) MountSharedFolder(ctx context.Context, id types.VMID, folder vmrest.SharedFolder) ([]vmrest.SharedFolder, error) {
	f.folders = append(f.folders, folder)
	return f.folders, nil
}

func (f *fakeVMRestExtras) DeleteSharedFolder(ctx context.Context, id types.VMID, folderID string) error {
	f.calls = append(f.calls, "unmount "+folderID)
	return nil
}

func (f *fakeVMRestExtras) DeleteVM(ctx context.Context, id types.VMID) error {
	f.calls = append(f.calls, "delete vm "+string(id))
	return nil
}

// fakeVMRunExtras adds the vmrun shared folder, guest and variable
// operations
type fakeVMRunExtras struct {
	*fakeDriver
	calls []string
	creds types.GuestCredentials
}

func (f *fakeVMRunExtras) Backend() types.Backend {
	return types.BackendVmrun
}

func (f *fakeVMRunExtras) record(creds types.GuestCredentials, format string, a ...interface{}) {
	f.creds = creds
	f.calls = append(f.calls, fmt.Sprintf(format, a...))
}

func (f *fakeVMRunExtras) EnableSharedFolders(ctx context.Context, id types.VMID, runtimeOnly bool) error {
	f.record(types.GuestCredentials{}, "enable %t", runtimeOnly)
	return nil
}

func (f *fakeVMRunExtras) DisableSharedFolders(ctx context.Context, id types.VMID, runtimeOnly bool) error {
	f.record(types.GuestCredentials{}, "disable %t", runtimeOnly)
	return nil
}

func (f *fakeVMRunExtras) AddSharedFolder(ctx context.Context, id types.VMID, name string, host types.HostPath) error {
	f.record(types.GuestCredentials{}, "add %s %s", name, host)
	return nil
}

func (f *fakeVMRunExtras) RemoveSharedFolder(ctx context.Context, id types.VMID, name string) error {
	f.record(types.GuestCredentials{}, "remove %s", name)
	return nil
}

func (f *fakeVMRunExtras) SetSharedFolderState(ctx context.Context, id types.VMID, name string, host types.HostPath, writable bool) error {
	f.record(types.GuestCredentials{}, "state %s writable=%t", name, writable)
	return nil
}

func (f *fakeVMRunExtras) ListProcessesInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials) ([]vmrun.Process, error) {
	f.record(creds, "ps")
	return []vmrun.Process{{PID: 812, Owner: "dev", Command: "/usr/bin/python3 -m http.server"}}, nil
}

func (f *fakeVMRunExtras) KillProcessInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, pid uint64) error {
	f.record(creds, "kill %d", pid)
	return nil
}

func (f *fakeVMRunExtras) ListDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) ([]string, error) {
	f.record(creds, "ls %s", dir)
	return []string{".bashrc", "src"}, nil
}

func (f *fakeVMRunExtras) CreateDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) error {
	f.record(creds, "mkdir %s", dir)
	return nil
}

func (f *fakeVMRunExtras) DeleteDirectoryInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, dir types.GuestPath) error {
	f.record(creds, "rmdir %s", dir)
	return nil
}

func (f *fakeVMRunExtras) DeleteFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) error {
	f.record(creds, "rm %s", p)
	return nil
}

func (f *fakeVMRunExtras) RenameFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, from, to types.GuestPath) error {
	f.record(creds, "mv %s %s", from, to)
	return nil
}

func (f *fakeVMRunExtras) CreateTempFileInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials) (types.GuestPath, error) {
	f.record(creds, "mktemp")
	return "/tmp/vmware-dev/vmware12.tmp", nil
}

func (f *fakeVMRunExtras) FileExistsInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (bool, error) {
	f.record(creds, "file? %s", p)
	return true, nil
}

func (f *fakeVMRunExtras) DirectoryExistsInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, p types.GuestPath) (bool, error) {
	f.record(creds, "dir? %s", p)
	return false, nil
}

func (f *fakeVMRunExtras) ReadVariable(ctx context.Context, id types.VMID, creds types.GuestCredentials, scope vmrun.VarScope, name string) (string, error) {
	f.record(creds, "read %s %s", scope, name)
	return "/home/dev", nil
}

func (f *fakeVMRunExtras) WriteVariable(ctx context.Context, id types.VMID, creds types.GuestCredentials, scope vmrun.VarScope, name, value string) error {
	f.record(creds, "write %s %s=%s", scope, name, value)
	return nil
}

func (f *fakeVMRunExtras) DeleteVM(ctx context.Context, id types.VMID) error {
	f.record(types.GuestCredentials{}, "delete vm %s", id)
	return nil
}

func TestVMInfo(t *testing.T) {
	useDriver(t, &fakeVBoxExtras{fakeDriver: newFakeDriver()})

	out, _, err := executeCommand("", "vm", "info", "ubuntu", "-b", "vbox")
	require.NoError(t, err)
	assert.Contains(t, out, "memory")
	assert.Contains(t, out, "4096")
	assert.Less(t, strings.Index(out, "VMState"), strings.Index(out, "memory"), "keys are sorted")
}

func TestVMKeyboard(t *testing.T) {
	fake := &fakeVBoxExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)

	_, _, err := executeCommand("", "vm", "keyboard", "ubuntu", "--scancode", "1d 38,0x53", "-b", "vbox")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1d, 0x38, 0x53}, fake.scancodes)

	_, _, err = executeCommand("", "vm", "keyboard", "ubuntu", "--string", "root", "-b", "vbox")
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, fake.typed)

	_, _, err = executeCommand("", "vm", "keyboard", "ubuntu", "--scancode", "1d3", "-b", "vbox")
	assert.EqualError(t, err, `invalid scancode "1d3"`)

	_, _, err = executeCommand("", "vm", "keyboard", "ubuntu", "-b", "vbox")
	assert.Error(t, err)
}

func TestExtraOperationUnsupported(t *testing.T) {
	useFakeDriver(t)

	_, _, err := executeCommand("", "nic", "list", "ubuntu", "-b", "vbox")
	assert.ErrorIs(t, err, vmerr.ErrUnsupportedOperation)
	assert.Equal(t, 8, ExitCode(err))

	_, _, err = executeCommand("", "folder", "add", "ubuntu", "src", ".", "-b", "vbox")
	assert.Equal(t, vmerr.UnsupportedOperation, vmerr.KindOf(err))
}

func TestGuestExtraUnsupportedDoesNotAskPassword(t *testing.T) {
	useFakeDriver(t)
	t.Setenv(constants.GuestPasswordEnv, "")
	os.Unsetenv(constants.GuestPasswordEnv)

	out, _, err := executeCommand("", "guest", "ps", "ubuntu", "-u", "dev", "-b", "vbox")
	assert.Equal(t, vmerr.UnsupportedOperation, vmerr.KindOf(err))
	assert.NotContains(t, out, "Password for")
}

func TestNICCommands(t *testing.T) {
	fake := &fakeVMRestExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)

	out, _, err := executeCommand("", "nic", "list", "ubuntu", "-b", "vmrest", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"mac": "00:0c:29:3a:5f:11"`)

	_, _, err = executeCommand("", "nic", "add", "ubuntu", "--type", "custom", "--vmnet", "vmnet2", "-b", "vmrest")
	require.NoError(t, err)

	_, _, err = executeCommand("", "nic", "add", "ubuntu", "--type", "custom", "-b", "vmrest")
	assert.EqualError(t, err, "a custom adapter needs --vmnet")

	_, _, err = executeCommand("", "nic", "update", "ubuntu", "1", "-t", "bridged", "-b", "vmrest")
	require.NoError(t, err)

	_, _, err = executeCommand("", "nic", "delete", "ubuntu", "0", "-y", "-b", "vmrest")
	assert.EqualError(t, err, `invalid adapter index "0"`)

	_, _, err = executeCommand("y\n", "nic", "delete", "ubuntu", "2", "-b", "vmrest")
	require.NoError(t, err)

	assert.Equal(t, []string{"add custom vmnet2", "update 1 bridged", "delete 2"}, fake.calls)
}

func TestFolderCommandsVMRest(t *testing.T) {
	fake := &fakeVMRestExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)
	host := t.TempDir()

	out, _, err := executeCommand("", "folder", "add", "ubuntu", "src", host, "--read-only", "-b", "vmrest")
	require.NoError(t, err)
	assert.Contains(t, out, "read-only")
	assert.Equal(t, []vmrest.SharedFolder{{ID: "src", HostPath: host, ReadOnly: true}}, fake.folders)

	_, _, err = executeCommand("", "folder", "remove", "ubuntu", "src", "-b", "vmrest")
	require.NoError(t, err)
	assert.Equal(t, []string{"unmount src"}, fake.calls)

	_, _, err = executeCommand("", "folder", "enable", "ubuntu", "-b", "vmrest")
	assert.Equal(t, vmerr.UnsupportedOperation, vmerr.KindOf(err))
}

func TestFolderCommandsVMRun(t *testing.T) {
	fake := &fakeVMRunExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)
	host := t.TempDir()

	_, _, err := executeCommand("", "folder", "enable", "ubuntu", "--runtime", "-b", "vmrun")
	require.NoError(t, err)
	_, _, err = executeCommand("", "folder", "add", "ubuntu", "src", host, "--read-only", "-b", "vmrun")
	require.NoError(t, err)
	_, _, err = executeCommand("", "folder", "remove", "ubuntu", "src", "-b", "vmrun")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"enable true",
		"add src " + host,
		"state src writable=false",
		"remove src",
	}, fake.calls)

	_, _, err = executeCommand("", "folder", "list", "ubuntu", "-b", "vmrun")
	assert.Equal(t, vmerr.UnsupportedOperation, vmerr.KindOf(err))
}

func TestGuestFileCommands(t *testing.T) {
	fake := &fakeVMRunExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)
	t.Setenv(constants.GuestPasswordEnv, "pw")

	run := func(args ...string) string {
		t.Helper()
		out, _, err := executeCommand("", append(args, "-u", "dev", "-b", "vmrun")...)
		require.NoError(t, err)
		return out
	}

	assert.Contains(t, run("guest", "ps", "ubuntu"), "http.server")
	run("guest", "kill", "ubuntu", "812")
	assert.Equal(t, ".bashrc\nsrc\n", run("guest", "ls", "ubuntu", "/home/dev"))
	run("guest", "mkdir", "ubuntu", "/home/dev/out")
	assert.Equal(t, "/tmp/vmware-dev/vmware12.tmp\n", run("guest", "mktemp", "ubuntu"))
	run("guest", "mv", "ubuntu", "/tmp/vmware-dev/vmware12.tmp", "/home/dev/out/log")
	run("guest", "rm", "ubuntu", "/home/dev/out/log")
	run("guest", "rmdir", "ubuntu", "/home/dev/out", "--yes")
	assert.Equal(t, "true\n", run("guest", "exists", "ubuntu", "/etc/hosts"))
	assert.Equal(t, "false\n", run("guest", "exists", "ubuntu", "/nope", "--dir"))

	assert.Equal(t, []string{
		"ps",
		"kill 812",
		"ls /home/dev",
		"mkdir /home/dev/out",
		"mktemp",
		"mv /tmp/vmware-dev/vmware12.tmp /home/dev/out/log",
		"rm /home/dev/out/log",
		"rmdir /home/dev/out",
		"file? /etc/hosts",
		"dir? /nope",
	}, fake.calls)
	assert.Equal(t, types.GuestCredentials{Username: "dev", Password: "pw"}, fake.creds)

	_, _, err := executeCommand("", "guest", "kill", "ubuntu", "init", "-u", "dev", "-b", "vmrun")
	assert.EqualError(t, err, `invalid pid "init"`)
}

func TestGuestRmdirDeclined(t *testing.T) {
	fake := &fakeVMRunExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)
	t.Setenv(constants.GuestPasswordEnv, "pw")

	_, _, err := executeCommand("n\n", "guest", "rmdir", "ubuntu", "/home/dev", "-u", "dev", "-b", "vmrun")
	assert.Equal(t, errNotConfirmed, err)
	assert.Empty(t, fake.calls)
}

func TestVMVariables(t *testing.T) {
	fake := &fakeVMRunExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)
	t.Setenv(constants.GuestPasswordEnv, "pw")

	_, _, err := executeCommand("", "vm", "var", "set", "ubuntu", "build", "42", "-b", "vmrun")
	require.NoError(t, err)
	assert.Equal(t, types.GuestCredentials{}, fake.creds, "guestVar needs no login")

	out, _, err := executeCommand("", "vm", "var", "get", "ubuntu", "HOME", "--scope", "guestEnv", "-u", "dev", "-b", "vmrun")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev\n", out)
	assert.Equal(t, "dev", fake.creds.Username)

	_, _, err = executeCommand("", "vm", "var", "get", "ubuntu", "HOME", "--scope", "guestEnv", "-b", "vmrun")
	assert.EqualError(t, err, "guestEnv needs --user")

	_, _, err = executeCommand("", "vm", "var", "get", "ubuntu", "x", "--scope", "registry", "-b", "vmrun")
	assert.EqualError(t, err, `unknown variable scope "registry"`)

	assert.Equal(t, []string{"write guestVar build=42", "read guestEnv HOME"}, fake.calls)
}

func TestVMDeleteThroughMetrics(t *testing.T) {
	fake := &fakeVMRunExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)
	path := filepath.Join(t.TempDir(), "hvctl.prom")

	_, _, err := executeCommand("y\n", "vm", "delete", "ubuntu", "-b", "vmrun", "--metrics-file", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"delete vm " + ubuntuID}, fake.calls)
}

func TestVMDeleteDeclined(t *testing.T) {
	fake := &fakeVMRestExtras{fakeDriver: newFakeDriver()}
	useDriver(t, fake)

	_, _, err := executeCommand("n\n", "vm", "delete", "ubuntu", "-b", "vmrest")
	assert.Equal(t, errNotConfirmed, err)
	assert.Empty(t, fake.calls)
}
