package vmrun_test

import (
	"context"
	"os"
	"testing"

	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/process/mocks"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/vmrun"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	vmrunPath = "/usr/bin/vmrun"
	ubuntu    = types.VMID("/vms/ubuntu/ubuntu.vmx")
	win       = types.VMID("/vms/win/win.vmx")
)

func NewDriver(t *testing.T) (*vmrun.Driver, *mocks.MockRunner, afero.Fs) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)

	fs := afero.NewMemMapFs()
	inventory, err := os.ReadFile("testdata/inventory.vmls")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/home/dev/.vmware/inventory.vmls", inventory, 0644))
	require.NoError(t, afero.WriteFile(fs, string(ubuntu), []byte(".encoding = \"UTF-8\"\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, string(win), []byte(".encoding = \"UTF-8\"\n"), 0644))

	d := vmrun.New(runner, vmrun.Options{
		Path:      vmrunPath,
		HostType:  vmrun.HostWorkstation,
		Inventory: vmrun.NewInventory(fs, "/home/dev/.vmware/inventory.vmls", vmrun.HostWorkstation),
	})
	return d, runner, fs
}

func command(args ...string) process.Command {
	return process.Command{Path: vmrunPath, Args: append([]string{"-T", "ws"}, args...)}
}

func guestCommand(args ...string) process.Command {
	return command(append([]string{"-gu", "dev", "-gp", "pw"}, args...)...)
}

var creds = types.GuestCredentials{Username: "dev", Password: "pw"}

func stdout(t *testing.T, fixture string) *process.Outcome {
	t.Helper()
	b, err := os.ReadFile("testdata/" + fixture)
	require.NoError(t, err)
	return &process.Outcome{Stdout: b}
}

func failure(t *testing.T, fixture string) *process.Outcome {
	t.Helper()
	out := stdout(t, fixture)
	out.ExitCode = 255
	return out
}

func TestListVMs(t *testing.T) {
	d, runner, _ := NewDriver(t)

	runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_running.txt"), nil)

	vms, err := d.ListVMs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.VM{
		{ID: ubuntu, Name: "Ubuntu 22.04"},
		{ID: win, Name: `Windows "lab"`},
		{ID: "/vms/nameless/nameless.vmx", Name: "nameless"},
		{ID: "/vms/scratch/scratch.vmx", Name: "scratch"},
	}, vms)
}

func TestListVMsWithoutInventory(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	d := vmrun.New(runner, vmrun.Options{
		Path:      vmrunPath,
		HostType:  vmrun.HostWorkstation,
		Inventory: vmrun.NewInventory(afero.NewMemMapFs(), "/nowhere/inventory.vmls", vmrun.HostWorkstation),
	})

	runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_none.txt"), nil)

	vms, err := d.ListVMs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vms)
}

func TestState(t *testing.T) {
	ctx := context.Background()

	t.Run("running", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_running.txt"), nil)

		state, err := d.State(ctx, ubuntu)
		require.NoError(t, err)
		assert.Equal(t, types.StateRunning, state)
	})

	t.Run("stopped", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_running.txt"), nil)

		state, err := d.State(ctx, win)
		require.NoError(t, err)
		assert.Equal(t, types.StateStopped, state)
	})

	t.Run("suspended", func(t *testing.T) {
		d, runner, fs := NewDriver(t)
		require.NoError(t, afero.WriteFile(fs, "/vms/win/win-3f2a.vmss", []byte{0}, 0644))
		runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_none.txt"), nil)

		state, err := d.State(ctx, win)
		require.NoError(t, err)
		assert.Equal(t, types.StateSuspended, state)
	})

	t.Run("unknown", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_none.txt"), nil)

		_, err := d.State(ctx, "/vms/ghost/ghost.vmx")
		var e *vmerr.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, vmerr.NotFound, e.Kind)
		assert.Equal(t, "vmrun", e.Backend)
		assert.Equal(t, "state", e.Op)
	})
}

func TestPowerCommands(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
		call func(d *vmrun.Driver) error
	}{
		{"start headless", []string{"start", string(ubuntu), "nogui"}, func(d *vmrun.Driver) error { return d.Start(ctx, ubuntu, types.Headless) }},
		{"start gui", []string{"start", string(ubuntu), "gui"}, func(d *vmrun.Driver) error { return d.Start(ctx, ubuntu, types.GUI) }},
		{"soft stop", []string{"stop", string(ubuntu), "soft"}, func(d *vmrun.Driver) error { return d.Stop(ctx, ubuntu, types.Soft) }},
		{"hard stop", []string{"stop", string(ubuntu), "hard"}, func(d *vmrun.Driver) error { return d.Stop(ctx, ubuntu, types.Hard) }},
		{"pause", []string{"pause", string(ubuntu)}, func(d *vmrun.Driver) error { return d.Pause(ctx, ubuntu) }},
		{"suspend", []string{"suspend", string(ubuntu), "hard"}, func(d *vmrun.Driver) error { return d.Suspend(ctx, ubuntu) }},
		{"reset", []string{"reset", string(ubuntu), "hard"}, func(d *vmrun.Driver) error { return d.Reset(ctx, ubuntu) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, runner, _ := NewDriver(t)
			runner.EXPECT().Run(gomock.Any(), command(tt.args...)).Return(&process.Outcome{}, nil)
			assert.NoError(t, tt.call(d))
		})
	}
}

func TestStopStoppedVM(t *testing.T) {
	d, runner, _ := NewDriver(t)
	runner.EXPECT().Run(gomock.Any(), command("stop", string(ubuntu), "hard")).Return(failure(t, "error_not_powered.txt"), nil)

	err := d.Stop(context.Background(), ubuntu, types.Hard)
	assert.Equal(t, vmerr.BackendError, vmerr.KindOf(err))
	assert.Contains(t, err.Error(), "not powered on")
}

func TestErrorWithZeroExitStatus(t *testing.T) {
	d, runner, _ := NewDriver(t)
	runner.EXPECT().Run(gomock.Any(), command("start", "/vms/ghost/ghost.vmx", "nogui")).Return(stdout(t, "error_cannot_open.txt"), nil)

	err := d.Start(context.Background(), "/vms/ghost/ghost.vmx", types.Headless)
	assert.Equal(t, vmerr.NotFound, vmerr.KindOf(err))
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	t.Run("running vm is unpaused", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		gomock.InOrder(
			runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_running.txt"), nil),
			runner.EXPECT().Run(gomock.Any(), command("unpause", string(ubuntu))).Return(&process.Outcome{}, nil),
		)
		assert.NoError(t, d.Resume(ctx, ubuntu))
	})

	t.Run("suspended vm is started", func(t *testing.T) {
		d, runner, fs := NewDriver(t)
		require.NoError(t, afero.WriteFile(fs, "/vms/win/win.vmss", []byte{0}, 0644))
		gomock.InOrder(
			runner.EXPECT().Run(gomock.Any(), command("list")).Return(stdout(t, "list_none.txt"), nil),
			runner.EXPECT().Run(gomock.Any(), command("start", string(win), "nogui")).Return(&process.Outcome{}, nil),
		)
		assert.NoError(t, d.Resume(ctx, win))
	})
}

func TestVMPassword(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	d := vmrun.New(runner, vmrun.Options{
		Path:       vmrunPath,
		HostType:   vmrun.HostPlayer,
		VMPassword: "secret",
		Inventory:  vmrun.NewInventory(afero.NewMemMapFs(), "/prefs", vmrun.HostPlayer),
	})

	runner.EXPECT().Run(gomock.Any(), process.Command{Path: vmrunPath, Args: []string{"-T", "player", "-vp", "secret", "pause", string(ubuntu)}}).Return(&process.Outcome{}, nil)

	assert.NoError(t, d.Pause(context.Background(), ubuntu))
}

func TestSnapshotRoundTrip(t *testing.T) {
	d, runner, _ := NewDriver(t)
	ctx := context.Background()
	list := command("listSnapshots", string(ubuntu))

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), command("snapshot", string(ubuntu), "nightly")).Return(&process.Outcome{}, nil),
		runner.EXPECT().Run(gomock.Any(), list).Return(&process.Outcome{Stdout: []byte("Total snapshots: 2\nclean install\nnightly\n")}, nil),
		runner.EXPECT().Run(gomock.Any(), list).Return(&process.Outcome{Stdout: []byte("Total snapshots: 2\nclean install\nnightly\n")}, nil),
		runner.EXPECT().Run(gomock.Any(), command("deleteSnapshot", string(ubuntu), "nightly")).Return(&process.Outcome{}, nil),
		runner.EXPECT().Run(gomock.Any(), list).Return(&process.Outcome{Stdout: []byte("Total snapshots: 1\nclean install\n")}, nil),
	)

	id, err := d.TakeSnapshot(ctx, ubuntu, "nightly", "")
	require.NoError(t, err)
	assert.Equal(t, types.SnapshotID("nightly"), id)

	snaps, err := d.ListSnapshots(ctx, ubuntu)
	require.NoError(t, err)
	assert.Contains(t, snaps, types.Snapshot{ID: "nightly", Name: "nightly"})

	require.NoError(t, d.DeleteSnapshot(ctx, ubuntu, id))

	snaps, err = d.ListSnapshots(ctx, ubuntu)
	require.NoError(t, err)
	assert.NotContains(t, snaps, types.Snapshot{ID: "nightly", Name: "nightly"})
}

func TestRevertMissingSnapshot(t *testing.T) {
	d, runner, _ := NewDriver(t)

	runner.EXPECT().Run(gomock.Any(), command("listSnapshots", string(ubuntu))).Return(stdout(t, "snapshots.txt"), nil)

	err := d.RevertSnapshot(context.Background(), ubuntu, "nope")
	assert.Equal(t, vmerr.NotFound, vmerr.KindOf(err))
}

func TestRevertSnapshot(t *testing.T) {
	d, runner, _ := NewDriver(t)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), command("listSnapshots", string(ubuntu))).Return(stdout(t, "snapshots.txt"), nil),
		runner.EXPECT().Run(gomock.Any(), command("revertToSnapshot", string(ubuntu), "clean install")).Return(&process.Outcome{}, nil),
	)

	assert.NoError(t, d.RevertSnapshot(context.Background(), ubuntu, "clean install"))
}

func TestCopyFile(t *testing.T) {
	ctx := context.Background()

	t.Run("to guest", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), guestCommand("CopyFileFromHostToGuest", string(ubuntu), "/tmp/a.txt", "/home/dev/a.txt")).Return(&process.Outcome{}, nil)

		assert.NoError(t, d.CopyFile(ctx, ubuntu, creds, types.ToGuest, "/tmp/a.txt", "/home/dev/a.txt"))
	})

	t.Run("from guest", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), guestCommand("CopyFileFromGuestToHost", string(ubuntu), "/var/log/syslog", "/tmp/syslog")).Return(&process.Outcome{}, nil)

		assert.NoError(t, d.CopyFile(ctx, ubuntu, creds, types.FromGuest, "/tmp/syslog", "/var/log/syslog"))
	})

	t.Run("bad credentials", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(failure(t, "error_auth.txt"), nil)

		err := d.CopyFile(ctx, ubuntu, creds, types.ToGuest, "/tmp/a.txt", "/a.txt")
		assert.Equal(t, vmerr.AuthenticationFailure, vmerr.KindOf(err))
	})
}

func TestRunInGuest(t *testing.T) {
	ctx := context.Background()
	cmd := guestCommand("runProgramInGuest", string(ubuntu), "/bin/false", "--flag")

	t.Run("success", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), cmd).Return(&process.Outcome{}, nil)

		res, err := d.RunInGuest(ctx, ubuntu, creds, "/bin/false", []string{"--flag"})
		require.NoError(t, err)
		assert.Equal(t, &types.GuestResult{}, res)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), cmd).Return(failure(t, "run_nonzero.txt"), nil)

		res, err := d.RunInGuest(ctx, ubuntu, creds, "/bin/false", []string{"--flag"})
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.False(t, res.Captured)
	})

	t.Run("vm not running", func(t *testing.T) {
		d, runner, _ := NewDriver(t)
		runner.EXPECT().Run(gomock.Any(), cmd).Return(failure(t, "error_not_powered.txt"), nil)

		_, err := d.RunInGuest(ctx, ubuntu, creds, "/bin/false", []string{"--flag"})
		assert.Equal(t, vmerr.BackendError, vmerr.KindOf(err))
	})
}

func TestGuestIP(t *testing.T) {
	d, runner, _ := NewDriver(t)
	runner.EXPECT().Run(gomock.Any(), command("getGuestIPAddress", string(ubuntu), "-wait")).Return(&process.Outcome{Stdout: []byte("192.168.86.130\n")}, nil)

	ip, err := d.GuestIP(context.Background(), ubuntu)
	require.NoError(t, err)
	assert.Equal(t, "192.168.86.130", ip)
}

func TestExistsInGuest(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), guestCommand("fileExistsInGuest", string(ubuntu), "/etc/hosts")).Return(&process.Outcome{Stdout: []byte("The file exists.\n")}, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("directoryExistsInGuest", string(ubuntu), "/nope")).Return(&process.Outcome{ExitCode: 255, Stdout: []byte("The directory does not exist.\n")}, nil),
	)

	ok, err := d.FileExistsInGuest(ctx, ubuntu, creds, "/etc/hosts")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.DirectoryExistsInGuest(ctx, ubuntu, creds, "/nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVersion(t *testing.T) {
	d, runner, _ := NewDriver(t)
	out := stdout(t, "usage.txt")
	out.ExitCode = 255
	runner.EXPECT().Run(gomock.Any(), process.Command{Path: vmrunPath}).Return(out, nil)

	v, err := d.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.17.0 build-17801498", v)
}

func TestSharedFolders(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)
	ok := &process.Outcome{}

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), command("enableSharedFolders", string(ubuntu), "runtime")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), command("addSharedFolder", string(ubuntu), "src", "/home/dev/src")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), command("setSharedFolderState", string(ubuntu), "src", "/home/dev/src", "readonly")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), command("removeSharedFolder", string(ubuntu), "src")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), command("disableSharedFolders", string(ubuntu))).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), command("removeSharedFolder", string(win), "gone")).Return(failure(t, "error_cannot_open.txt"), nil),
	)

	require.NoError(t, d.EnableSharedFolders(ctx, ubuntu, true))
	require.NoError(t, d.AddSharedFolder(ctx, ubuntu, "src", "/home/dev/src"))
	require.NoError(t, d.SetSharedFolderState(ctx, ubuntu, "src", "/home/dev/src", false))
	require.NoError(t, d.RemoveSharedFolder(ctx, ubuntu, "src"))
	require.NoError(t, d.DisableSharedFolders(ctx, ubuntu, false))

	err := d.RemoveSharedFolder(ctx, win, "gone")
	assert.Equal(t, vmerr.NotFound, vmerr.KindOf(err))
}

func TestGuestProcesses(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), guestCommand("listProcessesInGuest", string(ubuntu))).Return(stdout(t, "processes.txt"), nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("killProcessInGuest", string(ubuntu), "812")).Return(&process.Outcome{}, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("killProcessInGuest", string(ubuntu), "9")).Return(failure(t, "error_auth.txt"), nil),
	)

	procs, err := d.ListProcessesInGuest(ctx, ubuntu, creds)
	require.NoError(t, err)
	require.Len(t, procs, 3)
	assert.Equal(t, "dev", procs[1].Owner)

	require.NoError(t, d.KillProcessInGuest(ctx, ubuntu, creds, 812))

	err = d.KillProcessInGuest(ctx, ubuntu, creds, 9)
	assert.Equal(t, vmerr.AuthenticationFailure, vmerr.KindOf(err))
}

func TestGuestFiles(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)
	ok := &process.Outcome{}

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), guestCommand("listDirectoryInGuest", string(ubuntu), "/home/dev")).Return(stdout(t, "directory.txt"), nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("createDirectoryInGuest", string(ubuntu), "/home/dev/out")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("CreateTempfileInGuest", string(ubuntu))).Return(&process.Outcome{Stdout: []byte("/tmp/vmware-dev/vmware12.tmp\n")}, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("renameFileInGuest", string(ubuntu), "/tmp/vmware-dev/vmware12.tmp", "/home/dev/out/log")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("deleteFileInGuest", string(ubuntu), "/home/dev/out/log")).Return(ok, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("deleteDirectoryInGuest", string(ubuntu), "/home/dev/out")).Return(ok, nil),
	)

	names, err := d.ListDirectoryInGuest(ctx, ubuntu, creds, "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, []string{".bashrc", "notes with spaces.txt", "src"}, names)

	require.NoError(t, d.CreateDirectoryInGuest(ctx, ubuntu, creds, "/home/dev/out"))

	tmp, err := d.CreateTempFileInGuest(ctx, ubuntu, creds)
	require.NoError(t, err)
	assert.Equal(t, types.GuestPath("/tmp/vmware-dev/vmware12.tmp"), tmp)

	require.NoError(t, d.RenameFileInGuest(ctx, ubuntu, creds, tmp, "/home/dev/out/log"))
	require.NoError(t, d.DeleteFileInGuest(ctx, ubuntu, creds, "/home/dev/out/log"))
	require.NoError(t, d.DeleteDirectoryInGuest(ctx, ubuntu, creds, "/home/dev/out"))
}

func TestVariables(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), command("readVariable", string(ubuntu), "runtimeConfig", "displayName")).Return(&process.Outcome{Stdout: []byte("Ubuntu 22.04\n")}, nil),
		runner.EXPECT().Run(gomock.Any(), command("writeVariable", string(ubuntu), "guestVar", "build", "42")).Return(&process.Outcome{}, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("readVariable", string(ubuntu), "guestEnv", "HOME")).Return(&process.Outcome{Stdout: []byte("/home/dev\n")}, nil),
	)

	v, err := d.ReadVariable(ctx, ubuntu, creds, vmrun.RuntimeConfig, "displayName")
	require.NoError(t, err)
	assert.Equal(t, "Ubuntu 22.04", v)

	require.NoError(t, d.WriteVariable(ctx, ubuntu, creds, vmrun.GuestVar, "build", "42"))

	v, err = d.ReadVariable(ctx, ubuntu, creds, vmrun.GuestEnv, "HOME")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev", v)
}

func TestScreenAndKeystrokes(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), guestCommand("captureScreen", string(ubuntu), "/tmp/screen.png")).Return(&process.Outcome{}, nil),
		runner.EXPECT().Run(gomock.Any(), guestCommand("typeKeystrokesInGuest", string(ubuntu), "ls -la\n")).Return(&process.Outcome{}, nil),
	)

	require.NoError(t, d.CaptureScreen(ctx, ubuntu, creds, "/tmp/screen.png"))
	require.NoError(t, d.TypeKeystrokesInGuest(ctx, ubuntu, creds, "ls -la\n"))
}

func TestToolsAndDelete(t *testing.T) {
	ctx := context.Background()
	d, runner, _ := NewDriver(t)

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), command("checkToolsState", string(ubuntu))).Return(&process.Outcome{Stdout: []byte("installed\n")}, nil),
		runner.EXPECT().Run(gomock.Any(), command("installTools", string(ubuntu))).Return(&process.Outcome{}, nil),
		runner.EXPECT().Run(gomock.Any(), command("deleteVM", string(win))).Return(&process.Outcome{}, nil),
	)

	state, err := d.ToolsState(ctx, ubuntu)
	require.NoError(t, err)
	assert.Equal(t, vmrun.ToolsInstalled, state)

	require.NoError(t, d.InstallTools(ctx, ubuntu))
	require.NoError(t, d.DeleteVM(ctx, win))
}
