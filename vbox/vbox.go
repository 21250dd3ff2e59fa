// Package vbox drives VirtualBox through the VBoxManage command line tool.
package vbox

import (
	"context"
	"os"
	"path/filepath"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/wsl"
)

const backend = string(types.BackendVBoxManage)

var _ driver.Driver = (*Driver)(nil)

// Options configure a Driver
type Options struct {
	// Path of VBoxManage
	Path     string
	Encoding textutil.Encoding
	// LiveSnapshots takes snapshots of running VMs without pausing them
	LiveSnapshots bool
	// Paths translates host paths, e.g. when VBoxManage.exe runs under WSL
	Paths *wsl.Converter
}

// Driver runs VBoxManage subcommands
type Driver struct {
	runner process.Runner
	opts   Options
}

// New returns a Driver that runs VBoxManage through runner
func New(runner process.Runner, opts Options) *Driver {
	if opts.Path == "" {
		opts.Path = "VBoxManage"
	}
	return &Driver{runner: runner, opts: opts}
}

// LookPath finds VBoxManage in the VirtualBox install directory or on PATH
func LookPath() (string, error) {
	for _, env := range []string{"VBOX_INSTALL_PATH", "VBOX_MSI_INSTALL_PATH"} {
		dir := os.Getenv(env)
		if dir == "" {
			continue
		}
		for _, name := range []string{"VBoxManage.exe", "VBoxManage"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return process.Find("VBoxManage", "VBoxManage.exe")
}

// Backend returns types.BackendVBoxManage
func (d *Driver) Backend() types.Backend {
	return types.BackendVBoxManage
}

type output struct {
	stdout, stderr string
	code           int
}

// exec runs one subcommand and decodes its output. Only adapter and
// decoding failures are errors; exit status is left to the caller.
func (d *Driver) exec(ctx context.Context, args ...string) (output, error) {
	out, err := d.runner.Run(ctx, process.Command{Path: d.opts.Path, Args: args})
	if err != nil {
		return output{}, err
	}
	stdout, err := d.opts.Encoding.Decode(out.Stdout)
	if err != nil {
		return output{}, vmerr.Wrap(vmerr.ParseFailure, err, "decoding stdout")
	}
	stderr, err := d.opts.Encoding.Decode(out.Stderr)
	if err != nil {
		return output{}, vmerr.Wrap(vmerr.ParseFailure, err, "decoding stderr")
	}
	return output{stdout: stdout, stderr: stderr, code: out.ExitCode}, nil
}

// run is exec that turns a non-zero exit status into an error
func (d *Driver) run(ctx context.Context, args ...string) (string, error) {
	out, err := d.exec(ctx, args...)
	if err != nil {
		return "", err
	}
	if out.code != 0 {
		return "", ParseError(out.stderr, out.stdout, out.code)
	}
	return out.stdout, nil
}

// Version returns the VirtualBox version, e.g. 7.0.10r158379
func (d *Driver) Version(ctx context.Context) (v string, err error) {
	defer vmerr.Annotate(&err, backend, "version")

	out, err := d.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	return ParseVersion(out)
}

func (d *Driver) hostPath(ctx context.Context, p types.HostPath) (string, error) {
	return d.opts.Paths.ToWindows(ctx, string(p))
}
