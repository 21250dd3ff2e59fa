// Package vmrun drives VMware Workstation, Player and Fusion through the
// vmrun command line tool. VMs are identified by their .vmx path.
package vmrun

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/wsl"
	"github.com/spf13/afero"
)

const backend = string(types.BackendVmrun)

// Host types accepted by vmrun -T
const (
	HostWorkstation = "ws"
	HostPlayer      = "player"
	HostFusion      = "fusion"
)

var _ driver.Driver = (*Driver)(nil)

// Options configure a Driver
type Options struct {
	// Path of vmrun
	Path string
	// HostType is ws, player or fusion
	HostType string
	Encoding textutil.Encoding
	// VMPassword unlocks encrypted VMs
	VMPassword string
	// Inventory lists registered VMs; nil reads the per-user default file
	Inventory *Inventory
	// Paths translates host paths, e.g. when vmrun.exe runs under WSL
	Paths *wsl.Converter
}

// Driver runs vmrun commands
type Driver struct {
	runner process.Runner
	opts   Options
}

// New returns a Driver that runs vmrun through runner
func New(runner process.Runner, opts Options) *Driver {
	if opts.Path == "" {
		opts.Path = "vmrun"
	}
	if opts.HostType == "" {
		opts.HostType = DefaultHostType()
	}
	if opts.Inventory == nil {
		opts.Inventory = NewInventory(afero.NewOsFs(), "", opts.HostType)
	}
	return &Driver{runner: runner, opts: opts}
}

// DefaultHostType is fusion on macOS and ws elsewhere
func DefaultHostType() string {
	if runtime.GOOS == "darwin" {
		return HostFusion
	}
	return HostWorkstation
}

// LookPath finds vmrun on PATH or in the default install locations
func LookPath() (string, error) {
	if p, err := process.Find("vmrun", "vmrun.exe"); err == nil {
		return p, nil
	}
	candidates := []string{
		"/Applications/VMware Fusion.app/Contents/Library/vmrun",
	}
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if dir := os.Getenv(env); dir != "" {
			candidates = append(candidates, filepath.Join(dir, "VMware", "VMware Workstation", "vmrun.exe"))
		}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return process.Find("vmrun")
}

// Backend returns types.BackendVmrun
func (d *Driver) Backend() types.Backend {
	return types.BackendVmrun
}

type output struct {
	stdout, stderr string
	code           int
}

// exec runs one vmrun command with the global flags prepended. Guest
// credentials are added when creds is not nil.
func (d *Driver) exec(ctx context.Context, creds *types.GuestCredentials, args ...string) (output, error) {
	full := []string{"-T", d.opts.HostType}
	if d.opts.VMPassword != "" {
		full = append(full, "-vp", d.opts.VMPassword)
	}
	if creds != nil {
		full = append(full, "-gu", creds.Username, "-gp", creds.Password)
	}
	full = append(full, args...)

	out, err := d.runner.Run(ctx, process.Command{Path: d.opts.Path, Args: full})
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

// run is exec that turns a reported error into a classified error
func (d *Driver) run(ctx context.Context, creds *types.GuestCredentials, args ...string) (string, error) {
	out, err := d.exec(ctx, creds, args...)
	if err != nil {
		return "", err
	}
	if failed(out.stdout, out.stderr, out.code) {
		return "", ParseError(out.stdout, out.stderr, out.code)
	}
	return out.stdout, nil
}

// Version returns the vmrun version, e.g. "1.17.0 build-17801498". vmrun
// prints it in its usage text and exits non-zero.
func (d *Driver) Version(ctx context.Context) (v string, err error) {
	defer vmerr.Annotate(&err, backend, "version")

	out, err := d.runner.Run(ctx, process.Command{Path: d.opts.Path})
	if err != nil {
		return "", err
	}
	text, err := d.opts.Encoding.Decode(out.Stdout)
	if err != nil {
		return "", vmerr.Wrap(vmerr.ParseFailure, err, "decoding stdout")
	}
	return ParseVersion(text)
}

func (d *Driver) hostPath(ctx context.Context, p types.HostPath) (string, error) {
	return d.opts.Paths.ToWindows(ctx, string(p))
}
