// Package hyperv drives Hyper-V through its PowerShell cmdlets. Each
// operation runs one script; VMs are identified by VMId or name.
package hyperv

import (
	"context"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/wsl"
)

const backend = string(types.BackendHyperV)

var _ driver.Driver = (*Driver)(nil)

// Options configure a Driver
type Options struct {
	// Path of powershell.exe
	Path string
	// Encoding of the console output. Scripts switch the console to UTF-8,
	// which is the default.
	Encoding textutil.Encoding
	// ScriptDir receives the temporary scripts; empty means the OS temp dir
	ScriptDir string
	// Paths translates host paths, e.g. when powershell.exe runs under WSL
	Paths *wsl.Converter
}

// Driver runs Hyper-V cmdlets
type Driver struct {
	ps    *PowerShell
	paths *wsl.Converter
}

// New returns a Driver that runs PowerShell through runner
func New(runner process.Runner, opts Options) *Driver {
	if opts.Path == "" {
		opts.Path = "powershell.exe"
	}
	return &Driver{
		ps: &PowerShell{
			runner:    runner,
			path:      opts.Path,
			encoding:  opts.Encoding,
			scriptDir: opts.ScriptDir,
			paths:     opts.Paths,
		},
		paths: opts.Paths,
	}
}

// LookPath finds Windows PowerShell, or PowerShell 7 as a fallback
func LookPath() (string, error) {
	return process.Find("powershell.exe", "powershell", "pwsh.exe", "pwsh")
}

// Backend returns types.BackendHyperV
func (d *Driver) Backend() types.Backend {
	return types.BackendHyperV
}

const versionScript = `
$m = Get-Module -ListAvailable -Name Hyper-V | Sort-Object Version -Descending | Select-Object -First 1
if ($m -eq $null) {
  throw "The term 'Hyper-V' is not recognized as the name of a cmdlet, function, script file, or operable program."
}
$m.Version.ToString()
`

// Version returns the version of the Hyper-V PowerShell module
func (d *Driver) Version(ctx context.Context) (v string, err error) {
	defer vmerr.Annotate(&err, backend, "version")

	out, err := d.ps.Run(ctx, versionScript, nil)
	if err != nil {
		return "", err
	}
	return ParseValue(out)
}

// vmParams names the VM a script works on
type vmParams struct {
	VM string `json:"vm"`
}
