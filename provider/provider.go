// Package provider builds a driver.Driver from a types.Config.
package provider

import (
	"strings"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/hyperv"
	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vbox"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/vmrest"
	"github.com/nanovms/hvctl/vmrun"
	"github.com/nanovms/hvctl/wsl"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// New returns the driver for c.Backend. Executables are looked up when
// c.Executable is empty; the lookup failing is a LaunchFailure.
func New(c *types.Config) (driver.Driver, error) {
	return NewWithRunner(c, process.NewExec(c.Timeout.Std()))
}

// NewWithRunner is New with the process runner of the CLI drivers given
func NewWithRunner(c *types.Config, runner process.Runner) (driver.Driver, error) {
	backend, err := types.ParseBackend(string(c.Backend))
	if err != nil {
		return nil, vmerr.Wrap(vmerr.UnsupportedOperation, err, "selecting backend")
	}

	if backend == types.BackendVmRest {
		return vmrest.New(vmrest.Options{
			URL:      c.VmRest.URL,
			Username: c.VmRest.Username,
			Password: c.VmRest.Password,
			Insecure: c.VmRest.Insecure,
			Timeout:  c.Timeout.Std(),
			Logger:   log.Default(),
		}), nil
	}

	enc, err := textutil.LookupEncoding(c.Encoding)
	if err != nil {
		return nil, vmerr.Wrap(vmerr.LaunchFailure, err, "console encoding")
	}

	path, err := executable(backend, c.Executable)
	if err != nil {
		return nil, err
	}
	paths := wsl.NewConverterFor(runner, isWindowsExe(path) && wsl.IsWSL())
	log.Debug("%s: using %s with %s output", backend, path, enc.Name())

	switch backend {
	case types.BackendVBoxManage:
		return vbox.New(runner, vbox.Options{
			Path:          path,
			Encoding:      enc,
			LiveSnapshots: c.VBox.LiveSnapshots,
			Paths:         paths,
		}), nil
	case types.BackendVmrun:
		hostType := c.Vmrun.HostType
		if hostType == "" {
			hostType = vmrun.DefaultHostType()
		}
		return vmrun.New(runner, vmrun.Options{
			Path:       path,
			HostType:   hostType,
			Encoding:   enc,
			VMPassword: c.Vmrun.VMPassword,
			Inventory:  vmrun.NewInventory(afero.NewOsFs(), c.Vmrun.InventoryPath, hostType),
			Paths:      paths,
		}), nil
	case types.BackendHyperV:
		return hyperv.New(runner, hyperv.Options{
			Path:      path,
			Encoding:  enc,
			ScriptDir: c.HyperV.ScriptDir,
			Paths:     paths,
		}), nil
	}
	return nil, errors.Errorf("no driver for backend %s", backend)
}

func executable(backend types.Backend, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	var lookPath func() (string, error)
	switch backend {
	case types.BackendVBoxManage:
		lookPath = vbox.LookPath
	case types.BackendVmrun:
		lookPath = vmrun.LookPath
	default:
		lookPath = hyperv.LookPath
	}
	path, err := lookPath()
	if err != nil {
		return "", errors.Wrapf(err, "locating %s executable", backend)
	}
	return path, nil
}

func isWindowsExe(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".exe")
}
