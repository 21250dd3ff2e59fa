// Package wsl translates host paths for Windows tools driven from a WSL
// distribution.
package wsl

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/vmerr"
)

// IsWSL checks whether current operating system is a WSL distro
func IsWSL() bool {
	if _, err := exec.LookPath("wslpath"); err != nil {
		return false
	}
	release, err := os.ReadFile("/proc/sys/kernel/osrelease")
	return err == nil && strings.Contains(strings.ToLower(string(release)), "microsoft")
}

// Converter maps WSL paths to Windows paths. A disabled Converter returns
// paths unchanged.
type Converter struct {
	runner  process.Runner
	enabled bool
}

// NewConverterFor returns a Converter enabled as requested
func NewConverterFor(runner process.Runner, enabled bool) *Converter {
	return &Converter{runner: runner, enabled: enabled}
}

// Enabled reports whether paths are translated
func (c *Converter) Enabled() bool {
	return c != nil && c.enabled
}

// ToWindows maps a WSL path such as /mnt/c/vm/a.vmx to C:\vm\a.vmx
func (c *Converter) ToWindows(ctx context.Context, path string) (string, error) {
	if !c.Enabled() || path == "" {
		return path, nil
	}

	out, err := c.runner.Run(ctx, process.Command{Path: "wslpath", Args: []string{"-w", path}})
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", vmerr.Newf(vmerr.BackendError, "wslpath -w %s: %s", path, strings.TrimSpace(string(out.Stderr)))
	}

	return strings.TrimRight(string(out.Stdout), "\r\n"), nil
}
