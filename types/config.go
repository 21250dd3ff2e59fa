package types

import (
	"time"
)

// Config selects a backend and carries its connection parameters. It is
// read once when a driver is built and not changed afterwards.
type Config struct {
	// Backend is one of vbox, vmrun, vmrest or hyperv.
	Backend Backend `json:",omitempty" yaml:"backend,omitempty" toml:"backend,omitempty"`

	// Executable overrides the path of the backend tool. Empty means the
	// default name looked up on PATH.
	Executable string `json:",omitempty" yaml:"executable,omitempty" toml:"executable,omitempty"`

	// Timeout bounds every single invocation. Zero disables it.
	Timeout Duration `json:",omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`

	// Encoding of the tool's console output, e.g. utf-8, cp437, cp932 or
	// windows-1252. Empty means the host default.
	Encoding string `json:",omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty"`

	VBox   VBoxConfig   `json:",omitempty" yaml:"vbox,omitempty" toml:"vbox,omitempty"`
	Vmrun  VmrunConfig  `json:",omitempty" yaml:"vmrun,omitempty" toml:"vmrun,omitempty"`
	VmRest VmRestConfig `json:",omitempty" yaml:"vmrest,omitempty" toml:"vmrest,omitempty"`
	HyperV HyperVConfig `json:",omitempty" yaml:"hyperv,omitempty" toml:"hyperv,omitempty"`

	// RunConfig holds CLI presentation settings.
	RunConfig RunConfig `json:",omitempty" yaml:"run,omitempty" toml:"run,omitempty"`
}

// VBoxConfig configures the VBoxManage driver
type VBoxConfig struct {
	// LiveSnapshots takes snapshots without pausing a running VM.
	LiveSnapshots bool `json:",omitempty" yaml:"liveSnapshots,omitempty" toml:"live_snapshots,omitempty"`
}

// VmrunConfig configures the vmrun driver
type VmrunConfig struct {
	// HostType is ws, player or fusion.
	HostType string `json:",omitempty" yaml:"hostType,omitempty" toml:"host_type,omitempty"`

	// InventoryPath points at inventory.vmls or preferences.ini. Empty
	// means the per-user default for HostType.
	InventoryPath string `json:",omitempty" yaml:"inventoryPath,omitempty" toml:"inventory_path,omitempty"`

	// VMPassword unlocks encrypted VMs.
	VMPassword string `json:"-" yaml:"-" toml:"-"`
}

// VmRestConfig configures the VMware REST driver
type VmRestConfig struct {
	URL      string `json:",omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Username string `json:",omitempty" yaml:"username,omitempty" toml:"username,omitempty"`
	// Password is only read from the environment or a .env file.
	Password string `json:"-" yaml:"-" toml:"-"`
	Insecure bool   `json:",omitempty" yaml:"insecure,omitempty" toml:"insecure,omitempty"`
}

// HyperVConfig configures the Hyper-V driver
type HyperVConfig struct {
	// ScriptDir is where temporary scripts are written. Empty means the OS
	// temp dir.
	ScriptDir string `json:",omitempty" yaml:"scriptDir,omitempty" toml:"script_dir,omitempty"`
}

// RunConfig provides CLI presentation settings
type RunConfig struct {
	ShowWarnings bool `json:",omitempty" yaml:"showWarnings,omitempty" toml:"show_warnings,omitempty"`
	ShowErrors   bool `json:",omitempty" yaml:"showErrors,omitempty" toml:"show_errors,omitempty"`
	ShowDebug    bool `json:",omitempty" yaml:"showDebug,omitempty" toml:"show_debug,omitempty"`
	Verbose      bool `json:",omitempty" yaml:"verbose,omitempty" toml:"verbose,omitempty"`
	JSON         bool `json:",omitempty" yaml:"json,omitempty" toml:"json,omitempty"`
}

// Duration is a time.Duration written as "30s" in config files
type Duration time.Duration

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
