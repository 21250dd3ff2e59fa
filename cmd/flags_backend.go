package cmd

import (
	"time"

	"github.com/nanovms/hvctl/types"
	"github.com/spf13/pflag"
)

// BackendCommandFlags select and tune the hypervisor backend
type BackendCommandFlags struct {
	Backend    string
	Executable string
	Timeout    time.Duration
	Encoding   string
}

// MergeToConfig overrides the backend settings that were given on the command line
func (flags *BackendCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Backend != "" {
		c.Backend = types.Backend(flags.Backend)
	}
	if flags.Executable != "" {
		c.Executable = flags.Executable
	}
	if flags.Timeout != 0 {
		c.Timeout = types.Duration(flags.Timeout)
	}
	if flags.Encoding != "" {
		c.Encoding = flags.Encoding
	}
	return nil
}

// NewBackendCommandFlags returns an instance of BackendCommandFlags
func NewBackendCommandFlags(cmdFlags *pflag.FlagSet) (flags *BackendCommandFlags) {
	flags = &BackendCommandFlags{}

	flags.Backend, _ = cmdFlags.GetString("backend")
	flags.Executable, _ = cmdFlags.GetString("executable")
	flags.Timeout, _ = cmdFlags.GetDuration("timeout")
	flags.Encoding, _ = cmdFlags.GetString("encoding")

	return
}

// PersistBackendCommandFlags append the backend selection flags to a command
func PersistBackendCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("backend", "b", "", "hypervisor backend: vbox, vmrun, vmrest or hyperv")
	cmdFlags.String("executable", "", "path of VBoxManage, vmrun or powershell")
	cmdFlags.Duration("timeout", 0, "limit for every backend invocation, e.g. 2m")
	cmdFlags.String("encoding", "", "console encoding of the backend tool, e.g. cp437 or cp932")
}
