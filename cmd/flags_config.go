package cmd

import (
	"strings"

	"github.com/nanovms/hvctl/config"
	"github.com/nanovms/hvctl/types"
	"github.com/spf13/pflag"
)

// ConfigCommandFlags handles config file path flag and build configuration from the file
type ConfigCommandFlags struct {
	Config  string
	EnvFile string
}

// MergeToConfig replaces c with the configuration read from the config
// file, the env file and HVCTL_* variables
func (flags *ConfigCommandFlags) MergeToConfig(c *types.Config) error {
	loaded, err := config.Load(flags.Config, flags.EnvFile)
	if err != nil {
		return err
	}
	*c = *loaded
	return nil
}

// NewConfigCommandFlags returns an instance of ConfigCommandFlags
func NewConfigCommandFlags(cmdFlags *pflag.FlagSet) (flags *ConfigCommandFlags) {
	flags = &ConfigCommandFlags{}

	flags.Config, _ = cmdFlags.GetString("config")
	flags.Config = strings.TrimSpace(flags.Config)

	flags.EnvFile, _ = cmdFlags.GetString("env-file")
	flags.EnvFile = strings.TrimSpace(flags.EnvFile)

	return
}

// PersistConfigCommandFlags append the config file flags to a command
func PersistConfigCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("config", "c", "", "hvctl config file (.json, .yaml or .toml)")
	cmdFlags.String("env-file", ".env", "file with HVCTL_* variables")
}
