package cmd_test

import (
	"testing"
	"time"

	"github.com/nanovms/hvctl/cmd"
	"github.com/nanovms/hvctl/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestCreateGlobalFlags(t *testing.T) {

	flagSet := pflag.NewFlagSet("test", 0)

	cmd.PersistGlobalCommandFlags(flagSet)

	flagSet.Set("show-debug", "true")
	flagSet.Set("show-errors", "true")
	flagSet.Set("show-warnings", "true")
	flagSet.Set("yes", "true")
	flagSet.Set("metrics-file", "/tmp/hvctl.prom")

	globalFlags := cmd.NewGlobalCommandFlags(flagSet)

	assert.Equal(t, globalFlags.ShowDebug, true)
	assert.Equal(t, globalFlags.ShowErrors, true)
	assert.Equal(t, globalFlags.ShowWarnings, true)
	assert.Equal(t, globalFlags.Yes, true)
	assert.Equal(t, globalFlags.MetricsFile, "/tmp/hvctl.prom")
}

func TestGlobalFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)

	cmd.PersistGlobalCommandFlags(flagSet)

	flagSet.Set("show-debug", "true")
	flagSet.Set("show-errors", "false")
	flagSet.Set("json", "true")
	flagSet.Set("verbose", "true")

	globalFlags := cmd.NewGlobalCommandFlags(flagSet)

	c := &types.Config{RunConfig: types.RunConfig{ShowWarnings: true}}

	err := globalFlags.MergeToConfig(c)

	assert.Nil(t, err)

	assert.Equal(t, c, &types.Config{
		RunConfig: types.RunConfig{
			ShowDebug:    true,
			ShowErrors:   false,
			ShowWarnings: true,
			Verbose:      true,
			JSON:         true,
		},
	})
}

func TestBackendFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)

	cmd.PersistBackendCommandFlags(flagSet)

	flagSet.Set("backend", "vbox")
	flagSet.Set("timeout", "2m")

	backendFlags := cmd.NewBackendCommandFlags(flagSet)

	c := &types.Config{
		Backend:    types.BackendVmrun,
		Executable: "/usr/bin/vmrun",
		Encoding:   "cp437",
	}

	err := backendFlags.MergeToConfig(c)

	assert.Nil(t, err)

	assert.Equal(t, c, &types.Config{
		Backend:    types.BackendVBoxManage,
		Executable: "/usr/bin/vmrun",
		Timeout:    types.Duration(2 * time.Minute),
		Encoding:   "cp437",
	})
}

func TestConfigFlagsMergeToConfig(t *testing.T) {
	t.Setenv("HVCTL_VMREST_PASSWORD", "s3cret")

	flagSet := pflag.NewFlagSet("test", 0)

	cmd.PersistConfigCommandFlags(flagSet)

	flagSet.Set("config", " testdata/hvctl.yaml ")
	flagSet.Set("env-file", "testdata/missing.env")

	configFlags := cmd.NewConfigCommandFlags(flagSet)

	assert.Equal(t, "testdata/hvctl.yaml", configFlags.Config)

	c := &types.Config{Executable: "replaced"}

	err := configFlags.MergeToConfig(c)

	assert.Nil(t, err)

	assert.Equal(t, c, &types.Config{
		Backend: types.BackendVmRest,
		Timeout: types.Duration(30 * time.Second),
		VmRest: types.VmRestConfig{
			URL:      "http://127.0.0.1:8697",
			Username: "dev",
			Password: "s3cret",
		},
		RunConfig: types.RunConfig{ShowErrors: true},
	})
}

func TestMergeConfigContainerOrder(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)

	cmd.PersistConfigCommandFlags(flagSet)
	cmd.PersistBackendCommandFlags(flagSet)

	flagSet.Set("config", "testdata/hvctl.yaml")
	flagSet.Set("env-file", "")
	flagSet.Set("backend", "hyperv")

	container := cmd.NewMergeConfigContainer(
		cmd.NewConfigCommandFlags(flagSet),
		cmd.NewBackendCommandFlags(flagSet),
	)

	c := &types.Config{}
	err := container.Merge(c)

	assert.Nil(t, err)
	assert.Equal(t, types.BackendHyperV, c.Backend)
	assert.Equal(t, "dev", c.VmRest.Username)
}
