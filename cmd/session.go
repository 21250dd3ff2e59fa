package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/nanovms/hvctl/config"
	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/metrics"
	"github.com/nanovms/hvctl/provider"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/util"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newDriver builds the driver of a session
var newDriver = provider.New

// session is the driver and settings one command works with
type session struct {
	driver.Driver
	config  *types.Config
	global  *GlobalCommandFlags
	ctx     context.Context
	cmd     *cobra.Command
	metrics *prometheus.Registry
	in      *bufio.Reader
}

// getCommandConfig merges the config file, the environment and the flags
func getCommandConfig(cmd *cobra.Command) (*types.Config, error) {
	flags := cmd.Flags()

	c := &types.Config{}
	mergeContainer := NewMergeConfigContainer(
		NewConfigCommandFlags(flags),
		NewBackendCommandFlags(flags),
		NewGlobalCommandFlags(flags),
	)
	if err := mergeContainer.Merge(c); err != nil {
		return nil, err
	}
	return c, nil
}

func newSession(cmd *cobra.Command) (*session, error) {
	c, err := getCommandConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(c); err != nil {
		return nil, err
	}

	d, err := newDriver(c)
	if err != nil {
		return nil, err
	}

	s := &session{
		Driver: d,
		config: c,
		global: NewGlobalCommandFlags(cmd.Flags()),
		ctx:    cmd.Context(),
		cmd:    cmd,
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	if s.global.MetricsFile != "" {
		s.metrics = prometheus.NewRegistry()
		collectors, err := metrics.NewCollectors(s.metrics)
		if err != nil {
			return nil, err
		}
		s.Driver = metrics.Instrument(d, collectors)
	}
	return s, nil
}

// Close writes the metrics file when one was requested
func (s *session) Close() {
	if s.metrics == nil {
		return
	}
	if err := metrics.WriteFile(s.global.MetricsFile, s.metrics); err != nil {
		log.Warn("writing metrics: %v", err)
		return
	}
	log.Info("metrics written to %s", s.global.MetricsFile)
}

// json reports whether results are printed as JSON
func (s *session) json() bool {
	return s.config.RunConfig.JSON
}

// resolveVM maps a name or identifier to the identifier of a VM. A
// reference no listed VM matches is passed through for the backend to
// judge, e.g. a .vmx path outside the vmrun inventory.
func (s *session) resolveVM(ref string) (types.VMID, error) {
	vm, err := driver.FindVM(s.ctx, s, ref)
	if err == nil {
		return vm.ID, nil
	}
	if vmerr.KindOf(err) == vmerr.NotFound {
		log.Debug("%s is not listed, passing it to the backend as is", ref)
		return types.VMID(ref), nil
	}
	return "", err
}

// do runs work behind a spinner when the output is a terminal
func (s *session) do(work func() error, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	out, ok := s.cmd.OutOrStdout().(*os.File)
	if !s.json() && ok && term.IsTerminal(int(out.Fd())) {
		return util.NewProgressSpinner(out).Do(work, msg)
	}

	if err := work(); err != nil {
		return err
	}
	if !s.json() {
		fmt.Fprintf(s.cmd.OutOrStdout(), "%s: done\n", msg)
	}
	return nil
}
