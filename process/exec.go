package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/vmerr"
)

// waitDelay bounds how long Wait keeps reading pipes held open by
// grandchildren after the process itself has exited or been killed.
const waitDelay = 2 * time.Second

// Exec runs commands as OS processes
type Exec struct {
	// Timeout bounds every command. Zero means only ctx bounds it.
	Timeout time.Duration
	Logger  *log.Logger
}

// NewExec returns an Exec with the given per-command timeout
func NewExec(timeout time.Duration) *Exec {
	return &Exec{Timeout: timeout, Logger: log.Default()}
}

// Run starts cmd and waits for it. When the timeout passes the process
// and its process group are killed and the partial outcome is returned
// together with a Timeout error.
func (e *Exec) Run(ctx context.Context, cmd Command) (*Outcome, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.WaitDelay = waitDelay
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	setProcessGroup(c)

	logger.Debugf("exec %s %s", cmd.Path, strings.Join(log.RedactArgs(cmd.Args), " "))

	start := time.Now()
	if err := c.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, vmerr.Wrap(vmerr.Timeout, ctx.Err(), cmd.Path)
		}
		return nil, vmerr.Wrap(vmerr.LaunchFailure, err, cmd.Path)
	}

	out := &Outcome{Pid: c.Process.Pid}
	err := c.Wait()
	out.Elapsed = time.Since(start)
	out.Stdout = stdout.Bytes()
	out.Stderr = stderr.Bytes()
	if c.ProcessState != nil {
		out.ExitCode = c.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Debugf("exec %s killed after %s", cmd.Path, out.Elapsed)
		detail := cmd.Path + " did not finish in time"
		if errors.Is(ctxErr, context.Canceled) {
			detail = cmd.Path + " was canceled"
		}
		return out, vmerr.Wrap(vmerr.Timeout, ctxErr, detail)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && !errors.Is(err, exec.ErrWaitDelay) {
		return out, vmerr.Wrap(vmerr.LaunchFailure, err, cmd.Path)
	}

	logger.Debugf("exec %s exited %d in %s", cmd.Path, out.ExitCode, out.Elapsed)
	return out, nil
}
