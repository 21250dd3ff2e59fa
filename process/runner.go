//go:generate mockgen -source=$GOFILE -destination=$PWD/mocks/${GOFILE} -package=mocks

// Package process runs hypervisor command line tools.
package process

import (
	"context"
	"time"
)

// Command is one invocation of an external executable. Arguments are
// handed to the OS as discrete tokens; no shell is involved.
type Command struct {
	Path string
	Args []string
	// Stdin is written to the process and then closed.
	Stdin []byte
	// Env is added to the inherited environment as KEY=VALUE entries.
	Env []string
}

// Outcome is what an invocation produced. Output is left undecoded since
// only the caller knows the console encoding of the tool.
type Outcome struct {
	Pid      int
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Elapsed  time.Duration
}

// Success reports a zero exit status
func (o *Outcome) Success() bool {
	return o.ExitCode == 0
}

// Runner runs a command to completion. A non-zero exit status is not an
// error: it is reported in the Outcome for the caller to classify.
// Runners return *vmerr.Error with kind LaunchFailure when the executable
// cannot be started and Timeout when the deadline passes.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Outcome, error)
}
