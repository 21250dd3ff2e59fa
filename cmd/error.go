package cmd

import (
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/nanovms/hvctl/constants"
	"github.com/nanovms/hvctl/vmerr"
)

// exitCodes distinguish failure kinds for scripts calling hvctl
var exitCodes = map[vmerr.Kind]int{
	vmerr.BackendError:          1,
	vmerr.LaunchFailure:         3,
	vmerr.Timeout:               4,
	vmerr.AuthenticationFailure: 5,
	vmerr.NotFound:              6,
	vmerr.ParseFailure:          7,
	vmerr.UnsupportedOperation:  8,
}

// guestExitError carries the exit status of a program run in the guest
type guestExitError struct {
	code int
}

func (e *guestExitError) Error() string {
	return fmt.Sprintf("guest program exited with status %d", e.code)
}

// ExitCode returns the process exit status for err
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var guest *guestExitError
	if errors.As(err, &guest) {
		return guest.code
	}
	var e *vmerr.Error
	if !errors.As(err, &e) {
		return 2
	}
	return exitCodes[e.Kind]
}

// PrintError writes err to w. Driver errors show their kind and the raw
// diagnostic of the backend; with debug on a stack trace follows.
func PrintError(w io.Writer, err error, debug bool) {
	var guest *guestExitError
	if errors.As(err, &guest) {
		return
	}

	msg := err.Error()
	var e *vmerr.Error
	if errors.As(err, &e) && e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)\n%s", e.Kind, describe(e), e.Detail)
	}
	fmt.Fprintln(w, fmt.Sprintf(constants.ErrorColor, msg))

	if debug {
		fmt.Fprintln(w, errors.Wrap(err, 1).ErrorStack())
	}
}

func describe(e *vmerr.Error) string {
	switch {
	case e.Backend != "" && e.Op != "":
		return e.Backend + " " + e.Op
	case e.Backend != "":
		return e.Backend
	}
	return e.Op
}
