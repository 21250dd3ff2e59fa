package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nanovms/hvctl/constants"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// errNotConfirmed is returned when the user declines a destructive operation
var errNotConfirmed = errors.New("aborted")

// confirm asks question on the command's output and reads the answer
// from its input. --yes answers for the user.
func (s *session) confirm(format string, a ...interface{}) error {
	if s.global.Yes {
		return nil
	}
	fmt.Fprintf(s.cmd.OutOrStdout(), fmt.Sprintf(constants.WarningColor, format)+" [y/N] ", a...)
	answer, err := s.readLine()
	if err != nil {
		return errors.Wrap(err, "reading confirmation")
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errNotConfirmed
}

// guestPassword returns the guest password from the environment or asks
// for it without echo when stdin is a terminal
func (s *session) guestPassword(user string) (string, error) {
	if pw, ok := os.LookupEnv(constants.GuestPasswordEnv); ok {
		return pw, nil
	}

	fmt.Fprintf(s.cmd.OutOrStdout(), "Password for %s: ", user)
	if in, ok := s.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		pw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(s.cmd.OutOrStdout())
		if err != nil {
			return "", errors.Wrap(err, "reading password")
		}
		return string(pw), nil
	}

	pw, err := s.readLine()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return pw, nil
}

func (s *session) readLine() (string, error) {
	if s.in == nil {
		s.in = bufio.NewReader(s.cmd.InOrStdin())
	}
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
