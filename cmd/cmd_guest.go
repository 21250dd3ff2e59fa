package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nanovms/hvctl/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// GuestCommands provides commands working inside the guest
func GuestCommands() *cobra.Command {
	var cmdGuest = &cobra.Command{
		Use:   "guest",
		Short: "work with files, programs and processes inside a guest",
	}

	cmdGuest.PersistentFlags().StringP("user", "u", "", "guest account [required]")
	cmdGuest.PersistentFlags().String("domain", "", "domain of the guest account")
	cmdGuest.MarkPersistentFlagRequired("user")

	cmdGuest.AddCommand(guestCopyToCommand())
	cmdGuest.AddCommand(guestCopyFromCommand())
	cmdGuest.AddCommand(guestRunCommand())
	cmdGuest.AddCommand(guestPSCommand())
	cmdGuest.AddCommand(guestKillCommand())
	cmdGuest.AddCommand(guestLsCommand())
	cmdGuest.AddCommand(guestMkdirCommand())
	cmdGuest.AddCommand(guestRmdirCommand())
	cmdGuest.AddCommand(guestRmCommand())
	cmdGuest.AddCommand(guestMvCommand())
	cmdGuest.AddCommand(guestMktempCommand())
	cmdGuest.AddCommand(guestExistsCommand())
	cmdGuest.AddCommand(guestTypeCommand())
	cmdGuest.AddCommand(guestScreenshotCommand())

	return cmdGuest
}

func (s *session) guestCredentials() (types.GuestCredentials, error) {
	var creds types.GuestCredentials
	creds.Username, _ = s.cmd.Flags().GetString("user")
	creds.Domain, _ = s.cmd.Flags().GetString("domain")

	pw, err := s.guestPassword(creds.Username)
	if err != nil {
		return creds, err
	}
	creds.Password = pw
	return creds, nil
}

func guestCopyToCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy-to <vm> <host path> <guest path>",
		Short: "copy a file from the host into the guest",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[1])
			if err != nil {
				return errors.Wrap(err, "source file")
			}
			return guestCopy(cmd, args, types.ToGuest, uint64(info.Size()))
		},
	}
}

func guestCopyFromCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy-from <vm> <guest path> <host path>",
		Short: "copy a file from the guest to the host",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return guestCopy(cmd, []string{args[0], args[2], args[1]}, types.FromGuest, 0)
		},
	}
}

// guestCopy copies between args[1] on the host and args[2] in the guest
func guestCopy(cmd *cobra.Command, args []string, direction types.CopyDirection, size uint64) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.resolveVM(args[0])
	if err != nil {
		return err
	}

	if direction == types.FromGuest {
		if _, err := os.Stat(args[1]); err == nil {
			if err := s.confirm("Overwrite %s?", args[1]); err != nil {
				return err
			}
		}
	}

	creds, err := s.guestCredentials()
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.CopyFile(s.ctx, id, creds, direction, types.HostPath(args[1]), types.GuestPath(args[2]))
	if err != nil {
		return err
	}

	if direction == types.FromGuest {
		if info, err := os.Stat(args[1]); err == nil {
			size = uint64(info.Size())
		}
	}
	elapsed := time.Since(start)

	if s.json() {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"vm":        id,
			"direction": direction.String(),
			"host":      args[1],
			"guest":     args[2],
			"bytes":     size,
			"seconds":   elapsed.Seconds(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "copied %s (%s) in %s\n", direction, humanize.Bytes(size), elapsed.Round(time.Millisecond))
	return nil
}

func guestRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <vm> <program> [args...]",
		Short: "run a program inside the guest and wait for it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.resolveVM(args[0])
			if err != nil {
				return err
			}
			creds, err := s.guestCredentials()
			if err != nil {
				return err
			}

			res, err := s.RunInGuest(s.ctx, id, creds, types.GuestPath(args[1]), args[2:])
			if err != nil {
				return err
			}

			if s.json() {
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
				fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
				if !res.Captured {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s does not capture guest output\n", s.Backend())
				}
			}
			if res.ExitCode != 0 {
				return &guestExitError{code: res.ExitCode}
			}
			return nil
		},
	}
}
