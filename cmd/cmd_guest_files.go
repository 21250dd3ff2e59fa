package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/nanovms/hvctl/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// withGuest runs work with the backend driver as T and the guest
// credentials. The password is only asked for when the backend offers op.
func withGuest[T any](cmd *cobra.Command, ref, op string, work func(s *session, id types.VMID, creds types.GuestCredentials, d T) error) error {
	return withVM(cmd, ref, func(s *session, id types.VMID) error {
		d, err := extra[T](s, op)
		if err != nil {
			return err
		}
		creds, err := s.guestCredentials()
		if err != nil {
			return err
		}
		return work(s, id, creds, d)
	})
}

func guestPSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ps <vm>",
		Short: "list the processes running in the guest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], "list processes", func(s *session, id types.VMID, creds types.GuestCredentials, d guestProcesses) error {
				procs, err := d.ListProcessesInGuest(s.ctx, id, creds)
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), procs)
				}
				table := newTable(cmd.OutOrStdout(), "PID", "Owner", "Command")
				for _, p := range procs {
					table.Append([]string{strconv.FormatUint(p.PID, 10), p.Owner, p.Command})
				}
				table.Render()
				return nil
			})
		},
	}
}

func guestKillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <vm> <pid>",
		Short: "end a guest process",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.Errorf("invalid pid %q", args[1])
			}
			return withGuest(cmd, args[0], "kill process", func(s *session, id types.VMID, creds types.GuestCredentials, d guestProcesses) error {
				return s.do(func() error {
					return d.KillProcessInGuest(s.ctx, id, creds, pid)
				}, "Killing %d", pid)
			})
		},
	}
}

func guestLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <vm> <guest dir>",
		Short: "list a guest directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], "list directory", func(s *session, id types.VMID, creds types.GuestCredentials, d guestFiles) error {
				names, err := d.ListDirectoryInGuest(s.ctx, id, creds, types.GuestPath(args[1]))
				if err != nil {
					return err
				}
				if s.json() {
					if names == nil {
						names = []string{}
					}
					return printJSON(cmd.OutOrStdout(), names)
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
}

// guestPathCommand runs one guest file operation on args[1]
func guestPathCommand(use, short, op, msg string, call func(guestFiles, *session, types.VMID, types.GuestCredentials, types.GuestPath) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <vm> <guest path>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], op, func(s *session, id types.VMID, creds types.GuestCredentials, d guestFiles) error {
				return s.do(func() error {
					return call(d, s, id, creds, types.GuestPath(args[1]))
				}, msg, args[1])
			})
		},
	}
}

func guestMkdirCommand() *cobra.Command {
	return guestPathCommand("mkdir", "create a guest directory", "create directory", "Creating %s",
		func(d guestFiles, s *session, id types.VMID, creds types.GuestCredentials, p types.GuestPath) error {
			return d.CreateDirectoryInGuest(s.ctx, id, creds, p)
		})
}

func guestRmdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <vm> <guest dir>",
		Short: "delete a guest directory and its contents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], "delete directory", func(s *session, id types.VMID, creds types.GuestCredentials, d guestFiles) error {
				if err := s.confirm("Delete %s and everything in it?", args[1]); err != nil {
					return err
				}
				return s.do(func() error {
					return d.DeleteDirectoryInGuest(s.ctx, id, creds, types.GuestPath(args[1]))
				}, "Deleting %s", args[1])
			})
		},
	}
}

func guestRmCommand() *cobra.Command {
	return guestPathCommand("rm", "delete a guest file", "delete file", "Deleting %s",
		func(d guestFiles, s *session, id types.VMID, creds types.GuestCredentials, p types.GuestPath) error {
			return d.DeleteFileInGuest(s.ctx, id, creds, p)
		})
}

func guestMvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <vm> <guest path> <new guest path>",
		Short: "rename a guest file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], "rename file", func(s *session, id types.VMID, creds types.GuestCredentials, d guestFiles) error {
				return s.do(func() error {
					return d.RenameFileInGuest(s.ctx, id, creds, types.GuestPath(args[1]), types.GuestPath(args[2]))
				}, "Renaming %s", args[1])
			})
		},
	}
}

func guestMktempCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mktemp <vm>",
		Short: "create an empty temporary file in the guest and print its path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], "create temp file", func(s *session, id types.VMID, creds types.GuestCredentials, d guestFiles) error {
				p, err := d.CreateTempFileInGuest(s.ctx, id, creds)
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), map[string]string{"path": string(p)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
}

func guestExistsCommand() *cobra.Command {
	var cmdExists = &cobra.Command{
		Use:   "exists <vm> <guest path>",
		Short: "check whether a guest file or directory exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetBool("dir")
			return withGuest(cmd, args[0], "exists", func(s *session, id types.VMID, creds types.GuestCredentials, d guestFiles) error {
				check := d.FileExistsInGuest
				if dir {
					check = d.DirectoryExistsInGuest
				}
				ok, err := check(s.ctx, id, creds, types.GuestPath(args[1]))
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{"path": args[1], "exists": ok})
				}
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				return nil
			})
		},
	}
	cmdExists.Flags().Bool("dir", false, "check for a directory instead of a file")
	return cmdExists
}

func guestTypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "type <vm> <text>",
		Short: "type text on the guest keyboard",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGuest(cmd, args[0], "type keystrokes", func(s *session, id types.VMID, creds types.GuestCredentials, d guestConsole) error {
				return s.do(func() error {
					return d.TypeKeystrokesInGuest(s.ctx, id, creds, args[1])
				}, "Typing on %s", args[0])
			})
		},
	}
}

func guestScreenshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "screenshot <vm> <host png>",
		Short: "save the guest console as a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := filepath.Abs(args[1])
			if err != nil {
				return errors.Wrap(err, "host path")
			}
			return withGuest(cmd, args[0], "capture screen", func(s *session, id types.VMID, creds types.GuestCredentials, d guestConsole) error {
				return s.do(func() error {
					return d.CaptureScreen(s.ctx, id, creds, types.HostPath(host))
				}, "Capturing %s", args[0])
			})
		},
	}
}
