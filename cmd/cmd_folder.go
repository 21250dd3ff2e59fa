package cmd

import (
	"context"
	"path/filepath"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/vmrest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// FolderCommands provides shared folder commands
func FolderCommands() *cobra.Command {
	var cmdFolder = &cobra.Command{
		Use:   "folder",
		Short: "share host directories with a guest",
	}

	cmdFolder.AddCommand(folderListCommand())
	cmdFolder.AddCommand(folderAddCommand())
	cmdFolder.AddCommand(folderRemoveCommand())
	cmdFolder.AddCommand(folderSwitchCommand("enable", "turn folder sharing on", "Enabling shared folders on %s", folderSharer.EnableSharedFolders))
	cmdFolder.AddCommand(folderSwitchCommand("disable", "turn folder sharing off", "Disabling shared folders on %s", folderSharer.DisableSharedFolders))

	return cmdFolder
}

func folderListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <vm>",
		Short: "list shared folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[folderMounter](s, "list shared folders")
				if err != nil {
					return err
				}
				folders, err := d.SharedFolders(s.ctx, id)
				if err != nil {
					return err
				}
				return printFolders(cmd, s, folders)
			})
		},
	}
}

func printFolders(cmd *cobra.Command, s *session, folders []vmrest.SharedFolder) error {
	if s.json() {
		return printJSON(cmd.OutOrStdout(), folders)
	}
	table := newTable(cmd.OutOrStdout(), "ID", "Host path", "Access")
	for _, f := range folders {
		access := "read-write"
		if f.ReadOnly {
			access = "read-only"
		}
		table.Append([]string{f.ID, f.HostPath, access})
	}
	table.Render()
	return nil
}

func folderAddCommand() *cobra.Command {
	var cmdFolderAdd = &cobra.Command{
		Use:   "add <vm> <name> <host path>",
		Short: "share a host directory with the guest",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			readOnly, _ := cmd.Flags().GetBool("read-only")
			host, err := filepath.Abs(args[2])
			if err != nil {
				return errors.Wrap(err, "host path")
			}

			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				switch d := s.backend().(type) {
				case folderMounter:
					folders, err := d.MountSharedFolder(s.ctx, id, vmrest.SharedFolder{ID: args[1], HostPath: host, ReadOnly: readOnly})
					if err != nil {
						return err
					}
					return printFolders(cmd, s, folders)
				case folderSharer:
					return s.do(func() error {
						if err := d.AddSharedFolder(s.ctx, id, args[1], types.HostPath(host)); err != nil {
							return err
						}
						if !readOnly {
							return nil
						}
						return d.SetSharedFolderState(s.ctx, id, args[1], types.HostPath(host), false)
					}, "Sharing %s as %s", host, args[1])
				}
				return vmerr.Unsupported(string(s.Backend()), "add shared folder")
			})
		},
	}
	cmdFolderAdd.Flags().Bool("read-only", false, "keep the guest from writing to the folder")
	return cmdFolderAdd
}

func folderRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <vm> <name>",
		Short: "stop sharing a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				switch d := s.backend().(type) {
				case folderMounter:
					return s.do(func() error {
						return d.DeleteSharedFolder(s.ctx, id, args[1])
					}, "Removing shared folder %s", args[1])
				case folderSharer:
					return s.do(func() error {
						return d.RemoveSharedFolder(s.ctx, id, args[1])
					}, "Removing shared folder %s", args[1])
				}
				return vmerr.Unsupported(string(s.Backend()), "remove shared folder")
			})
		},
	}
}

func folderSwitchCommand(use, short, msg string, op func(folderSharer, context.Context, types.VMID, bool) error) *cobra.Command {
	var cmdSwitch = &cobra.Command{
		Use:   use + " <vm>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runtimeOnly, _ := cmd.Flags().GetBool("runtime")
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[folderSharer](s, use+" shared folders")
				if err != nil {
					return err
				}
				return s.do(func() error {
					return op(d, s.ctx, id, runtimeOnly)
				}, msg, args[0])
			})
		},
	}
	cmdSwitch.Flags().Bool("runtime", false, "apply to the running VM only, leave the .vmx unchanged")
	return cmdSwitch
}
