package cmd

import (
	"fmt"
	"strconv"

	"github.com/nanovms/hvctl/driver"
	"github.com/spf13/cobra"
)

// SnapshotCommands provides snapshot related commands
func SnapshotCommands() *cobra.Command {
	var cmdSnapshot = &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "manage VM snapshots",
	}

	cmdSnapshot.AddCommand(snapshotListCommand())
	cmdSnapshot.AddCommand(snapshotTakeCommand())
	cmdSnapshot.AddCommand(snapshotRevertCommand())
	cmdSnapshot.AddCommand(snapshotDeleteCommand())

	return cmdSnapshot
}

func snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <vm>",
		Short: "list the snapshots of a VM",
		Args:  cobra.ExactArgs(1),
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
			snaps, err := s.ListSnapshots(s.ctx, id)
			if err != nil {
				return err
			}

			if s.json() {
				return printJSON(cmd.OutOrStdout(), snaps)
			}

			table := newTable(cmd.OutOrStdout(), "ID", "Name", "Current", "Description")
			for _, snap := range snaps {
				current := ""
				if snap.Current {
					current = strconv.FormatBool(snap.Current)
				}
				table.Append([]string{string(snap.ID), snap.Name, current, snap.Description})
			}
			table.Render()
			return nil
		},
	}
}

func snapshotTakeCommand() *cobra.Command {
	var cmdSnapshotTake = &cobra.Command{
		Use:   "take <vm> <name>",
		Short: "take a snapshot",
		Args:  cobra.ExactArgs(2),
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
			description, _ := cmd.Flags().GetString("description")

			snap, err := s.TakeSnapshot(s.ctx, id, args[1], description)
			if err != nil {
				return err
			}
			if s.json() {
				return printJSON(cmd.OutOrStdout(), map[string]string{"vm": string(id), "id": string(snap), "name": args[1]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmdSnapshotTake.Flags().StringP("description", "d", "", "snapshot description")
	return cmdSnapshotTake
}

func snapshotRevertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <vm> <snapshot>",
		Short: "restore a VM to a snapshot",
		Args:  cobra.ExactArgs(2),
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
			snap, err := driver.FindSnapshot(s.ctx, s, id, args[1])
			if err != nil {
				return err
			}
			if err := s.confirm("Revert %s to %q? The current state is lost.", args[0], snap.Name); err != nil {
				return err
			}
			return s.do(func() error {
				return s.RevertSnapshot(s.ctx, id, snap.ID)
			}, "Reverting %s to %s", args[0], snap.Name)
		},
	}
}

func snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vm> <snapshot>",
		Short: "delete a snapshot",
		Args:  cobra.ExactArgs(2),
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
			snap, err := driver.FindSnapshot(s.ctx, s, id, args[1])
			if err != nil {
				return err
			}
			if err := s.confirm("Delete snapshot %q of %s?", snap.Name, args[0]); err != nil {
				return err
			}
			return s.do(func() error {
				return s.DeleteSnapshot(s.ctx, id, snap.ID)
			}, "Deleting snapshot %s", snap.Name)
		},
	}
}
