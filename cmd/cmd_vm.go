package cmd

import (
	"context"
	"fmt"

	"github.com/nanovms/hvctl/types"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// VMCommands provides virtual machine related commands
func VMCommands() *cobra.Command {
	var cmdVM = &cobra.Command{
		Use:   "vm",
		Short: "manage virtual machines",
	}

	cmdVM.AddCommand(vmListCommand())
	cmdVM.AddCommand(vmStateCommand())
	cmdVM.AddCommand(vmStartCommand())
	cmdVM.AddCommand(vmStopCommand())
	cmdVM.AddCommand(vmPowerCommand("pause", "freeze a running VM", "Pausing", (*session).Pause))
	cmdVM.AddCommand(vmPowerCommand("resume", "continue a paused or suspended VM", "Resuming", (*session).Resume))
	cmdVM.AddCommand(vmPowerCommand("suspend", "save the state of a VM to disk", "Suspending", (*session).Suspend))
	cmdVM.AddCommand(vmResetCommand())
	cmdVM.AddCommand(vmIPCommand())
	cmdVM.AddCommand(vmInfoCommand())
	cmdVM.AddCommand(vmKeyboardCommand())
	cmdVM.AddCommand(vmDeleteCommand())
	cmdVM.AddCommand(vmToolsCommands())
	cmdVM.AddCommand(vmVarCommands())

	return cmdVM
}

type vmListEntry struct {
	types.VM
	State *types.VMState `json:"state,omitempty"`
}

func vmListCommand() *cobra.Command {
	var cmdVMList = &cobra.Command{
		Use:   "list",
		Short: "list virtual machines",
		Args:  cobra.NoArgs,
		RunE:  vmListCommandHandler,
	}
	cmdVMList.Flags().BoolP("state", "s", false, "query the state of every VM")
	return cmdVMList
}

func vmListCommandHandler(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	vms, err := s.ListVMs(s.ctx)
	if err != nil {
		return err
	}

	withState, _ := cmd.Flags().GetBool("state")
	entries := make([]vmListEntry, len(vms))
	var bar *progressbar.ProgressBar
	if withState && !s.json() && len(vms) > 1 {
		bar = progressbar.NewOptions(len(vms),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("querying state"),
			progressbar.OptionClearOnFinish())
	}
	for i, vm := range vms {
		entries[i].VM = vm
		if !withState {
			continue
		}
		state, err := s.State(s.ctx, vm.ID)
		if err != nil {
			return err
		}
		entries[i].State = &state
		if bar != nil {
			bar.Add(1)
		}
	}

	if s.json() {
		return printJSON(cmd.OutOrStdout(), entries)
	}

	header := []string{"ID", "Name"}
	if withState {
		header = append(header, "State")
	}
	table := newTable(cmd.OutOrStdout(), header...)
	for _, e := range entries {
		row := []string{string(e.ID), e.Name}
		if e.State != nil {
			row = append(row, colorState(*e.State))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func vmStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state <vm>",
		Short: "show the power state of a VM",
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
			state, err := s.State(s.ctx, id)
			if err != nil {
				return err
			}
			if s.json() {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{"id": id, "state": state})
			}
			fmt.Fprintln(cmd.OutOrStdout(), colorState(state))
			return nil
		},
	}
}

func vmStartCommand() *cobra.Command {
	var cmdVMStart = &cobra.Command{
		Use:   "start <vm>",
		Short: "power on a VM",
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
			mode := types.Headless
			if gui, _ := cmd.Flags().GetBool("gui"); gui {
				mode = types.GUI
			}
			return s.do(func() error {
				return s.Start(s.ctx, id, mode)
			}, "Starting %s", args[0])
		},
	}
	cmdVMStart.Flags().Bool("gui", false, "open a console window")
	return cmdVMStart
}

func vmStopCommand() *cobra.Command {
	var cmdVMStop = &cobra.Command{
		Use:   "stop <vm>",
		Short: "shut down a VM",
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
			mode := types.Soft
			if hard, _ := cmd.Flags().GetBool("hard"); hard {
				mode = types.Hard
				if err := s.confirm("Power off %s without a guest shutdown?", args[0]); err != nil {
					return err
				}
			}
			return s.do(func() error {
				return s.Stop(s.ctx, id, mode)
			}, "Stopping %s", args[0])
		},
	}
	cmdVMStop.Flags().Bool("hard", false, "cut the power instead of shutting the guest down")
	return cmdVMStop
}

func vmResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <vm>",
		Short: "hard reset a VM",
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
			if err := s.confirm("Reset %s? Unsaved guest data is lost.", args[0]); err != nil {
				return err
			}
			return s.do(func() error {
				return s.Reset(s.ctx, id)
			}, "Resetting %s", args[0])
		},
	}
}

func vmPowerCommand(use, short, verb string, op func(*session, context.Context, types.VMID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <vm>",
		Short: short,
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
			return s.do(func() error {
				return op(s, s.ctx, id)
			}, "%s %s", verb, args[0])
		},
	}
}

func vmIPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ip <vm>",
		Short: "show the IP address of a running guest",
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
			ip, err := s.GuestIP(s.ctx, id)
			if err != nil {
				return err
			}
			if s.json() {
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": string(id), "ip": ip})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ip)
			return nil
		},
	}
}
