package cmd

import (
	"fmt"
	"strconv"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmrest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NICCommands provides network adapter commands
func NICCommands() *cobra.Command {
	var cmdNIC = &cobra.Command{
		Use:   "nic",
		Short: "manage the network adapters of a VM",
	}

	cmdNIC.AddCommand(nicListCommand())
	cmdNIC.AddCommand(nicAddCommand())
	cmdNIC.AddCommand(nicUpdateCommand())
	cmdNIC.AddCommand(nicDeleteCommand())

	return cmdNIC
}

func nicListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <vm>",
		Short: "list network adapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[nicManager](s, "list nics")
				if err != nil {
					return err
				}
				nics, err := d.NICs(s.ctx, id)
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), nics)
				}
				table := newTable(cmd.OutOrStdout(), "Index", "Type", "VMnet", "MAC")
				for _, n := range nics {
					table.Append([]string{strconv.Itoa(n.Index), n.Type, n.VMnet, n.MAC})
				}
				table.Render()
				return nil
			})
		},
	}
}

func nicTypeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", string(vmrest.NICNAT), "nat, bridged, hostOnly or custom")
	cmd.Flags().String("vmnet", "", "virtual network of a custom adapter, e.g. vmnet2")
}

func nicType(cmd *cobra.Command) (vmrest.NICType, string, error) {
	typ, _ := cmd.Flags().GetString("type")
	vmnet, _ := cmd.Flags().GetString("vmnet")
	switch t := vmrest.NICType(typ); t {
	case vmrest.NICNAT, vmrest.NICBridged, vmrest.NICHostOnly:
		return t, "", nil
	case vmrest.NICCustom:
		if vmnet == "" {
			return "", "", errors.New("a custom adapter needs --vmnet")
		}
		return t, vmnet, nil
	}
	return "", "", errors.Errorf("unknown adapter type %q", typ)
}

func nicAddCommand() *cobra.Command {
	var cmdNICAdd = &cobra.Command{
		Use:   "add <vm>",
		Short: "add a network adapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, vmnet, err := nicType(cmd)
			if err != nil {
				return err
			}
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[nicManager](s, "add nic")
				if err != nil {
					return err
				}
				nic, err := d.AddNIC(s.ctx, id, typ, vmnet)
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), nic)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added nic %d (%s)\n", nic.Index, nic.Type)
				return nil
			})
		},
	}
	nicTypeFlags(cmdNICAdd)
	return cmdNICAdd
}

func nicIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 1 {
		return 0, errors.Errorf("invalid adapter index %q", arg)
	}
	return index, nil
}

func nicUpdateCommand() *cobra.Command {
	var cmdNICUpdate = &cobra.Command{
		Use:   "update <vm> <index>",
		Short: "change the network of an adapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := nicIndex(args[1])
			if err != nil {
				return err
			}
			typ, vmnet, err := nicType(cmd)
			if err != nil {
				return err
			}
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[nicManager](s, "update nic")
				if err != nil {
					return err
				}
				return s.do(func() error {
					return d.UpdateNIC(s.ctx, id, index, typ, vmnet)
				}, "Updating nic %d of %s", index, args[0])
			})
		},
	}
	nicTypeFlags(cmdNICUpdate)
	return cmdNICUpdate
}

func nicDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vm> <index>",
		Short: "remove a network adapter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := nicIndex(args[1])
			if err != nil {
				return err
			}
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[nicManager](s, "delete nic")
				if err != nil {
					return err
				}
				if err := s.confirm("Remove nic %d from %s?", index, args[0]); err != nil {
					return err
				}
				return s.do(func() error {
					return d.DeleteNIC(s.ctx, id, index)
				}, "Removing nic %d from %s", index, args[0])
			})
		},
	}
}
