package cmd

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmrun"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func vmInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <vm>",
		Short: "show every setting the backend reports for a VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[vmInfoer](s, "info")
				if err != nil {
					return err
				}
				info, err := d.Info(s.ctx, id)
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), info)
				}
				keys := make([]string, 0, len(info))
				for k := range info {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				table := newTable(cmd.OutOrStdout(), "Key", "Value")
				for _, k := range keys {
					table.Append([]string{k, info[k]})
				}
				table.Render()
				return nil
			})
		},
	}
}

func vmKeyboardCommand() *cobra.Command {
	var cmdKeyboard = &cobra.Command{
		Use:   "keyboard <vm>",
		Short: "send keystrokes or raw scancodes to a running VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("string")
			scancodes, _ := cmd.Flags().GetString("scancode")
			if (text == "") == (scancodes == "") {
				return errors.New("give exactly one of --string and --scancode")
			}
			var codes []byte
			if scancodes != "" {
				var err error
				if codes, err = parseScancodes(scancodes); err != nil {
					return err
				}
			}

			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[keyboard](s, "keyboard")
				if err != nil {
					return err
				}
				return s.do(func() error {
					if codes != nil {
						return d.KeyboardPutScancode(s.ctx, id, codes)
					}
					return d.KeyboardPutString(s.ctx, id, text)
				}, "Typing on %s", args[0])
			})
		},
	}
	cmdKeyboard.Flags().String("string", "", "text to type")
	cmdKeyboard.Flags().String("scancode", "", "hex scancodes, e.g. \"1d 38 53\"")
	return cmdKeyboard
}

// parseScancodes reads space or comma separated hex bytes
func parseScancodes(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	codes := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(f), "0x"))
		if err != nil || len(b) != 1 {
			return nil, errors.Errorf("invalid scancode %q", f)
		}
		codes = append(codes, b[0])
	}
	return codes, nil
}

func vmDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vm>",
		Short: "delete a stopped VM and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[vmDeleter](s, "delete vm")
				if err != nil {
					return err
				}
				if err := s.confirm("Delete %s and all of its files?", args[0]); err != nil {
					return err
				}
				return s.do(func() error {
					return d.DeleteVM(s.ctx, id)
				}, "Deleting %s", args[0])
			})
		},
	}
}

func vmToolsCommands() *cobra.Command {
	var cmdTools = &cobra.Command{
		Use:   "tools",
		Short: "check or install VMware Tools",
	}
	cmdTools.AddCommand(&cobra.Command{
		Use:   "state <vm>",
		Short: "show whether VMware Tools are installed and running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[toolsManager](s, "tools state")
				if err != nil {
					return err
				}
				state, err := d.ToolsState(s.ctx, id)
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{"id": id, "tools": state})
				}
				fmt.Fprintln(cmd.OutOrStdout(), state)
				return nil
			})
		},
	})
	cmdTools.AddCommand(&cobra.Command{
		Use:   "install <vm>",
		Short: "mount the VMware Tools installer in a running guest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVM(cmd, args[0], func(s *session, id types.VMID) error {
				d, err := extra[toolsManager](s, "install tools")
				if err != nil {
					return err
				}
				return s.do(func() error {
					return d.InstallTools(s.ctx, id)
				}, "Installing tools on %s", args[0])
			})
		},
	})
	return cmdTools
}

func vmVarCommands() *cobra.Command {
	var cmdVar = &cobra.Command{
		Use:   "var",
		Short: "read and write VM, configuration and guest environment variables",
	}
	cmdVar.PersistentFlags().String("scope", string(vmrun.GuestVar), "guestVar, runtimeConfig or guestEnv")
	cmdVar.PersistentFlags().StringP("user", "u", "", "guest account, required for guestEnv")
	cmdVar.PersistentFlags().String("domain", "", "domain of the guest account")

	cmdVar.AddCommand(&cobra.Command{
		Use:   "get <vm> <name>",
		Short: "print the value of a variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVariables(cmd, args[0], "read variable", func(s *session, id types.VMID, creds types.GuestCredentials, scope vmrun.VarScope, d guestVariables) error {
				v, err := d.ReadVariable(s.ctx, id, creds, scope, args[1])
				if err != nil {
					return err
				}
				if s.json() {
					return printJSON(cmd.OutOrStdout(), map[string]string{"scope": string(scope), "name": args[1], "value": v})
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	})
	cmdVar.AddCommand(&cobra.Command{
		Use:   "set <vm> <name> <value>",
		Short: "set a variable",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withVariables(cmd, args[0], "write variable", func(s *session, id types.VMID, creds types.GuestCredentials, scope vmrun.VarScope, d guestVariables) error {
				return s.do(func() error {
					return d.WriteVariable(s.ctx, id, creds, scope, args[1], args[2])
				}, "Setting %s", args[1])
			})
		},
	})
	return cmdVar
}

// withVariables resolves the scope flag and asks for guest credentials
// only when the scope needs a guest login
func withVariables(cmd *cobra.Command, ref, op string, work func(*session, types.VMID, types.GuestCredentials, vmrun.VarScope, guestVariables) error) error {
	flag, _ := cmd.Flags().GetString("scope")
	scope := vmrun.VarScope(flag)
	switch scope {
	case vmrun.GuestVar, vmrun.RuntimeConfig, vmrun.GuestEnv:
	default:
		return errors.Errorf("unknown variable scope %q", flag)
	}
	user, _ := cmd.Flags().GetString("user")
	if scope == vmrun.GuestEnv && user == "" {
		return errors.New("guestEnv needs --user")
	}

	return withVM(cmd, ref, func(s *session, id types.VMID) error {
		d, err := extra[guestVariables](s, op)
		if err != nil {
			return err
		}
		var creds types.GuestCredentials
		if scope == vmrun.GuestEnv {
			if creds, err = s.guestCredentials(); err != nil {
				return err
			}
		}
		return work(s, id, creds, scope, d)
	})
}
