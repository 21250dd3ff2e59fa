package cmd

import (
	"context"
	"os"

	"github.com/nanovms/hvctl/log"
	"github.com/spf13/cobra"
)

// GetRootCommand provides set all commands for hvctl
func GetRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "hvctl",
		Short:         "control VirtualBox, VMware and Hyper-V virtual machines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := getCommandConfig(cmd)
			if err != nil {
				return err
			}
			log.InitDefault(cmd.ErrOrStderr(), config)
			return nil
		},
	}

	// persist flags transversal to every command
	PersistConfigCommandFlags(rootCmd.PersistentFlags())
	PersistBackendCommandFlags(rootCmd.PersistentFlags())
	PersistGlobalCommandFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(VMCommands())
	rootCmd.AddCommand(SnapshotCommands())
	rootCmd.AddCommand(GuestCommands())
	rootCmd.AddCommand(NICCommands())
	rootCmd.AddCommand(FolderCommands())
	rootCmd.AddCommand(VersionCommand())

	return rootCmd
}

// Execute runs hvctl and exits with a status that reflects the kind of
// failure
func Execute(ctx context.Context) {
	rootCmd := GetRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}
	debug, _ := rootCmd.PersistentFlags().GetBool("show-debug")
	PrintError(os.Stderr, err, debug)
	os.Exit(ExitCode(err))
}
