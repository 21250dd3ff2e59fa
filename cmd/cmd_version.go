package cmd

import (
	"fmt"

	"github.com/nanovms/hvctl/constants"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/spf13/cobra"
)

// VersionCommand provides version command
func VersionCommand() *cobra.Command {
	var cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Version",
		Args:  cobra.NoArgs,
		RunE:  printVersion,
	}
	return cmdVersion
}

func printVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "hvctl version: %s\n", constants.Version)

	c, err := getCommandConfig(cmd)
	if err != nil || c.Backend == "" {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	v, err := s.Version(s.ctx)
	if vmerr.KindOf(err) == vmerr.UnsupportedOperation {
		v, err = "unknown", nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", s.Backend(), v)
	return nil
}
