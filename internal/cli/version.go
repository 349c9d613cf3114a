package cli

import (
	"fmt"

	"github.com/HendryAvila/phaseplan/internal/server"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the phaseplan version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "phaseplan v%s\n", server.Version)
		},
	}
}
