package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/tnav/internal/theme"
)

// NewThemesCommand creates the themes command.
func NewThemesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "themes",
		Short:         "List available color themes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := theme.List()
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
