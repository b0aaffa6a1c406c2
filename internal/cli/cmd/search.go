package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stormozov/vkdisk/internal/cli"
)

func NewSearchCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "search [owner-id]",
		Short: "Search a profile's photos and send selected ones to the cloud",
		Long: `Search opens an interactive session: fetch the profile photos of a
numeric owner id, select the ones to keep, preview them and send the
selection to the cloud storage.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID := ""
			if len(args) == 1 {
				ownerID = args[0]
			}
			return cli.NewSearchSession(a).Run(cmd.Context(), ownerID)
		},
	}
}
