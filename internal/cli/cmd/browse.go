package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stormozov/vkdisk/internal/cli"
)

func NewBrowseCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "List, delete and download the images uploaded to the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunBrowse(cmd.Context(), a)
		},
	}
}
