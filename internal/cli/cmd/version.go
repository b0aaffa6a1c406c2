package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stormozov/vkdisk/internal/cli"
)

func NewVersionCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version of vkdisk",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(a.Build.String())
		},
	}
}
