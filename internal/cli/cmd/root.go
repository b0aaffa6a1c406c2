// the root command is the entrypoint for the vkdisk cli
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stormozov/vkdisk/internal/cli"
)

// NewRootCommand creates a new root command
func NewRootCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Run: func(cmd *cobra.Command, args []string) {
			a.MaybeShowStorageNotice()

			color.Green("vkdisk %s", a.Build.BuildVersion)
			fmt.Println("Back up profile photos from VK to Yandex Disk.")
			fmt.Println()
			fmt.Println("Use \"vkdisk --help\" for more information about a command.")
		},
	}
}
