package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stormozov/vkdisk/internal/cli"
	"github.com/stormozov/vkdisk/internal/cli/cmd"
	"github.com/stormozov/vkdisk/internal/common"

	_ "github.com/joho/godotenv/autoload"
)

var rootCmd = &cobra.Command{Use: "vkdisk"}

func InitializeCommands(a *cli.App) {
	rootCmd.AddCommand(cmd.NewRootCommand(a))
	rootCmd.AddCommand(cmd.NewSearchCommand(a))
	rootCmd.AddCommand(cmd.NewBrowseCommand(a))
	rootCmd.AddCommand(cmd.NewAuthCommand(a))
	rootCmd.AddCommand(cmd.NewVersionCommand(a))
}

func Execute(a *cli.App) {
	InitializeCommands(a)
	cobra.CheckErr(rootCmd.Execute())
}

func ExecuteCLI(build, commit, date string) {
	if build == "" {
		build = "dev"
	}
	buildInfo := &common.BuildConfig{
		BuildVersion: build,
		BuildCommit:  commit,
		BuildDate:    date,
	}

	a, err := cli.NewApp(buildInfo)
	if err != nil {
		fmt.Println("Error initializing app:", err)
		os.Exit(1)
	}
	defer a.Close()

	Execute(a)
}
