package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stormozov/vkdisk/internal/cli"
)

func NewAuthCommand(a *cli.App) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Store the API credentials",
	}
	authCmd.AddCommand(newAuthVKCommand(a))
	authCmd.AddCommand(newAuthDiskCommand(a))
	authCmd.AddCommand(newAuthStatusCommand(a))
	authCmd.AddCommand(newAuthResetCommand(a))
	return authCmd
}

// newAuthVKCommand stores the VK access token. The token is short-lived
// on the VK side, so the stored copy expires after an hour.
func newAuthVKCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "vk",
		Short: "Store a VK access token (kept for one hour)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.MaybeShowStorageNotice()

			var token string
			prompt := &survey.Password{Message: "Enter your VK access token:"}
			if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
				return err
			}

			if err := a.Store.SetWithTTL(cli.VKTokenKey, token, cli.VKTokenTTL); err != nil {
				return err
			}
			color.Green("VK token stored for one hour.")
			return nil
		},
	}
}

func newAuthDiskCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "disk",
		Short: "Store or replace the cloud storage OAuth token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.MaybeShowStorageNotice()

			var token string
			prompt := &survey.Password{Message: "Enter your cloud storage OAuth token:"}
			if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
				return err
			}

			if err := a.Store.Set(cli.DiskTokenKey, token); err != nil {
				return err
			}
			color.Green("Cloud storage token stored.")
			return nil
		},
	}
}

func newAuthStatusCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			printTokenStatus(a, "VK token", cli.VKTokenKey)
			printTokenStatus(a, "Cloud storage token", cli.DiskTokenKey)
			return nil
		},
	}
}

func printTokenStatus(a *cli.App, name, key string) {
	_, found, err := a.Store.Get(key)
	switch {
	case err != nil:
		color.Red("%s: %v", name, err)
	case found:
		color.Green("%s: stored", name)
	default:
		color.Yellow("%s: not stored", name)
	}
}

func newAuthResetCommand(a *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove all stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Store.Remove(cli.VKTokenKey); err != nil {
				return err
			}
			if err := a.Store.Remove(cli.DiskTokenKey); err != nil {
				return err
			}
			color.Green("Stored credentials removed.")
			return nil
		},
	}
}
