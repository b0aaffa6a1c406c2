package cli

import (
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"github.com/stormozov/vkdisk/pkg/logger"
)

// consentTTL keeps the acknowledgment for five days, after which the
// notice shows again.
const consentTTL = 5 * 24 * time.Hour

// MaybeShowStorageNotice tells the user once that tokens are kept on
// disk. The acknowledgment expires, so the notice periodically returns.
// Declining only skips the acknowledgment; nothing is blocked.
func (a *App) MaybeShowStorageNotice() {
	_, found, err := a.Store.Get(ConsentKey)
	if err != nil {
		logger.Debug("Failed to read consent acknowledgment", "error", err)
		return
	}
	if found {
		return
	}

	color.Yellow("vkdisk stores your access tokens in %s so you are not asked on every run.", a.Config.General.StorageDir)

	var accepted bool
	prompt := &survey.Confirm{Message: "Got it?", Default: true}
	if err := survey.AskOne(prompt, &accepted); err != nil || !accepted {
		return
	}

	if err := a.Store.SetWithTTL(ConsentKey, "accepted", consentTTL); err != nil {
		logger.Debug("Failed to store consent acknowledgment", "error", err)
	}
}
