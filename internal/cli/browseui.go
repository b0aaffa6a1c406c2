package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/stormozov/vkdisk/internal/browse"
	"github.com/stormozov/vkdisk/internal/cli/mvu"
)

// Browse actions.
const (
	browseActionDelete    = "Delete one"
	browseActionDeleteAll = "Delete all"
	browseActionDownload  = "Download one"
	browseActionClose     = "Close"
)

// RunBrowse lists the uploaded images and lets the user delete or
// download them. The listing closes itself when the last card is gone.
func RunBrowse(ctx context.Context, a *App) error {
	session := browse.NewSession(a.Disk)

	err := mvu.Run("Loading uploaded images...", func() error {
		return session.Open(ctx)
	})
	if err != nil {
		color.Red("Failed to load uploaded images: %v", err)
		return nil
	}
	if session.Len() == 0 {
		color.Yellow("No uploaded images yet.")
		session.Close()
		return nil
	}

	for session.IsOpen() {
		renderCards(session)

		var choice string
		if err := survey.AskOne(&survey.Select{Message: "Browse:", Options: browseOptions(session)}, &choice); err != nil {
			session.Close()
			return nil
		}

		switch choice {
		case browseActionDelete:
			deleteOne(ctx, session)
		case browseActionDeleteAll:
			deleteAll(ctx, session)
		case browseActionDownload:
			downloadOne(ctx, session, a.Config.General.DownloadDir)
		case browseActionClose:
			session.Close()
		}
	}
	return nil
}

// browseOptions hides the bulk deletion entry while fewer than two cards
// are shown.
func browseOptions(session *browse.Session) []string {
	options := []string{browseActionDelete}
	if session.CanDeleteAll() {
		options = append(options, browseActionDeleteAll)
	}
	return append(options, browseActionDownload, browseActionClose)
}

func renderCards(session *browse.Session) {
	for i, card := range session.Cards() {
		fmt.Printf("%2d. %s\n", i+1, cardLabel(card))
	}
}

func cardLabel(card *browse.Card) string {
	return fmt.Sprintf("%-40s  %s  %s",
		card.Record.Name,
		card.Record.Created.Format("02 Jan 2006 15:04"),
		humanize.Bytes(uint64(card.Record.Size)))
}

func pickCard(session *browse.Session, message string) (*browse.Card, bool) {
	cards := session.Cards()
	options := make([]string, len(cards))
	byLabel := make(map[string]*browse.Card, len(cards))
	for i, card := range cards {
		options[i] = fmt.Sprintf("%d. %s", i+1, card.Record.Name)
		byLabel[options[i]] = card
	}

	var label string
	if err := survey.AskOne(&survey.Select{Message: message, Options: options, PageSize: 15}, &label); err != nil {
		return nil, false
	}
	return byLabel[label], true
}

func deleteOne(ctx context.Context, session *browse.Session) {
	card, ok := pickCard(session, "Delete:")
	if !ok {
		return
	}
	_ = mvu.Run("Deleting image...", func() error {
		return session.Delete(ctx, card)
	})
}

func deleteAll(ctx context.Context, session *browse.Session) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Delete all %d uploaded images?", session.Len()),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil || !confirmed {
		return
	}

	err := mvu.Run("Deleting images...", func() error {
		return session.DeleteAll(ctx)
	})
	if err != nil {
		color.Red("%v", err)
	}
}

func downloadOne(ctx context.Context, session *browse.Session, dir string) {
	card, ok := pickCard(session, "Download:")
	if !ok {
		return
	}

	var saved string
	err := mvu.Run("Downloading image...", func() error {
		var err error
		saved, err = session.Download(ctx, card, dir)
		return err
	})
	if err != nil {
		color.Red("Download failed: %v", err)
		return
	}
	color.Green("Saved to %s", saved)
}
