package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"github.com/stormozov/vkdisk/internal/cli/mvu"
	"github.com/stormozov/vkdisk/internal/gallery"
	"github.com/stormozov/vkdisk/internal/vk"
	"github.com/stormozov/vkdisk/pkg/logger"
)

// Search session actions.
const (
	actionSearchAdd     = "Search (add to shown images)"
	actionSearchReplace = "Search (replace shown images)"
	actionChoose        = "Choose selected images"
	actionPreview       = "Preview an image"
	actionSend          = "Send selection to the cloud"
	actionBrowse        = "Browse uploaded images"
	actionQuit          = "Quit"
)

// SearchSession is the interactive loop around the image gallery: search
// by profile id, select, preview and hand the selection to the upload
// dialog.
type SearchSession struct {
	app     *App
	gallery *gallery.Gallery
}

func NewSearchSession(a *App) *SearchSession {
	return &SearchSession{app: a, gallery: gallery.New()}
}

// Run drives the session. An ownerID given on the command line becomes
// the first search.
func (s *SearchSession) Run(ctx context.Context, ownerID string) error {
	s.app.MaybeShowStorageNotice()

	if ownerID != "" {
		s.fetch(ctx, ownerID, false)
	}

	for {
		choice, err := s.askAction()
		if err != nil {
			// Interrupt closes the session, nothing to clean up
			return nil
		}

		switch choice {
		case actionSearchAdd:
			s.fetch(ctx, s.askOwnerID(), false)
		case actionSearchReplace:
			s.fetch(ctx, s.askOwnerID(), true)
		case actionChoose:
			s.chooseImages()
		case s.gallery.SelectAllLabel():
			s.gallery.ToggleAll()
			s.renderSummary()
		case actionPreview:
			s.preview()
		case actionSend:
			s.send(ctx)
		case actionBrowse:
			if err := RunBrowse(ctx, s.app); err != nil {
				return err
			}
		case actionQuit:
			return nil
		}
	}
}

// askAction builds the menu from the current state: selection-dependent
// entries only appear when they can do something.
func (s *SearchSession) askAction() (string, error) {
	options := []string{actionSearchAdd, actionSearchReplace}
	if s.gallery.Len() > 0 {
		options = append(options, actionChoose, s.gallery.SelectAllLabel(), actionPreview)
	}
	if s.gallery.CanSend() {
		options = append(options, actionSend)
	}
	options = append(options, actionBrowse, actionQuit)

	var choice string
	err := survey.AskOne(&survey.Select{Message: "Action:", Options: options, PageSize: 10}, &choice)
	return choice, err
}

func (s *SearchSession) askOwnerID() string {
	var ownerID string
	prompt := &survey.Input{Message: "Profile owner id:"}
	if err := survey.AskOne(prompt, &ownerID); err != nil {
		return ""
	}
	return ownerID
}

// fetch validates the identifier, queries the photo API and renders the
// result through the gallery. Validation failures never reach the
// network.
func (s *SearchSession) fetch(ctx context.Context, ownerID string, replace bool) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return
	}
	if err := vk.ValidateOwnerID(ownerID); err != nil {
		color.Red("The identifier must be an integer (e.g. 123456).")
		return
	}

	var images []vk.ImageDescriptor
	err := mvu.Run("Fetching profile photos...", func() error {
		var err error
		images, err = s.app.VK.FetchImages(ctx, ownerID)
		return err
	})
	if err != nil {
		s.reportSearchError(err)
		return
	}

	if replace {
		s.renderImages(s.gallery.Replace(images))
		return
	}

	fresh, err := s.gallery.Add(images)
	if errors.Is(err, gallery.ErrNoNewImages) {
		color.Yellow("No new images to display.")
		return
	}
	s.renderImages(fresh)
}

func (s *SearchSession) reportSearchError(err error) {
	var remoteErr *vk.RemoteError
	switch {
	case errors.As(err, &remoteErr):
		color.Red(remoteErr.UserMessage())
	case errors.Is(err, vk.ErrInvalidResponse):
		color.Red("The photo service returned an unexpected response, try again later.")
		logger.Error("Photo search failed", "error", err)
	case errors.Is(err, vk.ErrNoToken):
		color.Red("%v", err)
	default:
		color.Red("Search failed: %v", err)
	}
}

func (s *SearchSession) renderImages(images []vk.ImageDescriptor) {
	for _, image := range images {
		marker := " "
		if s.gallery.IsSelected(image.ID) {
			marker = "*"
		}
		fmt.Printf(" %s %s\n", marker, imageLabel(image))
	}
	s.renderSummary()
}

func (s *SearchSession) renderSummary() {
	fmt.Printf("%d images shown, %d selected\n", s.gallery.Len(), len(s.gallery.Selected()))
}

// chooseImages edits the selection with a multi-select over the shown
// images. Several images may be selected at once.
func (s *SearchSession) chooseImages() {
	images := s.gallery.Images()
	options := make([]string, len(images))
	byLabel := make(map[string]int64, len(images))
	var defaults []string
	for i, image := range images {
		options[i] = imageLabel(image)
		byLabel[options[i]] = image.ID
		if s.gallery.IsSelected(image.ID) {
			defaults = append(defaults, options[i])
		}
	}

	var picked []string
	prompt := &survey.MultiSelect{
		Message: "Selected images:",
		Options: options,
		Default: defaults,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return
	}

	ids := make([]int64, 0, len(picked))
	for _, label := range picked {
		ids = append(ids, byLabel[label])
	}
	s.gallery.SetSelection(ids)
	s.renderSummary()
}

// preview projects one image into the preview slot and prints it.
func (s *SearchSession) preview() {
	images := s.gallery.Images()
	options := make([]string, len(images))
	byLabel := make(map[string]int64, len(images))
	for i, image := range images {
		options[i] = imageLabel(image)
		byLabel[options[i]] = image.ID
	}

	var label string
	if err := survey.AskOne(&survey.Select{Message: "Preview:", Options: options, PageSize: 15}, &label); err != nil {
		return
	}

	image, ok := s.gallery.Preview(byLabel[label])
	if !ok {
		return
	}
	color.Cyan("id %d, %dx%d\n%s", image.ID, image.Width, image.Height, image.URL)
}

// send opens the upload dialog over the current selection.
func (s *SearchSession) send(ctx context.Context) {
	if !s.gallery.CanSend() {
		color.Yellow("Select at least one image first.")
		return
	}
	NewUploadDialog(s.app, s.gallery.Selected()).Run(ctx)
}

func imageLabel(image vk.ImageDescriptor) string {
	return fmt.Sprintf("%d  %dx%d  %s", image.ID, image.Width, image.Height, image.URL)
}
