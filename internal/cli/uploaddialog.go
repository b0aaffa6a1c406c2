package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"github.com/stormozov/vkdisk/internal/cli/mvu"
	"github.com/stormozov/vkdisk/internal/uploader"
	"github.com/stormozov/vkdisk/internal/vk"
)

// Upload dialog actions.
const (
	uploadActionSendAll = "Send all"
	uploadActionSendOne = "Send one"
	uploadActionEdit    = "Edit destination paths"
	uploadActionStamp   = "Stamp paths with timestamp names"
	uploadActionClose   = "Close"
)

// UploadDialog walks the user through naming and sending the selected
// images. It stays open until every image is sent or the user closes it,
// so failed rows can be retried in place.
type UploadDialog struct {
	app   *App
	batch *uploader.Batch
}

func NewUploadDialog(a *App, images []vk.ImageDescriptor) *UploadDialog {
	return &UploadDialog{app: a, batch: uploader.NewBatch(a.Disk, images)}
}

func (d *UploadDialog) Run(ctx context.Context) {
	d.batch.Open()

	for d.batch.IsOpen() {
		d.renderRows()

		var choice string
		prompt := &survey.Select{
			Message: "Upload:",
			Options: []string{uploadActionSendAll, uploadActionSendOne, uploadActionEdit, uploadActionStamp, uploadActionClose},
		}
		if err := survey.AskOne(prompt, &choice); err != nil {
			d.batch.Close()
			return
		}

		switch choice {
		case uploadActionSendAll:
			d.sendAll(ctx)
		case uploadActionSendOne:
			d.sendOne(ctx)
		case uploadActionEdit:
			d.editPaths()
		case uploadActionStamp:
			d.batch.StampNames(time.Now())
		case uploadActionClose:
			d.batch.Close()
		}
	}
}

func (d *UploadDialog) renderRows() {
	for i, row := range d.batch.Rows() {
		path := row.Path
		if path == "" {
			path = "(no name)"
		}
		line := fmt.Sprintf("%2d. %-30s  %s", i+1, path, row.SourceURL)
		if row.Status == uploader.Failed {
			color.Red("%s  [failed: %v]", line, row.Err)
			continue
		}
		fmt.Println(line)
	}
}

// editPaths asks for a destination name per remaining row.
func (d *UploadDialog) editPaths() {
	for _, row := range d.batch.Rows() {
		var path string
		prompt := &survey.Input{
			Message: fmt.Sprintf("Name for %s:", row.SourceURL),
			Default: row.Path,
		}
		if err := survey.AskOne(prompt, &path); err != nil {
			return
		}
		d.batch.SetPath(row, path)
	}
}

func (d *UploadDialog) sendOne(ctx context.Context) {
	rows := d.batch.Rows()
	options := make([]string, len(rows))
	byLabel := make(map[string]*uploader.Row, len(rows))
	for i, row := range rows {
		options[i] = fmt.Sprintf("%d. %s", i+1, row.SourceURL)
		byLabel[options[i]] = row
	}

	var label string
	if err := survey.AskOne(&survey.Select{Message: "Send:", Options: options, PageSize: 15}, &label); err != nil {
		return
	}

	err := mvu.Run("Uploading image...", func() error {
		return d.batch.Submit(ctx, byLabel[label])
	})
	switch {
	case errors.Is(err, uploader.ErrEmptyPath):
		color.Red("The destination name is empty, nothing was sent.")
	case err != nil:
		color.Red("Upload failed: %v", err)
	default:
		color.Green("Uploaded.")
	}
	d.closeIfDone()
}

// sendAll submits every remaining row concurrently and reports the
// aggregate after all of them settle.
func (d *UploadDialog) sendAll(ctx context.Context) {
	err := mvu.Run("Uploading selection...", func() error {
		return d.batch.SubmitAll(ctx)
	})
	if err != nil {
		color.Red("%v", err)
	}
	d.closeIfDone()
}

func (d *UploadDialog) closeIfDone() {
	if !d.batch.Empty() {
		return
	}
	d.batch.Close()
	color.Green("All selected images were sent to the cloud.")
}
