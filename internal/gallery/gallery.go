package gallery

import (
	"errors"

	"github.com/stormozov/vkdisk/internal/vk"
)

// ErrNoNewImages signals that every image of an Add batch was already
// displayed. Non-fatal; callers show a notice.
var ErrNoNewImages = errors.New("no new images to display")

// Labels for the select-all control, reflecting the state the control
// would produce.
const (
	LabelSelectAll      = "Select all"
	LabelClearSelection = "Clear selection"
)

// Gallery tracks the displayed image set, the multi-select state and the
// single-item preview slot. Every displayed identifier appears exactly
// once, in insertion order.
type Gallery struct {
	images    []vk.ImageDescriptor
	displayed map[int64]struct{}
	selected  map[int64]struct{}
	preview   *vk.ImageDescriptor
}

func New() *Gallery {
	return &Gallery{
		displayed: make(map[int64]struct{}),
		selected:  make(map[int64]struct{}),
	}
}

// Add unions the batch into the displayed set, skipping identifiers that
// are already shown, and returns only the newly displayed images. When
// nothing new remains it returns ErrNoNewImages.
func (g *Gallery) Add(images []vk.ImageDescriptor) ([]vk.ImageDescriptor, error) {
	var fresh []vk.ImageDescriptor
	for _, image := range images {
		if _, shown := g.displayed[image.ID]; shown {
			continue
		}
		g.displayed[image.ID] = struct{}{}
		g.images = append(g.images, image)
		fresh = append(fresh, image)
	}

	if len(fresh) == 0 {
		return nil, ErrNoNewImages
	}
	return fresh, nil
}

// Replace clears the displayed set, the selection and the preview slot,
// then renders the given batch from scratch.
func (g *Gallery) Replace(images []vk.ImageDescriptor) []vk.ImageDescriptor {
	g.images = nil
	g.displayed = make(map[int64]struct{})
	g.selected = make(map[int64]struct{})
	g.preview = nil

	rendered, err := g.Add(images)
	if err != nil {
		return nil
	}
	return rendered
}

// Images returns the displayed images in insertion order.
func (g *Gallery) Images() []vk.ImageDescriptor {
	return g.images
}

func (g *Gallery) Len() int {
	return len(g.images)
}

// ToggleSelect flips the selection marker of one image. Reports the
// resulting selected state; unknown identifiers stay unselected.
func (g *Gallery) ToggleSelect(id int64) bool {
	if _, shown := g.displayed[id]; !shown {
		return false
	}
	if _, on := g.selected[id]; on {
		delete(g.selected, id)
		return false
	}
	g.selected[id] = struct{}{}
	return true
}

// SetSelection replaces the selection with the given identifiers,
// ignoring any that are not displayed.
func (g *Gallery) SetSelection(ids []int64) {
	g.selected = make(map[int64]struct{})
	for _, id := range ids {
		if _, shown := g.displayed[id]; shown {
			g.selected[id] = struct{}{}
		}
	}
}

func (g *Gallery) IsSelected(id int64) bool {
	_, on := g.selected[id]
	return on
}

// Selected returns the selected images in display order.
func (g *Gallery) Selected() []vk.ImageDescriptor {
	var picked []vk.ImageDescriptor
	for _, image := range g.images {
		if g.IsSelected(image.ID) {
			picked = append(picked, image)
		}
	}
	return picked
}

// ToggleAll clears the selection when anything is selected, otherwise
// selects every displayed image. Reports whether anything is selected
// afterwards.
func (g *Gallery) ToggleAll() bool {
	if len(g.selected) > 0 {
		g.selected = make(map[int64]struct{})
		return false
	}
	for id := range g.displayed {
		g.selected[id] = struct{}{}
	}
	return len(g.selected) > 0
}

// SelectAllLabel is the label the select-all control should carry: it
// names the action a press would perform.
func (g *Gallery) SelectAllLabel() string {
	if len(g.selected) > 0 {
		return LabelClearSelection
	}
	return LabelSelectAll
}

// CanSend reports whether the send control is enabled: true iff at least
// one image is selected.
func (g *Gallery) CanSend() bool {
	return len(g.selected) > 0
}

// Preview projects one image into the single-item preview slot,
// replacing any prior preview.
func (g *Gallery) Preview(id int64) (vk.ImageDescriptor, bool) {
	for _, image := range g.images {
		if image.ID == id {
			g.preview = &image
			return image, true
		}
	}
	return vk.ImageDescriptor{}, false
}

// PreviewImage returns the current preview slot content, if any.
func (g *Gallery) PreviewImage() (vk.ImageDescriptor, bool) {
	if g.preview == nil {
		return vk.ImageDescriptor{}, false
	}
	return *g.preview, true
}
