package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormozov/vkdisk/internal/vk"
)

func img(id int64) vk.ImageDescriptor {
	return vk.ImageDescriptor{ID: id, URL: "https://img/" + string(rune('a'+id)), Width: 100, Height: 100}
}

func ids(images []vk.ImageDescriptor) []int64 {
	var out []int64
	for _, image := range images {
		out = append(out, image.ID)
	}
	return out
}

func TestAdd_UnionWithoutDuplicates(t *testing.T) {
	g := New()

	first, err := g.Add([]vk.ImageDescriptor{img(1), img(2), img(3)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(first))

	// Overlapping batch: only the new identifiers are rendered
	second, err := g.Add([]vk.ImageDescriptor{img(2), img(3), img(4)})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(second))

	// Displayed set equals the identifier union, each exactly once
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(g.Images()))
}

func TestAdd_NoNewImages(t *testing.T) {
	g := New()

	_, err := g.Add([]vk.ImageDescriptor{img(1)})
	require.NoError(t, err)

	_, err = g.Add([]vk.ImageDescriptor{img(1)})
	assert.ErrorIs(t, err, ErrNoNewImages)
	assert.Equal(t, 1, g.Len())
}

func TestAdd_DuplicatesWithinOneBatch(t *testing.T) {
	g := New()

	rendered, err := g.Add([]vk.ImageDescriptor{img(1), img(1), img(2)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(rendered))
}

func TestReplace_ExactSetRegardlessOfPriorState(t *testing.T) {
	g := New()

	_, err := g.Add([]vk.ImageDescriptor{img(1), img(2), img(3)})
	require.NoError(t, err)
	g.ToggleSelect(1)
	g.Preview(2)

	rendered := g.Replace([]vk.ImageDescriptor{img(3), img(4)})
	assert.Equal(t, []int64{3, 4}, ids(rendered))
	assert.Equal(t, []int64{3, 4}, ids(g.Images()))

	// Selection and preview are cleared along with the rendered elements
	assert.False(t, g.CanSend())
	_, ok := g.PreviewImage()
	assert.False(t, ok)
}

func TestToggleSelect(t *testing.T) {
	g := New()
	_, err := g.Add([]vk.ImageDescriptor{img(1), img(2)})
	require.NoError(t, err)

	assert.True(t, g.ToggleSelect(1))
	assert.True(t, g.IsSelected(1))

	// No exclusivity: several images selected at once
	assert.True(t, g.ToggleSelect(2))
	assert.True(t, g.IsSelected(1))
	assert.True(t, g.IsSelected(2))

	// Toggle off
	assert.False(t, g.ToggleSelect(1))
	assert.False(t, g.IsSelected(1))

	// Unknown identifier stays unselected
	assert.False(t, g.ToggleSelect(99))
}

func TestToggleAll(t *testing.T) {
	g := New()
	_, err := g.Add([]vk.ImageDescriptor{img(1), img(2), img(3)})
	require.NoError(t, err)

	// Nothing selected: a press selects all
	assert.Equal(t, LabelSelectAll, g.SelectAllLabel())
	assert.True(t, g.ToggleAll())
	assert.Len(t, g.Selected(), 3)
	assert.Equal(t, LabelClearSelection, g.SelectAllLabel())

	// Anything selected (even partially): a press clears all
	assert.False(t, g.ToggleAll())
	assert.Empty(t, g.Selected())

	g.ToggleSelect(2)
	assert.False(t, g.ToggleAll(), "partial selection clears rather than extends")
	assert.Empty(t, g.Selected())
}

func TestCanSend(t *testing.T) {
	g := New()
	_, err := g.Add([]vk.ImageDescriptor{img(1)})
	require.NoError(t, err)

	assert.False(t, g.CanSend())
	g.ToggleSelect(1)
	assert.True(t, g.CanSend())
	g.ToggleSelect(1)
	assert.False(t, g.CanSend())
}

func TestSelectedKeepsDisplayOrder(t *testing.T) {
	g := New()
	_, err := g.Add([]vk.ImageDescriptor{img(3), img(1), img(2)})
	require.NoError(t, err)

	g.ToggleSelect(2)
	g.ToggleSelect(3)

	assert.Equal(t, []int64{3, 2}, ids(g.Selected()))
}

func TestSetSelection(t *testing.T) {
	g := New()
	_, err := g.Add([]vk.ImageDescriptor{img(1), img(2)})
	require.NoError(t, err)

	g.ToggleSelect(1)
	g.SetSelection([]int64{2, 42}) // 42 is not displayed

	assert.False(t, g.IsSelected(1))
	assert.True(t, g.IsSelected(2))
	assert.False(t, g.IsSelected(42))
}

func TestPreview_ReplacesPrior(t *testing.T) {
	g := New()
	_, err := g.Add([]vk.ImageDescriptor{img(1), img(2)})
	require.NoError(t, err)

	_, ok := g.PreviewImage()
	assert.False(t, ok)

	shown, ok := g.Preview(1)
	require.True(t, ok)
	assert.Equal(t, int64(1), shown.ID)

	_, ok = g.Preview(2)
	require.True(t, ok)

	current, ok := g.PreviewImage()
	require.True(t, ok)
	assert.Equal(t, int64(2), current.ID)

	_, ok = g.Preview(99)
	assert.False(t, ok)
}
