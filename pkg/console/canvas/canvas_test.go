package canvas_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajay-verma30/Neil-admin-sub000/pkg/console/canvas"
)

type fakePersistence struct {
	saved   []canvas.Placement
	deleted []string
	nextID  int
}

func (f *fakePersistence) SavePlacement(_ context.Context, p canvas.Placement) (string, error) {
	f.saved = append(f.saved, p)
	if p.RemoteID != "" {
		return p.RemoteID, nil
	}
	f.nextID++
	return fmt.Sprintf("remote-%d", f.nextID), nil
}

func (f *fakePersistence) DeletePlacement(_ context.Context, remoteID string) error {
	f.deleted = append(f.deleted, remoteID)
	return nil
}

func testLogo() canvas.Logo {
	return canvas.Logo{LogoID: "logo-1", LogoVariantID: "logo-variant-1", Label: "Crest"}
}

func newTestCanvas() (*canvas.Canvas, *fakePersistence) {
	api := &fakePersistence{}
	return canvas.NewCanvas(api, "variant-1", "front"), api
}

func TestCreatePlacementDefaults(t *testing.T) {
	c, _ := newTestCanvas()

	p := c.CreatePlacement(testLogo())

	require.Equal(t, 50.0, p.XPercent)
	require.Equal(t, 50.0, p.YPercent)
	require.Equal(t, 20.0, p.WidthPercent)
	require.Equal(t, 20.0, p.HeightPercent)
	require.Equal(t, "front", p.Side)
	require.NotEmpty(t, p.LocalID)
	require.False(t, p.Persisted())

	selected, ok := c.Selected()
	require.True(t, ok)
	require.Equal(t, p.LocalID, selected.LocalID)
}

// percent -> pixel -> percent reproduces the original value for any canvas size.
func TestPercentPixelRoundTrip(t *testing.T) {
	bounds := []canvas.Bounds{
		{Width: 800, Height: 600},
		{Width: 1920, Height: 1080},
		{Width: 333, Height: 777},
	}
	percents := []float64{0, 12.5, 33.333, 50, 99.99, 100}

	for _, b := range bounds {
		for _, percent := range percents {
			px := canvas.PercentToPixel(percent, b.Width)
			require.InDelta(t, percent, canvas.PixelToPercent(px, b.Width), 1e-9)

			py := canvas.PercentToPixel(percent, b.Height)
			require.InDelta(t, percent, canvas.PixelToPercent(py, b.Height), 1e-9)
		}
	}
}

// Dragging by (80,60) pixels on an 800x600 canvas moves the placement by
// (10,10) percent.
func TestMovePlacementDragArithmetic(t *testing.T) {
	c, _ := newTestCanvas()
	p := c.CreatePlacement(testLogo())

	bounds := canvas.Bounds{Width: 800, Height: 600}
	require.NoError(t, c.MovePlacement(p.LocalID, 80, 60, bounds))

	require.InDelta(t, 60.0, p.XPercent, 1e-9)
	require.InDelta(t, 60.0, p.YPercent, 1e-9)
}

func TestMovePlacementClampsToCanvas(t *testing.T) {
	c, _ := newTestCanvas()
	p := c.CreatePlacement(testLogo())
	bounds := canvas.Bounds{Width: 800, Height: 600}

	require.NoError(t, c.MovePlacement(p.LocalID, 100000, 100000, bounds))
	require.Equal(t, 80.0, p.XPercent)
	require.Equal(t, 80.0, p.YPercent)

	require.NoError(t, c.MovePlacement(p.LocalID, -100000, -100000, bounds))
	require.Equal(t, 0.0, p.XPercent)
	require.Equal(t, 0.0, p.YPercent)
}

func TestResizePlacementRecomputesPercentages(t *testing.T) {
	c, _ := newTestCanvas()
	p := c.CreatePlacement(testLogo())
	bounds := canvas.Bounds{Width: 800, Height: 600}

	require.NoError(t, c.ResizePlacement(p.LocalID, canvas.Rect{X: 80, Y: 120, Width: 200, Height: 150}, bounds))

	require.InDelta(t, 10.0, p.XPercent, 1e-9)
	require.InDelta(t, 20.0, p.YPercent, 1e-9)
	require.InDelta(t, 25.0, p.WidthPercent, 1e-9)
	require.InDelta(t, 25.0, p.HeightPercent, 1e-9)
}

// Placements of another side stay in the model but are invisible and
// non-interactive regardless of their position values.
func TestSideTagControlsVisibilityAndEditing(t *testing.T) {
	c, _ := newTestCanvas()
	front := c.CreatePlacement(testLogo())

	c.SelectSide("back")
	back := c.CreatePlacement(testLogo())

	visible := c.VisiblePlacements()
	require.Len(t, visible, 1)
	require.Equal(t, back.LocalID, visible[0].LocalID)

	err := c.MovePlacement(front.LocalID, 10, 10, canvas.Bounds{Width: 800, Height: 600})
	require.ErrorIs(t, err, canvas.ErrPlacementNotFound)
	require.Error(t, c.SelectPlacement(front.LocalID))

	c.SelectSide("front")
	visible = c.VisiblePlacements()
	require.Len(t, visible, 1)
	require.Equal(t, front.LocalID, visible[0].LocalID)
}

func TestVisiblePlacementsSortedByZIndex(t *testing.T) {
	c, _ := newTestCanvas()
	first := c.CreatePlacement(testLogo())
	second := c.CreatePlacement(testLogo())
	third := c.CreatePlacement(testLogo())

	require.Equal(t, 0, first.ZIndex)
	require.Equal(t, 1, second.ZIndex)
	require.Equal(t, 2, third.ZIndex)

	first.ZIndex = 5
	visible := c.VisiblePlacements()
	require.Equal(t, []string{second.LocalID, third.LocalID, first.LocalID},
		[]string{visible[0].LocalID, visible[1].LocalID, visible[2].LocalID})
}

// First save assigns durable ids; saving again upserts instead of creating
// duplicates.
func TestSaveUpsertsByDurableID(t *testing.T) {
	c, api := newTestCanvas()
	p := c.CreatePlacement(testLogo())

	require.NoError(t, c.Save(context.Background()))
	require.True(t, p.Persisted())
	require.Equal(t, "remote-1", p.RemoteID)
	require.Len(t, api.saved, 1)
	require.Empty(t, api.saved[0].RemoteID)

	require.NoError(t, c.Save(context.Background()))
	require.Equal(t, "remote-1", p.RemoteID)
	require.Len(t, api.saved, 2)
	require.Equal(t, "remote-1", api.saved[1].RemoteID)
}

// Save stamps the side of the active canvas image and skips hidden sides.
func TestSaveStampsActiveSideOnly(t *testing.T) {
	c, api := newTestCanvas()
	c.CreatePlacement(testLogo())
	c.SelectSide("back")
	c.CreatePlacement(testLogo())

	require.NoError(t, c.Save(context.Background()))

	require.Len(t, api.saved, 1)
	require.Equal(t, "back", api.saved[0].Side)
}

func TestDeleteUnsavedPlacementIsLocalOnly(t *testing.T) {
	c, api := newTestCanvas()
	p := c.CreatePlacement(testLogo())

	require.NoError(t, c.DeletePlacement(context.Background(), p.LocalID))
	require.Empty(t, c.VisiblePlacements())
	require.Empty(t, api.deleted)
}

func TestDeletePersistedPlacementCallsServer(t *testing.T) {
	c, api := newTestCanvas()
	p := c.CreatePlacement(testLogo())
	require.NoError(t, c.Save(context.Background()))

	require.NoError(t, c.DeletePlacement(context.Background(), p.LocalID))
	require.Empty(t, c.VisiblePlacements())
	require.Equal(t, []string{"remote-1"}, api.deleted)
}

func TestPixelRectResolvesFromPercentages(t *testing.T) {
	p := &canvas.Placement{XPercent: 25, YPercent: 50, WidthPercent: 10, HeightPercent: 20}
	rect := p.PixelRect(canvas.Bounds{Width: 1000, Height: 500})

	require.Equal(t, canvas.Rect{X: 250, Y: 250, Width: 100, Height: 100}, rect)
}
