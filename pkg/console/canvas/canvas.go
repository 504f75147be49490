package canvas

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Default geometry for a freshly dropped logo.
const (
	DefaultXPercent      = 50.0
	DefaultYPercent      = 50.0
	DefaultWidthPercent  = 20.0
	DefaultHeightPercent = 20.0
)

// ErrPlacementNotFound is returned for unknown or hidden placement ids.
var ErrPlacementNotFound = errors.New("placement not found")

// Persistence is the backend surface the canvas saves through.
type Persistence interface {
	SavePlacement(ctx context.Context, placement Placement) (string, error)
	DeletePlacement(ctx context.Context, remoteID string) error
}

// Logo identifies the artwork being dropped onto the canvas.
type Logo struct {
	LogoID        string
	LogoVariantID string
	Label         string
}

// Canvas is the interactive customization surface for one product variant.
// It is UI state mutated from a single logical thread of execution; the
// owning component is the only mutator.
type Canvas struct {
	api        Persistence
	variantID  string
	activeSide string
	placements []*Placement
	selectedID string
}

// NewCanvas builds a canvas showing the given side of a product variant.
func NewCanvas(api Persistence, variantID, side string) *Canvas {
	return &Canvas{api: api, variantID: variantID, activeSide: side}
}

// Load replaces the in-memory set with persisted placements, all sides.
func (c *Canvas) Load(placements []*Placement) {
	c.placements = placements
	c.selectedID = ""
}

// CreatePlacement drops a logo centered at the default position and size,
// tagged with the active side, and selects it.
func (c *Canvas) CreatePlacement(logo Logo) *Placement {
	placement := &Placement{
		LocalID:       uuid.NewString(),
		VariantID:     c.variantID,
		LogoID:        logo.LogoID,
		LogoVariantID: logo.LogoVariantID,
		Label:         logo.Label,
		Side:          c.activeSide,
		XPercent:      DefaultXPercent,
		YPercent:      DefaultYPercent,
		WidthPercent:  DefaultWidthPercent,
		HeightPercent: DefaultHeightPercent,
		ZIndex:        c.nextZIndex(),
	}
	c.placements = append(c.placements, placement)
	c.selectedID = placement.LocalID
	return placement
}

// MovePlacement applies a pixel-space drag delta, converting through the
// live canvas bounds and clamping so the bounding box stays on the canvas.
func (c *Canvas) MovePlacement(id string, dxPixels, dyPixels float64, bounds Bounds) error {
	placement, err := c.editable(id)
	if err != nil {
		return err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return fmt.Errorf("invalid canvas bounds %+v", bounds)
	}

	x := placement.XPercent + PixelToPercent(dxPixels, bounds.Width)
	y := placement.YPercent + PixelToPercent(dyPixels, bounds.Height)
	placement.XPercent = clamp(x, 0, 100-placement.WidthPercent)
	placement.YPercent = clamp(y, 0, 100-placement.HeightPercent)
	return nil
}

// ResizePlacement recomputes all four percentages from new pixel geometry.
func (c *Canvas) ResizePlacement(id string, rect Rect, bounds Bounds) error {
	placement, err := c.editable(id)
	if err != nil {
		return err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return fmt.Errorf("invalid canvas bounds %+v", bounds)
	}

	placement.WidthPercent = clamp(PixelToPercent(rect.Width, bounds.Width), 0, 100)
	placement.HeightPercent = clamp(PixelToPercent(rect.Height, bounds.Height), 0, 100)
	placement.XPercent = clamp(PixelToPercent(rect.X, bounds.Width), 0, 100-placement.WidthPercent)
	placement.YPercent = clamp(PixelToPercent(rect.Y, bounds.Height), 0, 100-placement.HeightPercent)
	return nil
}

// DeletePlacement removes the placement locally and, once it has been
// persisted, also issues the server-side delete keyed by its durable id.
func (c *Canvas) DeletePlacement(ctx context.Context, id string) error {
	idx := -1
	for i, p := range c.placements {
		if p.LocalID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPlacementNotFound
	}

	placement := c.placements[idx]
	if placement.Persisted() {
		if err := c.api.DeletePlacement(ctx, placement.RemoteID); err != nil {
			return err
		}
	}

	c.placements = append(c.placements[:idx], c.placements[idx+1:]...)
	if c.selectedID == id {
		c.selectedID = ""
	}
	return nil
}

// SelectSide switches the active product image. Placements of other sides
// stay in the model but become invisible and non-interactive.
func (c *Canvas) SelectSide(side string) {
	c.activeSide = side
	if selected, err := c.editable(c.selectedID); err != nil || selected == nil {
		c.selectedID = ""
	}
}

// ActiveSide returns the side currently displayed.
func (c *Canvas) ActiveSide() string {
	return c.activeSide
}

// VisiblePlacements returns the placements rendered and interactive for the
// active side, in stacking order.
func (c *Canvas) VisiblePlacements() []*Placement {
	var visible []*Placement
	for _, p := range c.placements {
		if p.Side == c.activeSide {
			visible = append(visible, p)
		}
	}
	for i := 1; i < len(visible); i++ {
		for j := i; j > 0 && visible[j-1].ZIndex > visible[j].ZIndex; j-- {
			visible[j-1], visible[j] = visible[j], visible[j-1]
		}
	}
	return visible
}

// SelectPlacement marks a visible placement as the interaction target.
func (c *Canvas) SelectPlacement(id string) error {
	if _, err := c.editable(id); err != nil {
		return err
	}
	c.selectedID = id
	return nil
}

// Selected returns the current interaction target, if any.
func (c *Canvas) Selected() (*Placement, bool) {
	if c.selectedID == "" {
		return nil, false
	}
	for _, p := range c.placements {
		if p.LocalID == c.selectedID {
			return p, true
		}
	}
	return nil, false
}

// Save persists every visible placement, stamping the side from the active
// canvas image. Saves upsert by durable id, so repeated saves update rather
// than duplicate; first-time saves record the assigned durable id.
func (c *Canvas) Save(ctx context.Context) error {
	for _, placement := range c.VisiblePlacements() {
		placement.Side = c.activeSide
		remoteID, err := c.api.SavePlacement(ctx, *placement)
		if err != nil {
			return fmt.Errorf("save placement %s: %w", placement.LocalID, err)
		}
		placement.RemoteID = remoteID
	}
	return nil
}

func (c *Canvas) editable(id string) (*Placement, error) {
	for _, p := range c.placements {
		if p.LocalID == id {
			if p.Side != c.activeSide {
				return nil, ErrPlacementNotFound
			}
			return p, nil
		}
	}
	return nil, ErrPlacementNotFound
}

func (c *Canvas) nextZIndex() int {
	max := 0
	for _, p := range c.placements {
		if p.Side == c.activeSide && p.ZIndex >= max {
			max = p.ZIndex + 1
		}
	}
	return max
}
