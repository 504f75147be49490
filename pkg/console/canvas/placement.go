// Package canvas implements the product-customization surface: logo
// placements anchored to product imagery in percentage coordinates, so a
// placement stored once renders identically at any canvas size.
package canvas

// Bounds is the live rendered size of the canvas in pixels. It must be
// measured after layout, at the moment of interaction.
type Bounds struct {
	Width  float64
	Height float64
}

// Rect is a pixel-space rectangle relative to the canvas origin.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Placement anchors a logo to a side of a product variant. All spatial
// fields are percentages (0-100) of the canvas bounding box; pixels are
// computed on demand as percent/100 * dimension.
type Placement struct {
	// LocalID identifies the placement before and after persistence.
	LocalID string
	// RemoteID is the durable server id, empty until the first save.
	RemoteID string

	VariantID     string
	LogoID        string
	LogoVariantID string
	Label         string
	Side          string

	XPercent      float64
	YPercent      float64
	WidthPercent  float64
	HeightPercent float64
	ZIndex        int
}

// Persisted reports whether the placement has a durable server record.
func (p *Placement) Persisted() bool {
	return p.RemoteID != ""
}

// PixelRect converts the stored percentages to pixels for the given bounds.
func (p *Placement) PixelRect(bounds Bounds) Rect {
	return Rect{
		X:      PercentToPixel(p.XPercent, bounds.Width),
		Y:      PercentToPixel(p.YPercent, bounds.Height),
		Width:  PercentToPixel(p.WidthPercent, bounds.Width),
		Height: PercentToPixel(p.HeightPercent, bounds.Height),
	}
}

// PercentToPixel resolves a percentage against a canvas dimension.
func PercentToPixel(percent, dimension float64) float64 {
	return percent / 100 * dimension
}

// PixelToPercent expresses a pixel value as a percentage of a dimension.
func PixelToPercent(pixel, dimension float64) float64 {
	return pixel / dimension * 100
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
