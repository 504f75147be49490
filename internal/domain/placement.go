package domain

import "time"

// Side tags the face of a product image a placement belongs to.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Placement anchors a logo to a product variant in percentage coordinates.
// Spatial fields are percentages (0-100) of the canvas bounding box, never
// pixels, so a placement renders identically at any resolution.
type Placement struct {
	ID             string
	VariantID      string
	LogoID         string
	LogoVariantID  string
	Label          string
	Side           Side
	XPercent       float64
	YPercent       float64
	WidthPercent   float64
	HeightPercent  float64
	ZIndex         int
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
