package dto

import "time"

// PlacementRequest payload for saving a placement. Spatial fields are
// percentages of the client canvas, in [0,100].
type PlacementRequest struct {
	ID            string  `json:"id,omitempty"`
	VariantID     string  `json:"variant_id"`
	LogoID        string  `json:"logo_id"`
	LogoVariantID string  `json:"logo_variant_id"`
	Label         string  `json:"label"`
	Side          string  `json:"side"`
	XPercent      float64 `json:"x_percent"`
	YPercent      float64 `json:"y_percent"`
	WidthPercent  float64 `json:"width_percent"`
	HeightPercent float64 `json:"height_percent"`
	ZIndex        int     `json:"z_index"`
}

// PlacementResponse mirrors a persisted placement record.
type PlacementResponse struct {
	ID            string    `json:"id"`
	VariantID     string    `json:"variant_id"`
	LogoID        string    `json:"logo_id"`
	LogoVariantID string    `json:"logo_variant_id"`
	Label         string    `json:"label"`
	Side          string    `json:"side"`
	XPercent      float64   `json:"x_percent"`
	YPercent      float64   `json:"y_percent"`
	WidthPercent  float64   `json:"width_percent"`
	HeightPercent float64   `json:"height_percent"`
	ZIndex        int       `json:"z_index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
