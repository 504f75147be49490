package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client is the HTTP implementation of Persistence, speaking the placements
// API through a bearer-authenticated http.Client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client. httpClient should carry the auth transport so
// expired tokens refresh transparently.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type placementPayload struct {
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

type placementEnvelope struct {
	Data placementPayload `json:"data"`
}

type placementListEnvelope struct {
	Data []placementPayload `json:"data"`
}

// SavePlacement upserts a placement and returns its durable id.
func (c *Client) SavePlacement(ctx context.Context, placement Placement) (string, error) {
	body, err := json.Marshal(placementPayload{
		ID:            placement.RemoteID,
		VariantID:     placement.VariantID,
		LogoID:        placement.LogoID,
		LogoVariantID: placement.LogoVariantID,
		Label:         placement.Label,
		Side:          placement.Side,
		XPercent:      placement.XPercent,
		YPercent:      placement.YPercent,
		WidthPercent:  placement.WidthPercent,
		HeightPercent: placement.HeightPercent,
		ZIndex:        placement.ZIndex,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/placements/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("save placement: unexpected status %d", resp.StatusCode)
	}

	var envelope placementEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	return envelope.Data.ID, nil
}

// DeletePlacement removes a persisted placement by durable id.
func (c *Client) DeletePlacement(ctx context.Context, remoteID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/placements/"+remoteID, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete placement: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ListPlacements fetches every persisted placement for a variant.
func (c *Client) ListPlacements(ctx context.Context, variantID string) ([]*Placement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/placements/?variant_id="+variantID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list placements: unexpected status %d", resp.StatusCode)
	}

	var envelope placementListEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}

	placements := make([]*Placement, 0, len(envelope.Data))
	for _, record := range envelope.Data {
		placements = append(placements, &Placement{
			LocalID:       record.ID,
			RemoteID:      record.ID,
			VariantID:     record.VariantID,
			LogoID:        record.LogoID,
			LogoVariantID: record.LogoVariantID,
			Label:         record.Label,
			Side:          record.Side,
			XPercent:      record.XPercent,
			YPercent:      record.YPercent,
			WidthPercent:  record.WidthPercent,
			HeightPercent: record.HeightPercent,
			ZIndex:        record.ZIndex,
		})
	}
	return placements, nil
}
