package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/events"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/repository"
	apperrors "github.com/ajay-verma30/Neil-admin-sub000/pkg/util"
)

// PlacementService owns server-side placement persistence. Save is an upsert
// keyed by durable id: repeated saves of the same placement update the record
// instead of duplicating it.
type PlacementService struct {
	placements repository.PlacementRepository
	dispatcher events.Dispatcher
}

// NewPlacementService builds the service.
func NewPlacementService(placements repository.PlacementRepository, dispatcher events.Dispatcher) *PlacementService {
	return &PlacementService{placements: placements, dispatcher: dispatcher}
}

// PlacementInput carries the client-supplied placement geometry.
type PlacementInput struct {
	ID            string
	VariantID     string
	LogoID        string
	LogoVariantID string
	Label         string
	Side          domain.Side
	XPercent      float64
	YPercent      float64
	WidthPercent  float64
	HeightPercent float64
	ZIndex        int
}

// Save validates and upserts a placement on behalf of the principal's
// organization. A missing id means a first save; the server assigns one.
func (s *PlacementService) Save(ctx context.Context, principal *domain.User, input PlacementInput) (*domain.Placement, error) {
	if err := validatePlacementInput(input); err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	placement := &domain.Placement{
		ID:             id,
		VariantID:      input.VariantID,
		LogoID:         input.LogoID,
		LogoVariantID:  input.LogoVariantID,
		Label:          input.Label,
		Side:           input.Side,
		XPercent:       input.XPercent,
		YPercent:       input.YPercent,
		WidthPercent:   input.WidthPercent,
		HeightPercent:  input.HeightPercent,
		ZIndex:         input.ZIndex,
		OrganizationID: principal.OrganizationID,
	}

	if err := s.placements.Upsert(ctx, placement); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPlacementSaved, map[string]any{
		"placement_id": placement.ID,
		"variant_id":   placement.VariantID,
		"side":         string(placement.Side),
	})
	return placement, nil
}

// Delete removes a persisted placement.
func (s *PlacementService) Delete(ctx context.Context, principal *domain.User, id string) error {
	existing, err := s.placements.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("placement", map[string]any{"id": id})
		}
		return err
	}
	if !sameOrganization(principal, existing) {
		return apperrors.NewForbidden("placement belongs to another organization")
	}

	if err := s.placements.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EventPlacementDeleted, map[string]any{"placement_id": id})
	return nil
}

// ListByVariant returns every placement for a product variant, all sides.
func (s *PlacementService) ListByVariant(ctx context.Context, variantID string) ([]*domain.Placement, error) {
	if variantID == "" {
		return nil, apperrors.NewValidationError("variant_id required", nil)
	}
	return s.placements.ListByVariant(ctx, variantID)
}

func validatePlacementInput(input PlacementInput) error {
	if input.VariantID == "" || input.LogoID == "" || input.LogoVariantID == "" {
		return apperrors.NewValidationError("variant_id, logo_id, logo_variant_id required", nil)
	}
	if input.Side != domain.SideFront && input.Side != domain.SideBack {
		return apperrors.NewValidationError("side must be front or back", map[string]any{"side": string(input.Side)})
	}
	for name, v := range map[string]float64{
		"x_percent":      input.XPercent,
		"y_percent":      input.YPercent,
		"width_percent":  input.WidthPercent,
		"height_percent": input.HeightPercent,
	} {
		if v < 0 || v > 100 {
			return apperrors.NewValidationError("percent values must be within [0,100]", map[string]any{name: v})
		}
	}
	return nil
}

func sameOrganization(principal *domain.User, placement *domain.Placement) bool {
	if principal.Role == domain.RoleSuperAdmin {
		return true
	}
	if principal.OrganizationID == nil || placement.OrganizationID == nil {
		return false
	}
	return *principal.OrganizationID == *placement.OrganizationID
}

func (s *PlacementService) publish(ctx context.Context, eventType events.EventType, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, payload))
}
