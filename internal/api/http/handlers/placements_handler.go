package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/api/dto"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/auth"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
	"github.com/ajay-verma30/Neil-admin-sub000/internal/service"
	apperrors "github.com/ajay-verma30/Neil-admin-sub000/pkg/util"
)

// PlacementsHandler exposes placement persistence endpoints.
type PlacementsHandler struct {
	placements *service.PlacementService
}

// NewPlacementsHandler constructs handler.
func NewPlacementsHandler(placementService *service.PlacementService) *PlacementsHandler {
	return &PlacementsHandler{placements: placementService}
}

// Save handles PUT /placements. Upserts by id; a fresh placement gets a
// server-assigned durable id.
func (h *PlacementsHandler) Save(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PlacementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	placement, err := h.placements.Save(c.Context(), principal.User, service.PlacementInput{
		ID:            req.ID,
		VariantID:     req.VariantID,
		LogoID:        req.LogoID,
		LogoVariantID: req.LogoVariantID,
		Label:         req.Label,
		Side:          domain.Side(req.Side),
		XPercent:      req.XPercent,
		YPercent:      req.YPercent,
		WidthPercent:  req.WidthPercent,
		HeightPercent: req.HeightPercent,
		ZIndex:        req.ZIndex,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": placementResponse(placement)})
}

// Delete handles DELETE /placements/:id.
func (h *PlacementsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("placement id required", nil)
	}
	if err := h.placements.Delete(c.Context(), principal.User, id); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListByVariant handles GET /placements?variant_id=...
func (h *PlacementsHandler) ListByVariant(c *fiber.Ctx) error {
	variantID := c.Query("variant_id")
	placements, err := h.placements.ListByVariant(c.Context(), variantID)
	if err != nil {
		return apperrors.MapError(err)
	}

	responses := make([]dto.PlacementResponse, 0, len(placements))
	for _, p := range placements {
		responses = append(responses, placementResponse(p))
	}
	return c.JSON(fiber.Map{"data": responses})
}

func placementResponse(p *domain.Placement) dto.PlacementResponse {
	return dto.PlacementResponse{
		ID:            p.ID,
		VariantID:     p.VariantID,
		LogoID:        p.LogoID,
		LogoVariantID: p.LogoVariantID,
		Label:         p.Label,
		Side:          string(p.Side),
		XPercent:      p.XPercent,
		YPercent:      p.YPercent,
		WidthPercent:  p.WidthPercent,
		HeightPercent: p.HeightPercent,
		ZIndex:        p.ZIndex,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
