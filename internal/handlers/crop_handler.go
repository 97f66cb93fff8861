package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"quote-service/internal/crops"
	"quote-service/internal/utils"
)

// CropHandler exposes the read-only crop and zone reference data so clients
// can populate pickers without hardcoding the tables.
type CropHandler struct {
	registry *crops.Registry
}

func NewCropHandler(registry *crops.Registry) *CropHandler {
	return &CropHandler{registry: registry}
}

func (h *CropHandler) Register(app *fiber.App) {
	app.Get("/api/v1/crops", h.ListCrops)          // GET /api/v1/crops
	app.Get("/api/v1/crops/:name", h.GetCrop)      // GET /api/v1/crops/:name
	app.Get("/api/v1/zones", h.ListZones)          // GET /api/v1/zones
}

func (h *CropHandler) ListCrops(c fiber.Ctx) error {
	names := h.registry.SupportedCrops()
	return c.Status(http.StatusOK).JSON(utils.CreateListResponse(names, len(names)))
}

func (h *CropHandler) GetCrop(c fiber.Ctx) error {
	phenology, err := h.registry.PhenologyFor(c.Params("name"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("UNKNOWN_CROP", err.Error()))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(phenology))
}

func (h *CropHandler) ListZones(c fiber.Ctx) error {
	zones := h.registry.Zones()
	return c.Status(http.StatusOK).JSON(utils.CreateListResponse(zones, len(zones)))
}
