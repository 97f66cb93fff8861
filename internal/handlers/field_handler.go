package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"quote-service/internal/models"
	"quote-service/internal/repository"
	"quote-service/internal/services"
	"quote-service/internal/utils"
)

type FieldHandler struct {
	fieldService *services.FieldService
}

func NewFieldHandler(fieldService *services.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fieldService}
}

func (h *FieldHandler) Register(app *fiber.App) {
	group := app.Group("/api/v1/fields")

	group.Post("/", h.CreateField)      // POST   /api/v1/fields
	group.Get("/", h.ListFields)        // GET    /api/v1/fields
	group.Get("/:id", h.GetField)       // GET    /api/v1/fields/:id
	group.Put("/:id", h.UpdateField)    // PUT    /api/v1/fields/:id
	group.Delete("/:id", h.DeleteField) // DELETE /api/v1/fields/:id
}

func (h *FieldHandler) CreateField(c fiber.Ctx) error {
	var req models.FieldRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Failed to parse request body"))
	}

	field, err := h.fieldService.Create(c.Context(), req)
	if err != nil {
		return fieldError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(field))
}

func (h *FieldHandler) GetField(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_ID", "Field id must be a UUID"))
	}

	field, err := h.fieldService.Get(c.Context(), id)
	if err != nil {
		return fieldError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(field))
}

func (h *FieldHandler) UpdateField(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_ID", "Field id must be a UUID"))
	}

	var req models.FieldRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Failed to parse request body"))
	}

	field, err := h.fieldService.Update(c.Context(), id, req)
	if err != nil {
		return fieldError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(field))
}

func (h *FieldHandler) DeleteField(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_ID", "Field id must be a UUID"))
	}

	if err := h.fieldService.Delete(c.Context(), id); err != nil {
		return fieldError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]any{
		"deleted": id,
	}))
}

func (h *FieldHandler) ListFields(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	fields, err := h.fieldService.List(c.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to list fields", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to list fields"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateListResponse(fields, len(fields)))
}

func fieldError(c fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", validationErr.Error()))
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("NOT_FOUND", "No field with that id"))
	}
	slog.Error("field operation failed", "error", err)
	return c.Status(http.StatusInternalServerError).JSON(
		utils.CreateErrorResponse("FIELD_OPERATION_FAILED", "Field operation failed"))
}
