package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"quote-service/internal/event"
	"quote-service/internal/models"
	"quote-service/internal/repository"
	"quote-service/internal/services"
	"quote-service/internal/utils"
	"quote-service/internal/worker"
)

// EventPublisher is the slice of event.QuotePublisher the handler needs.
// Left nil when no broker is configured.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev event.QuoteEvent) error
}

type QuoteHandler struct {
	quoteService *services.QuoteService
	fieldService *services.FieldService
	quoteRepo    *repository.QuoteRepository
	publisher    EventPublisher
	pool         *worker.WorkingPool
}

func NewQuoteHandler(quoteService *services.QuoteService, fieldService *services.FieldService, quoteRepo *repository.QuoteRepository, publisher EventPublisher, pool *worker.WorkingPool) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		fieldService: fieldService,
		quoteRepo:    quoteRepo,
		publisher:    publisher,
		pool:         pool,
	}
}

func (h *QuoteHandler) Register(app *fiber.App) {
	group := app.Group("/api/v1/quotes")

	group.Post("/", h.CreateQuote)                    // POST   /api/v1/quotes
	group.Post("/async", h.CreateQuoteAsync)          // POST   /api/v1/quotes/async
	group.Get("/:id", h.GetQuote)                     // GET    /api/v1/quotes/:id
	group.Get("/by-field/:field_id", h.ListByField)   // GET    /api/v1/quotes/by-field/:field_id
}

// CreateQuote computes a quote synchronously and persists it.
func (h *QuoteHandler) CreateQuote(c fiber.Ctx) error {
	var req models.QuoteRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Failed to parse request body"))
	}

	if err := h.resolveField(c.Context(), &req); err != nil {
		return quoteError(c, err)
	}

	quote, err := h.quoteService.Execute(c.Context(), req)
	if err != nil {
		slog.Error("quote computation failed", "crop", req.Crop, "error", err)
		return quoteError(c, err)
	}

	if err := h.quoteRepo.Save(c.Context(), quote); err != nil {
		slog.Error("failed to persist quote", "quote_id", quote.ID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("PERSISTENCE_FAILED", "Quote computed but could not be saved"))
	}

	h.publishCreated(c.Context(), quote)

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(quote))
}

// CreateQuoteAsync queues the computation and returns the quote id the result
// will be stored under. Rejected with 429 when the queue is full.
func (h *QuoteHandler) CreateQuoteAsync(c fiber.Ctx) error {
	var req models.QuoteRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Failed to parse request body"))
	}

	if err := h.resolveField(c.Context(), &req); err != nil {
		return quoteError(c, err)
	}

	quoteID := uuid.New()
	submitted := h.pool.TrySubmit(func(ctx context.Context) error {
		quote, err := h.quoteService.Execute(ctx, req)
		if err != nil {
			slog.Error("async quote computation failed", "quote_id", quoteID, "error", err)
			h.publishFailed(ctx, quoteID, req, err)
			return err
		}
		quote.ID = quoteID
		if err := h.quoteRepo.Save(ctx, quote); err != nil {
			slog.Error("failed to persist async quote", "quote_id", quoteID, "error", err)
			h.publishFailed(ctx, quoteID, req, err)
			return err
		}
		h.publishCreated(ctx, quote)
		return nil
	})
	if !submitted {
		return c.Status(http.StatusTooManyRequests).JSON(
			utils.CreateErrorResponse("QUEUE_FULL", "Quote queue is full, retry later"))
	}

	return c.Status(http.StatusAccepted).JSON(utils.CreateSuccessResponse(map[string]any{
		"quote_id": quoteID,
		"status":   "processing",
	}))
}

func (h *QuoteHandler) GetQuote(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_ID", "Quote id must be a UUID"))
	}

	quote, err := h.quoteRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "No quote with that id"))
		}
		slog.Error("failed to load quote", "quote_id", id, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve quote"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(quote))
}

func (h *QuoteHandler) ListByField(c fiber.Ctx) error {
	fieldID, err := uuid.Parse(c.Params("field_id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_ID", "Field id must be a UUID"))
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	records, err := h.quoteRepo.ListByField(c.Context(), fieldID, limit)
	if err != nil {
		slog.Error("failed to list quotes", "field_id", fieldID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to list quotes"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateListResponse(records, len(records)))
}

// resolveField merges a registered field's location and defaults into the
// request when field_id is supplied.
func (h *QuoteHandler) resolveField(ctx context.Context, req *models.QuoteRequest) error {
	if req.FieldID == nil {
		return nil
	}
	field, err := h.fieldService.Get(ctx, *req.FieldID)
	if err != nil {
		return err
	}
	req.Latitude = field.Latitude
	req.Longitude = field.Longitude
	if req.AreaHa == nil {
		req.AreaHa = &field.AreaHa
	}
	if req.Crop == "" && field.Crop != nil {
		req.Crop = *field.Crop
	}
	if req.Zone == "" && field.Zone != nil {
		req.Zone = *field.Zone
	}
	return nil
}

func (h *QuoteHandler) publishCreated(ctx context.Context, quote *models.Quote) {
	if h.publisher == nil {
		return
	}
	ev := event.QuoteEvent{
		ID:        uuid.New().String(),
		EventType: event.QuoteCreated,
		QuoteID:   quote.ID.String(),
		Crop:      quote.Crop,
		Zone:      quote.ZoneID,
		Additional: map[string]any{
			"premium_rate":      quote.Actuarial.PremiumRate,
			"gross_premium_usd": quote.Actuarial.GrossPremiumUSD,
		},
	}
	if quote.FieldID != nil {
		ev.FieldID = quote.FieldID.String()
	}
	if err := h.publisher.PublishEvent(ctx, ev); err != nil {
		slog.Warn("failed to publish quote event", "quote_id", quote.ID, "error", err)
	}
}

// publishFailed notifies downstream consumers that an accepted async quote
// will never materialize under its id.
func (h *QuoteHandler) publishFailed(ctx context.Context, quoteID uuid.UUID, req models.QuoteRequest, cause error) {
	if h.publisher == nil {
		return
	}
	ev := event.QuoteEvent{
		ID:        uuid.New().String(),
		EventType: event.QuoteFailed,
		QuoteID:   quoteID.String(),
		Crop:      req.Crop,
		Zone:      req.Zone,
		Additional: map[string]any{
			"error": cause.Error(),
		},
	}
	if req.FieldID != nil {
		ev.FieldID = req.FieldID.String()
	}
	if err := h.publisher.PublishEvent(ctx, ev); err != nil {
		slog.Warn("failed to publish quote failure event", "quote_id", quoteID, "error", err)
	}
}

// quoteError maps pipeline errors onto HTTP statuses without leaking internals.
func quoteError(c fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("VALIDATION_FAILED", validationErr.Error()))
	}
	var unknownCropErr *models.UnknownCropError
	if errors.As(err, &unknownCropErr) {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("UNKNOWN_CROP", unknownCropErr.Error()))
	}
	var insufficientErr *models.InsufficientDataError
	if errors.As(err, &insufficientErr) {
		return c.Status(http.StatusUnprocessableEntity).JSON(
			utils.CreateErrorResponse("INSUFFICIENT_DATA", insufficientErr.Error()))
	}
	var fetchErr *models.UpstreamFetchError
	if errors.As(err, &fetchErr) {
		return c.Status(http.StatusBadGateway).JSON(
			utils.CreateErrorResponse("UPSTREAM_UNAVAILABLE", "Rainfall data source is unavailable"))
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("NOT_FOUND", "Referenced field does not exist"))
	}
	return c.Status(http.StatusInternalServerError).JSON(
		utils.CreateErrorResponse("COMPUTATION_FAILED", "Quote computation failed"))
}
