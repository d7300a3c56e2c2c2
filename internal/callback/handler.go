package callback

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rikkicom/call2fa-go/internal/domain"
	"github.com/rikkicom/call2fa-go/internal/logger"
	"github.com/rikkicom/call2fa-go/internal/storage"
	"github.com/rikkicom/call2fa-go/pkg/sinks"
)

// Handler processes call status callbacks posted by the Call2FA API.
type Handler struct {
	store  storage.Store
	fanout *sinks.Fanout
	log    logger.Logger
}

// NewHandler creates a callback handler.
func NewHandler(store storage.Store, fanout *sinks.Fanout, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{store: store, fanout: fanout, log: log}
}

// Register wires all routes onto the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.health)

	v1 := app.Group("/v1")
	v1.Post("/callback/", h.handleCallback)
}

func (h *Handler) health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// handleCallback validates the payload, drops re-delivered callbacks and fans
// the event out to all configured sinks.
func (h *Handler) handleCallback(ctx *fiber.Ctx) error {
	var status domain.CallStatus
	if err := ctx.BodyParser(&status); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed callback body")
	}
	if status.CallID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "call_id is required")
	}
	if status.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	// The API re-delivers callbacks on slow responses; a call can still
	// legitimately report different statuses over time.
	deliveryKey := status.CallID + ":" + status.Status
	seen, err := h.store.SeenDelivery(deliveryKey)
	if err != nil {
		h.log.ErrorObj("delivery dedupe lookup failed", "error", err.Error())
		return fiber.ErrInternalServerError
	}
	if seen {
		h.log.DebugObj("duplicate callback dropped", "delivery_key", deliveryKey)
		return ctx.JSON(fiber.Map{"result": "duplicate"})
	}

	evt := sinks.NewEvent(uuid.NewString(), status)
	delivered, err := h.fanout.Publish(ctx.UserContext(), evt)
	if err != nil {
		h.log.ErrorObj("sink fanout failed", "fanout_error", map[string]any{
			"receipt_id": evt.ReceiptID,
			"delivered":  delivered,
			"error":      err.Error(),
		})
		if delivered == 0 {
			return fiber.NewError(fiber.StatusBadGateway, "no sink accepted the event")
		}
	}

	if err := h.store.MarkDelivery(deliveryKey); err != nil {
		h.log.ErrorObj("delivery mark failed", "error", err.Error())
	}

	h.log.InfoObj("callback accepted", "callback_meta", map[string]any{
		"receipt_id": evt.ReceiptID,
		"call_id":    status.CallID,
		"status":     status.Status,
		"delivered":  delivered,
	})

	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"receipt_id": evt.ReceiptID,
		"delivered":  delivered,
	})
}
