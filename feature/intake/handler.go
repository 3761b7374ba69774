package intake

import (
	"errors"

	"calendar-agent/core/booking"
	"calendar-agent/core/identity"
	"calendar-agent/core/logger"
	"calendar-agent/core/reconcile"
	"calendar-agent/core/rules"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for booking intake.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the intake routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/bookings")
	group.Post("/", h.HandleSync)
	group.Put("/", h.HandleUpdate)
	group.Post("/cancel", h.HandleCancel)
	app.Get("/blocks", h.HandlePreviewBlocks)
}

// statusFor maps engine errors onto HTTP statuses.
func statusFor(err error) int {
	var kindErr *rules.UnknownBookingKindError
	var winErr *rules.InvalidWindowError
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, booking.ErrMissingExternalID),
		errors.Is(err, identity.ErrEmptyExternalID):
		return fiber.StatusBadRequest
	case errors.As(err, &kindErr), errors.As(err, &winErr), errors.Is(err, reconcile.ErrUnknownLocation):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	code := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if code >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}

// failPartial reports a store failure together with the sweep counts of the
// pass that ran into it. Rejected requests fall back to fail.
func (h *Handler) failPartial(c *fiber.Ctx, op string, out Outcome, err error) error {
	code := statusFor(err)
	if code != fiber.StatusInternalServerError || out.Sweep == nil {
		return h.fail(c, op+" failed", err)
	}
	logger.WithRayID(h.service.logger, c).Error(op+" incomplete", zap.Error(err))
	return c.Status(code).JSON(PartialFailure{Error: err.Error(), Outcome: out})
}

func (h *Handler) parseBooking(c *fiber.Ctx) (BookingRequest, error) {
	var req BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return req, errors.Join(ErrInvalidRequest, err)
	}
	return req, nil
}

// HandleSync creates or refreshes the records of a booking.
// @Summary Sync Booking
// @Description Place the reservation, buffers and day holds a booking needs. Repeated calls converge.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body BookingRequest true "Booking"
// @Success 200 {object} Outcome "Outcome"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 422 {object} ErrorResponse "Unprocessable Booking"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /bookings [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	req, err := h.parseBooking(c)
	if err != nil {
		return h.fail(c, "Invalid sync request", err)
	}
	out, err := h.service.Sync(c.UserContext(), req)
	if err != nil {
		return h.fail(c, "Booking sync failed", err)
	}
	return c.JSON(out)
}

// HandleUpdate moves a booking to new attributes.
// @Summary Update Booking
// @Description Sweep the booking's prior records around its new time, then sync it.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body BookingRequest true "Booking"
// @Success 200 {object} Outcome "Outcome"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 422 {object} ErrorResponse "Unprocessable Booking"
// @Failure 500 {object} PartialFailure "Sweep incomplete"
// @Router /bookings [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	req, err := h.parseBooking(c)
	if err != nil {
		return h.fail(c, "Invalid update request", err)
	}
	out, err := h.service.Update(c.UserContext(), req)
	if err != nil {
		return h.failPartial(c, "Booking update", out, err)
	}
	return c.JSON(out)
}

// HandleCancel removes a booking's records.
// @Summary Cancel Booking
// @Description Delete a booking's records by exact key, or by source and external id.
// @Tags bookings
// @Accept json
// @Produce json
// @Param cancel body CancelRequest true "Cancellation"
// @Success 200 {object} Outcome "Outcome"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 500 {object} PartialFailure "Sweep incomplete"
// @Router /bookings/cancel [post]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, "Invalid cancel request", errors.Join(ErrInvalidRequest, err))
	}
	out, err := h.service.Cancel(c.UserContext(), req)
	if err != nil {
		return h.failPartial(c, "Booking cancel", out, err)
	}
	return c.JSON(out)
}

// HandlePreviewBlocks lists the days a booking would block, without touching any calendar.
// @Summary Preview Block Dates
// @Description Compute the all-day holds a booking of the given kind and window would produce.
// @Tags blocks
// @Produce json
// @Param kind query string false "Booking kind (event, photoshoot, lodging)" default(event)
// @Param start query string true "Start (RFC 3339 or YYYY-MM-DD)"
// @Param end query string true "End (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} BlockPreview "Block dates"
// @Failure 400 {object} ErrorResponse "Bad Request"
// @Failure 422 {object} ErrorResponse "Unprocessable Booking"
// @Router /blocks [get]
func (h *Handler) HandlePreviewBlocks(c *fiber.Ctx) error {
	start, err := h.service.ParseInstant(c.Query("start"))
	if err != nil {
		return h.fail(c, "Invalid block preview", err)
	}
	end, err := h.service.ParseInstant(c.Query("end"))
	if err != nil {
		return h.fail(c, "Invalid block preview", err)
	}
	kind := booking.ParseKind(c.Query("kind", string(booking.KindEvent)))

	out, err := h.service.PreviewBlocks(kind, start, end)
	if err != nil {
		return h.fail(c, "Block preview failed", err)
	}
	return c.JSON(out)
}
