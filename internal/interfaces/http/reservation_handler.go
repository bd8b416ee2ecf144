package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/sales"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/notify"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// ReservationHandler maneja reservas con precio bloqueado (protegido).
type ReservationHandler struct {
	reservations *sales.ReservationUseCase
	fulfillment  *sales.FulfillmentUseCase
	notifier     notify.Notifier
	validate     *validator.Validate
	log          *logger.Logger
	errs         errorMapper
}

// NewReservationHandler construye el handler.
func NewReservationHandler(
	reservations *sales.ReservationUseCase,
	fulfillment *sales.FulfillmentUseCase,
	notifier notify.Notifier,
	validate *validator.Validate,
	log *logger.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		fulfillment:  fulfillment,
		notifier:     notifier,
		validate:     validate,
		log:          log,
		errs:         errorMapper{log: log},
	}
}

// Create godoc
// @Summary      Crear reserva
// @Description  Bloquea el precio de cada línea. No descuenta stock.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "customer_name, items"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	r, details, err := h.reservations.CreateReservation(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	notify.Broadcast(c.UserContext(), h.notifier, h.log, notify.NewEvent(domain.TopicReservations, "reservation.created", r.ID))
	return c.Status(fiber.StatusCreated).JSON(dto.NewReservationResponse(r, details))
}

// Get godoc
// @Summary      Obtener reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	r, details, err := h.reservations.GetReservation(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.NewReservationResponse(r, details))
}

// Complete godoc
// @Summary      Completar reserva
// @Description  Convierte la reserva en venta con los precios bloqueados. amount_paid vacío = total.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true   "ID de la reserva"
// @Param        body  body  dto.CompleteReservationRequest  false  "amount_paid"
// @Success      201   {object}  dto.FulfillmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/complete [post]
func (h *ReservationHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteReservationRequest
	if len(c.Body()) > 0 {
		if bad := bind(c, h.validate, &in); bad != nil {
			return c.Status(fiber.StatusBadRequest).JSON(bad)
		}
	}
	res, err := h.fulfillment.CompleteReservation(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	announceFulfillment(c, h.notifier, h.log, res)
	return c.Status(fiber.StatusCreated).JSON(res.Response())
}

// Cancel godoc
// @Summary      Cancelar reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	r, err := h.reservations.CancelReservation(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	notify.Broadcast(c.UserContext(), h.notifier, h.log, notify.NewEvent(domain.TopicReservations, "reservation.cancelled", r.ID))
	return c.JSON(dto.NewReservationResponse(r, nil))
}
