package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/application/sales"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/notify"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// SaleHandler maneja ventas de punto de venta, márgenes y devoluciones (protegido).
type SaleHandler struct {
	fulfillment *sales.FulfillmentUseCase
	returns     *sales.ReturnReconciler
	costs       *inventory.CostBasisTracker
	notifier    notify.Notifier
	validate    *validator.Validate
	log         *logger.Logger
	errs        errorMapper
}

// NewSaleHandler construye el handler.
func NewSaleHandler(
	fulfillment *sales.FulfillmentUseCase,
	returns *sales.ReturnReconciler,
	costs *inventory.CostBasisTracker,
	notifier notify.Notifier,
	validate *validator.Validate,
	log *logger.Logger,
) *SaleHandler {
	return &SaleHandler{
		fulfillment: fulfillment,
		returns:     returns,
		costs:       costs,
		notifier:    notifier,
		validate:    validate,
		log:         log,
		errs:        errorMapper{log: log},
	}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock (con conversión automática) y persiste la venta en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "items, amount_paid"
// @Success      201   {object}  dto.FulfillmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	res, err := h.fulfillment.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	announceFulfillment(c, h.notifier, h.log, res)
	return c.Status(fiber.StatusCreated).JSON(res.Response())
}

// Margin godoc
// @Summary      Margen de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleMarginResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/margin [get]
func (h *SaleHandler) Margin(c *fiber.Ctx) error {
	out, err := h.costs.SaleMargin(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Devolver venta
// @Description  Reintegra cada línea al inventario, recreando variantes borradas. Las líneas fallidas vuelven como advertencias.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/return [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	out, err := h.returns.ReturnSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	ids := make([]string, 0, len(out.Restored))
	for _, it := range out.Restored {
		ids = append(ids, it.VariantID)
	}
	notify.Broadcast(c.UserContext(), h.notifier, h.log,
		notify.NewEvent(domain.TopicSales, "sale.returned", out.SaleID),
		notify.NewEvent(domain.TopicInventory, "variants.restored", ids...),
	)
	return c.JSON(out)
}

// announceFulfillment publica la venta y las variantes afectadas (y la reserva, si aplica).
func announceFulfillment(c *fiber.Ctx, n notify.Notifier, log *logger.Logger, res *sales.Result) {
	ids := make([]string, 0, len(res.Variants))
	for _, v := range res.Variants {
		ids = append(ids, v.ID)
	}
	events := []domain.ChangeEvent{
		notify.NewEvent(domain.TopicSales, "sale.created", res.Sale.ID),
		notify.NewEvent(domain.TopicInventory, "variants.deducted", ids...),
	}
	if res.Reservation != nil {
		events = append(events, notify.NewEvent(domain.TopicReservations, "reservation.completed", res.Reservation.ID))
	}
	notify.Broadcast(c.UserContext(), n, log, events...)
}
