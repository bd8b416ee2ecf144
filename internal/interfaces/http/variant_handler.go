package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/notify"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// VariantHandler maneja el ciclo de vida de las variantes (protegido).
type VariantHandler struct {
	uc       *inventory.VariantUseCase
	costs    *inventory.CostBasisTracker
	notifier notify.Notifier
	validate *validator.Validate
	log      *logger.Logger
	errs     errorMapper
}

// NewVariantHandler construye el handler.
func NewVariantHandler(uc *inventory.VariantUseCase, costs *inventory.CostBasisTracker, notifier notify.Notifier, validate *validator.Validate, log *logger.Logger) *VariantHandler {
	return &VariantHandler{uc: uc, costs: costs, notifier: notifier, validate: validate, log: log, errs: errorMapper{log: log}}
}

func (h *VariantHandler) announce(c *fiber.Ctx, action string, ids ...string) {
	notify.Broadcast(c.UserContext(), h.notifier, h.log, notify.NewEvent(domain.TopicInventory, action, ids...))
}

// Create godoc
// @Summary      Crear variante
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVariantRequest  true  "Variante con stock inicial y origen de conversión opcional"
// @Success      201   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variants [post]
func (h *VariantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	v, err := h.uc.CreateVariant(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	h.announce(c, "variant.created", v.ID)
	return c.Status(fiber.StatusCreated).JSON(dto.NewVariantResponse(v))
}

// Update godoc
// @Summary      Actualizar variante
// @Description  Un aumento de cantidad registra un lote de abastecimiento; una disminución es un retiro.
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la variante"
// @Param        body  body  dto.UpdateVariantRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variants/{id} [put]
func (h *VariantHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateVariantRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	v, err := h.uc.UpdateVariant(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	h.announce(c, "variant.updated", v.ID)
	return c.JSON(dto.NewVariantResponse(v))
}

// Restock godoc
// @Summary      Reabastecer variante
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la variante"
// @Param        body  body  dto.RestockRequest  true  "quantity, supplier_price"
// @Success      200   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/restock [post]
func (h *VariantHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	v, err := h.uc.Restock(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	h.announce(c, "variant.restocked", v.ID)
	return c.JSON(dto.NewVariantResponse(v))
}

// PullOut godoc
// @Summary      Retirar unidades
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la variante"
// @Param        body  body  dto.PullOutRequest  true  "quantity, reason"
// @Success      200   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/pull-out [post]
func (h *VariantHandler) PullOut(c *fiber.Ctx) error {
	var in dto.PullOutRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	v, err := h.uc.PullOut(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	h.announce(c, "variant.pulled_out", v.ID)
	return c.JSON(dto.NewVariantResponse(v))
}

// Delete godoc
// @Summary      Eliminar variante
// @Description  Si tiene stock se registra una pérdida de inventario al costo promedio ponderado.
// @Tags         variants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la variante"
// @Param        body  body  dto.DeleteVariantRequest  false  "reason, notes"
// @Success      200   {object}  dto.InventoryLossResponse
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variants/{id} [delete]
func (h *VariantHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteVariantRequest
	if len(c.Body()) > 0 {
		if bad := bind(c, h.validate, &in); bad != nil {
			return c.Status(fiber.StatusBadRequest).JSON(bad)
		}
	}
	id := c.Params("id")
	loss, err := h.uc.DeleteVariant(c.UserContext(), id, GetUserID(c), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	h.announce(c, "variant.deleted", id)
	if loss == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(dto.InventoryLossResponse{
		ID:        loss.ID,
		VariantID: loss.VariantID,
		Quantity:  loss.Quantity,
		Amount:    loss.Amount,
		Reason:    loss.Reason,
	})
}

// Cost godoc
// @Summary      Costo promedio ponderado
// @Tags         variants
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la variante"
// @Success      200  {object}  dto.VariantCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variants/{id}/cost [get]
func (h *VariantHandler) Cost(c *fiber.Ctx) error {
	id := c.Params("id")
	wac, err := h.costs.WeightedAverageCost(c.UserContext(), id)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.VariantCostResponse{VariantID: id, WeightedAverageCost: wac})
}
