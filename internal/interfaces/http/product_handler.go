package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ferreteria-stock/internal/application/catalog"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/notify"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP para categorías y productos (protegido).
type ProductHandler struct {
	uc       *catalog.UseCase
	notifier notify.Notifier
	validate *validator.Validate
	log      *logger.Logger
	errs     errorMapper
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase, notifier notify.Notifier, validate *validator.Validate, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, notifier: notifier, validate: validate, log: log, errs: errorMapper{log: log}}
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "name"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *ProductHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	out, err := h.uc.CreateCategory(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCategoryResponse(out))
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if bad := bind(c, h.validate, &in); bad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(bad)
	}
	p, cat, err := h.uc.CreateProduct(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	notify.Broadcast(c.UserContext(), h.notifier, h.log, notify.NewEvent(domain.TopicInventory, "product.created", p.ID))
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(p, cat, nil))
}

// GetByID godoc
// @Summary      Obtener producto con sus variantes
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, cat, variants, err := h.uc.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(dto.NewProductResponse(p, cat, variants))
}
