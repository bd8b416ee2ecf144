package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ferreteria-stock/internal/application/catalog"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/application/sales"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/notify"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog      *catalog.UseCase
	Variants     *inventory.VariantUseCase
	Costs        *inventory.CostBasisTracker
	Fulfillment  *sales.FulfillmentUseCase
	Reservations *sales.ReservationUseCase
	Returns      *sales.ReturnReconciler
	Notifier     notify.Notifier
	Log          *logger.Logger
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	validate := validator.New()

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	sellers := RequireRole(RoleAdmin, RoleVendedor)
	stockKeepers := RequireRole(RoleAdmin, RoleBodeguero)

	// Catalog
	productHandler := NewProductHandler(deps.Catalog, deps.Notifier, validate, deps.Log)
	protected.Post("/categories", stockKeepers, productHandler.CreateCategory)
	products := protected.Group("/products")
	products.Post("/", stockKeepers, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)

	// Sales
	saleHandler := NewSaleHandler(deps.Fulfillment, deps.Returns, deps.Costs, deps.Notifier, validate, deps.Log)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", sellers, saleHandler.Create)
	salesGroup.Get("/:id/margin", RequireRole(RoleAdmin), saleHandler.Margin)
	salesGroup.Post("/:id/return", sellers, saleHandler.Return)

	// Reservations
	reservationHandler := NewReservationHandler(deps.Reservations, deps.Fulfillment, deps.Notifier, validate, deps.Log)
	reservations := protected.Group("/reservations")
	reservations.Post("/", sellers, reservationHandler.Create)
	reservations.Get("/:id", sellers, reservationHandler.Get)
	reservations.Post("/:id/complete", sellers, reservationHandler.Complete)
	reservations.Post("/:id/cancel", sellers, reservationHandler.Cancel)

	// Variants
	variantHandler := NewVariantHandler(deps.Variants, deps.Costs, deps.Notifier, validate, deps.Log)
	variants := protected.Group("/variants")
	variants.Post("/", stockKeepers, variantHandler.Create)
	variants.Put("/:id", stockKeepers, variantHandler.Update)
	variants.Post("/:id/restock", stockKeepers, variantHandler.Restock)
	variants.Post("/:id/pull-out", stockKeepers, variantHandler.PullOut)
	variants.Delete("/:id", stockKeepers, variantHandler.Delete)
	variants.Get("/:id/cost", RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor), variantHandler.Cost)
}
