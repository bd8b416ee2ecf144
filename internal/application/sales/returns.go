package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	costing "github.com/jhoicas/ferreteria-stock/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// ReturnReconciler revierte una venta: devuelve las cantidades a las variantes vivas o reconstruye
// categoría, producto y variante a partir del snapshot de la línea cuando la variante ya no existe.
type ReturnReconciler struct {
	txRunner inventory.TxRunner
	log      *logger.Logger
}

// NewReturnReconciler construye el reconciliador.
func NewReturnReconciler(txRunner inventory.TxRunner, log *logger.Logger) *ReturnReconciler {
	return &ReturnReconciler{txRunner: txRunner, log: log}
}

// ReturnSale procesa cada línea en su propio savepoint. Las líneas rechazadas por una regla de
// dominio se reportan como advertencias; si ninguna se pudo devolver no se aplica nada y la venta
// se conserva. Un error de almacenamiento o de transacción abortada revierte la devolución completa.
// La venta se borra solo después de reconciliar todas las líneas.
func (rr *ReturnReconciler) ReturnSale(ctx context.Context, saleID string) (*dto.ReturnResponse, error) {
	var resp *dto.ReturnResponse
	err := rr.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound("sale", saleID)
		}

		resp = &dto.ReturnResponse{SaleID: sale.ID, Restored: []dto.ReturnedItem{}}
		for i, it := range sale.Items {
			var restored dto.ReturnedItem
			err := repos.Savepoint(ctx, func(ctx context.Context, sp inventory.TxRepos) error {
				var err error
				restored, err = rr.restoreItem(ctx, sp, it)
				return err
			})
			if err != nil {
				reason, ok := lineRejection(err)
				if !ok {
					rr.log.Error().
						Err(err).
						Str("sale_id", sale.ID).
						Int("index", i).
						Str("variant_id", it.VariantID).
						Msg("devolución abortada")
					return err
				}
				rr.log.Warn().
					Err(err).
					Str("sale_id", sale.ID).
					Int("index", i).
					Str("variant_id", it.VariantID).
					Msg("no se pudo devolver la línea")
				resp.Warnings = append(resp.Warnings, dto.ReturnWarning{Index: i, VariantID: it.VariantID, Reason: reason})
				continue
			}
			restored.Index = i
			resp.Restored = append(resp.Restored, restored)
		}

		if len(resp.Restored) == 0 {
			return &domain.Error{
				Kind:   domain.ErrInvalidInput,
				Entity: "sale",
				ID:     sale.ID,
				Detail: "ninguna línea se pudo devolver",
			}
		}
		return repos.Sales.Delete(ctx, sale.ID)
	})
	if err != nil {
		return nil, err
	}
	rr.log.Info().
		Str("sale_id", saleID).
		Int("restored", len(resp.Restored)).
		Int("warnings", len(resp.Warnings)).
		Msg("venta devuelta")
	return resp, nil
}

// lineRejection separa los rechazos de dominio, que se reportan por línea, del resto de errores.
// El motivo devuelto es el mensaje del error de dominio, sin detalles del almacenamiento.
func lineRejection(err error) (string, bool) {
	if errors.Is(err, domain.ErrTransactionAborted) {
		return "", false
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		return "", false
	}
	return de.Error(), true
}

// restoreItem devuelve una línea. Con la variante borrada solo se usa el snapshot, nunca el catálogo vivo
// para describir lo vendido.
func (rr *ReturnReconciler) restoreItem(ctx context.Context, repos inventory.TxRepos, it entity.LineItem) (dto.ReturnedItem, error) {
	if it.Quantity <= 0 {
		return dto.ReturnedItem{}, domain.Invalid("cantidad devuelta inválida")
	}

	if it.VariantID != "" {
		v, err := repos.Variants.GetForUpdate(ctx, it.VariantID)
		if err != nil {
			return dto.ReturnedItem{}, err
		}
		if v != nil {
			if err := repos.Variants.UpdateQuantity(ctx, v.ID, v.Quantity+it.Quantity); err != nil {
				return dto.ReturnedItem{}, err
			}
			return dto.ReturnedItem{VariantID: v.ID, Quantity: it.Quantity}, nil
		}
	}

	snap := it.Snapshot
	if snap.ProductName == "" {
		return dto.ReturnedItem{}, domain.Invalid("la línea no tiene nombre de producto para reconstruir")
	}
	category, err := rr.resolveCategory(ctx, repos, snap)
	if err != nil {
		return dto.ReturnedItem{}, err
	}
	product, err := resolveProduct(ctx, repos, snap.ProductName, category)
	if err != nil {
		return dto.ReturnedItem{}, err
	}

	existing, err := repos.Variants.FindByShape(ctx, product.ID, snap.Size, snap.Unit, snap.Color)
	if err != nil {
		return dto.ReturnedItem{}, err
	}
	if existing != nil {
		if err := repos.Variants.UpdateQuantity(ctx, existing.ID, existing.Quantity+it.Quantity); err != nil {
			return dto.ReturnedItem{}, err
		}
		return dto.ReturnedItem{VariantID: existing.ID, Quantity: it.Quantity}, nil
	}

	now := time.Now()
	v := &entity.Variant{
		ID:                 uuid.New().String(),
		ProductID:          product.ID,
		Unit:               snap.Unit,
		Size:               snap.Size,
		Color:              snap.Color,
		Price:              it.Price,
		SupplierPrice:      costing.EstimatedSupplierPrice(it.Price),
		Quantity:           it.Quantity,
		ConversionQuantity: 1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := repos.Variants.Create(ctx, v); err != nil {
		return dto.ReturnedItem{}, err
	}
	rr.log.Info().
		Str("variant_id", v.ID).
		Str("product_id", product.ID).
		Str("product_name", product.Name).
		Msg("variante reconstruida por devolución")
	return dto.ReturnedItem{VariantID: v.ID, Quantity: it.Quantity, Recreated: true}, nil
}

// resolveCategory busca la categoría por nombre exacto. Sin nombre (datos antiguos) prueba en orden:
// categoría de un producto existente con el mismo nombre, historial del libro de abastecimiento,
// y por último la categoría centinela.
func (rr *ReturnReconciler) resolveCategory(ctx context.Context, repos inventory.TxRepos, snap entity.LineItemSnapshot) (*entity.Category, error) {
	name := snap.CategoryName
	if name == "" {
		product, err := repos.Products.FindByName(ctx, snap.ProductName)
		if err != nil {
			return nil, err
		}
		if product != nil && product.CategoryID != "" {
			c, err := repos.Categories.GetByID(ctx, product.CategoryID)
			if err != nil {
				return nil, err
			}
			if c != nil {
				return c, nil
			}
		}
		name, err = repos.Batches.LatestCategoryByProductName(ctx, snap.ProductName)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = entity.RecreatedCategoryName
		}
	}

	c, err := repos.Categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	now := time.Now()
	c = &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveProduct reutiliza un producto con el mismo nombre sin distinguir mayúsculas; si no existe lo crea.
func resolveProduct(ctx context.Context, repos inventory.TxRepos, name string, category *entity.Category) (*entity.Product, error) {
	p, err := repos.Products.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	now := time.Now()
	p = &entity.Product{ID: uuid.New().String(), CategoryID: category.ID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
