package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	costing "github.com/jhoicas/ferreteria-stock/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

// VariantUseCase ciclo de vida de variantes: alta, edición, reabastecimiento, retiro y baja con pérdida.
// Cada operación que mueve stock corre en una sola transacción.
type VariantUseCase struct {
	txRunner TxRunner
	variants repository.VariantRepository
	resolver *ConversionResolver
	log      *logger.Logger
}

// NewVariantUseCase construye el caso de uso. variants se usa para lecturas fuera de transacción.
func NewVariantUseCase(
	txRunner TxRunner,
	variants repository.VariantRepository,
	resolver *ConversionResolver,
	log *logger.Logger,
) *VariantUseCase {
	return &VariantUseCase{
		txRunner: txRunner,
		variants: variants,
		resolver: resolver,
		log:      log,
	}
}

// GetVariant devuelve la variante o NotFound.
func (uc *VariantUseCase) GetVariant(ctx context.Context, id string) (*entity.Variant, error) {
	v, err := uc.variants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFound("variant", id)
	}
	return v, nil
}

// CreateVariant registra la variante y, si trae stock inicial, el lote de abastecimiento correspondiente.
func (uc *VariantUseCase) CreateVariant(ctx context.Context, in dto.CreateVariantRequest) (*entity.Variant, error) {
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	if in.Quantity < 0 {
		return nil, domain.Invalid("quantity no puede ser negativa")
	}
	if in.Price.IsNegative() || in.SupplierPrice.IsNegative() {
		return nil, domain.Invalid("los precios no pueden ser negativos")
	}
	ratio := in.ConversionQuantity
	if ratio == 0 {
		ratio = 1
	}
	if ratio < 1 {
		return nil, domain.Invalid("conversion_quantity debe ser >= 1")
	}
	if in.ConversionSource != "" {
		if err := uc.resolver.ValidateConversionAssignment(ctx, in.ProductID, in.ConversionSource, ""); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	v := &entity.Variant{
		ID:                 uuid.New().String(),
		ProductID:          in.ProductID,
		Unit:               in.Unit,
		Size:               in.Size,
		Color:              in.Color,
		Dimension:          in.Dimension,
		Price:              in.Price,
		SupplierPrice:      in.SupplierPrice,
		Quantity:           in.Quantity,
		ConversionSource:   in.ConversionSource,
		ConversionQuantity: ratio,
		AutoConvert:        in.AutoConvert,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("product", in.ProductID)
		}
		if err := repos.Variants.Create(ctx, v); err != nil {
			return err
		}
		return recordBatch(ctx, repos, v, in.Quantity, in.SupplierPrice, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("variant_id", v.ID).Str("product_id", v.ProductID).Int("quantity", v.Quantity).Msg("variante creada")
	return v, nil
}

// UpdateVariant aplica los campos presentes. Un aumento de cantidad registra un lote por la diferencia;
// una disminución se trata como retiro explícito.
func (uc *VariantUseCase) UpdateVariant(ctx context.Context, id string, in dto.UpdateVariantRequest) (*entity.Variant, error) {
	current, err := uc.GetVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ConversionQuantity != nil && *in.ConversionQuantity < 1 {
		return nil, domain.Invalid("conversion_quantity debe ser >= 1")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.Invalid("quantity no puede ser negativa")
	}
	if (in.Price != nil && in.Price.IsNegative()) || (in.SupplierPrice != nil && in.SupplierPrice.IsNegative()) {
		return nil, domain.Invalid("los precios no pueden ser negativos")
	}
	if in.ConversionSource != nil && *in.ConversionSource != "" && *in.ConversionSource != current.ConversionSource {
		if err := uc.resolver.ValidateConversionAssignment(ctx, current.ProductID, *in.ConversionSource, id); err != nil {
			return nil, err
		}
	}

	var updated *entity.Variant
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NotFound("variant", id)
		}
		now := time.Now()
		applyPatch(v, in)
		if in.Quantity != nil {
			delta := *in.Quantity - v.Quantity
			switch {
			case delta > 0:
				if err := recordBatch(ctx, repos, v, delta, v.SupplierPrice, now); err != nil {
					return err
				}
			case delta < 0:
				if err := pullOutBatches(ctx, repos.Batches, v.ID, -delta); err != nil {
					return err
				}
			}
			v.Quantity = *in.Quantity
		}
		v.UpdatedAt = now
		if err := repos.Variants.Update(ctx, v); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyPatch(v *entity.Variant, in dto.UpdateVariantRequest) {
	if in.Unit != nil {
		v.Unit = *in.Unit
	}
	if in.Size != nil {
		v.Size = *in.Size
	}
	if in.Color != nil {
		v.Color = *in.Color
	}
	if in.Dimension != nil {
		v.Dimension = *in.Dimension
	}
	if in.Price != nil {
		v.Price = *in.Price
	}
	if in.SupplierPrice != nil {
		v.SupplierPrice = *in.SupplierPrice
	}
	if in.ConversionSource != nil {
		v.ConversionSource = *in.ConversionSource
	}
	if in.ConversionQuantity != nil {
		v.ConversionQuantity = *in.ConversionQuantity
	}
	if in.AutoConvert != nil {
		v.AutoConvert = *in.AutoConvert
	}
}

// Restock suma stock recibido del proveedor, actualiza el último costo y agrega el lote.
func (uc *VariantUseCase) Restock(ctx context.Context, id string, in dto.RestockRequest) (*entity.Variant, error) {
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity debe ser mayor a cero")
	}
	if in.SupplierPrice.IsNegative() {
		return nil, domain.Invalid("supplier_price no puede ser negativo")
	}
	var updated *entity.Variant
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NotFound("variant", id)
		}
		now := time.Now()
		v.Quantity += in.Quantity
		v.SupplierPrice = in.SupplierPrice
		v.UpdatedAt = now
		if err := repos.Variants.Update(ctx, v); err != nil {
			return err
		}
		if err := recordBatch(ctx, repos, v, in.Quantity, in.SupplierPrice, now); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("variant_id", id).Int("quantity", in.Quantity).Msg("reabastecimiento registrado")
	return updated, nil
}

// PullOut retira stock sin venta (devolución a proveedor, corrección). Descuenta de los lotes más antiguos.
func (uc *VariantUseCase) PullOut(ctx context.Context, id string, in dto.PullOutRequest) (*entity.Variant, error) {
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity debe ser mayor a cero")
	}
	var updated *entity.Variant
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NotFound("variant", id)
		}
		if v.Quantity < in.Quantity {
			name, _, err := ProductLabels(ctx, repos, v.ProductID)
			if err != nil {
				return err
			}
			return domain.InsufficientStock(v.ID, name, in.Quantity, v.Quantity)
		}
		v.Quantity -= in.Quantity
		v.UpdatedAt = time.Now()
		if err := repos.Variants.UpdateQuantity(ctx, v.ID, v.Quantity); err != nil {
			return err
		}
		if err := pullOutBatches(ctx, repos.Batches, v.ID, in.Quantity); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("variant_id", id).Int("quantity", in.Quantity).Str("reason", in.Reason).Msg("retiro de stock registrado")
	return updated, nil
}

// DeleteVariant borra la variante y sus lotes. Si tenía stock registra la pérdida valorizada
// al costo promedio ponderado; la pérdida devuelta es nil cuando no había stock.
func (uc *VariantUseCase) DeleteVariant(ctx context.Context, id, userID string, in dto.DeleteVariantRequest) (*entity.InventoryLoss, error) {
	var loss *entity.InventoryLoss
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.NotFound("variant", id)
		}
		if v.Quantity > 0 {
			unitCost, err := weightedAverageCost(ctx, repos.Batches, v)
			if err != nil {
				return err
			}
			name, _, err := ProductLabels(ctx, repos, v.ProductID)
			if err != nil {
				return err
			}
			reason := in.Reason
			if reason == "" {
				reason = "variant deleted"
			}
			loss = &entity.InventoryLoss{
				ID:          uuid.New().String(),
				VariantID:   v.ID,
				ProductName: name,
				Quantity:    v.Quantity,
				Amount:      costing.LossAmount(v.Quantity, unitCost),
				Reason:      reason,
				Notes:       in.Notes,
				CreatedAt:   time.Now(),
				CreatedBy:   userID,
			}
			if err := repos.Losses.Create(ctx, loss); err != nil {
				return err
			}
		}
		if err := repos.Batches.DeleteByVariant(ctx, v.ID); err != nil {
			return err
		}
		if err := repos.Variants.ClearConversionSource(ctx, v.ID); err != nil {
			return err
		}
		return repos.Variants.Delete(ctx, v.ID)
	})
	if err != nil {
		return nil, err
	}
	ev := uc.log.Info().Str("variant_id", id)
	if loss != nil {
		ev = ev.Int("loss_quantity", loss.Quantity).Str("loss_amount", loss.Amount.StringFixed(2))
	}
	ev.Msg("variante eliminada")
	return loss, nil
}

// ProductLabels nombre del producto y de su categoría ("" si no existen).
func ProductLabels(ctx context.Context, repos TxRepos, productID string) (productName, categoryName string, err error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil || product == nil {
		return "", "", err
	}
	if product.CategoryID == "" {
		return product.Name, "", nil
	}
	category, err := repos.Categories.GetByID(ctx, product.CategoryID)
	if err != nil {
		return "", "", err
	}
	if category == nil {
		return product.Name, "", nil
	}
	return product.Name, category.Name, nil
}

// recordBatch agrega un lote al libro con los nombres vigentes del producto y su categoría.
func recordBatch(ctx context.Context, repos TxRepos, v *entity.Variant, quantity int, supplierPrice decimal.Decimal, at time.Time) error {
	if quantity <= 0 {
		return nil
	}
	productName, categoryName, err := ProductLabels(ctx, repos, v.ProductID)
	if err != nil {
		return err
	}
	return repos.Batches.Create(ctx, &entity.SupplyBatch{
		ID:            uuid.New().String(),
		VariantID:     v.ID,
		ProductName:   productName,
		CategoryName:  categoryName,
		Quantity:      quantity,
		SupplierPrice: supplierPrice,
		TotalCost:     supplierPrice.Mul(decimal.NewFromInt(int64(quantity))),
		SuppliedAt:    at,
	})
}

// pullOutBatches marca como retiradas n unidades empezando por el lote más antiguo.
// Si los lotes no alcanzan (stock producido por conversión no tiene lote) el resto se ignora.
func pullOutBatches(ctx context.Context, batches repository.SupplyBatchRepository, variantID string, n int) error {
	list, err := batches.ListByVariant(ctx, variantID)
	if err != nil {
		return err
	}
	for _, b := range list {
		if n == 0 {
			break
		}
		take := min(b.Available(), n)
		if take <= 0 {
			continue
		}
		if err := batches.UpdatePulledOut(ctx, b.ID, b.PulledOutQuantity+take); err != nil {
			return err
		}
		n -= take
	}
	return nil
}
