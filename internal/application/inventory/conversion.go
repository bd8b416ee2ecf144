package inventory

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// ConversionResolver valida y recorre las aristas de conversión entre variantes y
// cubre faltantes consumiendo stock del origen a razón fija.
type ConversionResolver struct {
	variants repository.VariantRepository
	log      *logger.Logger
}

// NewConversionResolver construye el resolver. variants se usa para lecturas fuera de transacción.
func NewConversionResolver(variants repository.VariantRepository, log *logger.Logger) *ConversionResolver {
	return &ConversionResolver{variants: variants, log: log}
}

// ValidateConversionAssignment verifica que candidateSourceID pueda ser origen de conversión
// de una variante del producto productID. variantID vacío significa alta (no hay ciclo posible).
// Solo lectura; no es atómica con la escritura posterior.
func (r *ConversionResolver) ValidateConversionAssignment(ctx context.Context, productID, candidateSourceID, variantID string) error {
	source, err := r.variants.GetByID(ctx, candidateSourceID)
	if err != nil {
		return err
	}
	if source == nil {
		return domain.NotFound("variant", candidateSourceID)
	}
	if source.ProductID != productID {
		return &domain.Error{
			Kind:   domain.ErrInvalidConversion,
			Entity: "variant",
			ID:     candidateSourceID,
			Detail: "el origen debe ser del producto " + productID,
		}
	}
	if variantID == "" {
		return nil
	}

	// Recorre la cadena desde el candidato; visited acota un ciclo ya existente.
	visited := make(map[string]struct{})
	current := source
	for current != nil {
		if current.ID == variantID {
			return domain.CircularConversion(variantID)
		}
		if _, seen := visited[current.ID]; seen {
			return domain.CircularConversion(current.ID)
		}
		visited[current.ID] = struct{}{}
		if !current.HasConversionSource() {
			return nil
		}
		current, err = r.variants.GetByID(ctx, current.ConversionSource)
		if err != nil {
			return err
		}
	}
	return nil
}

// EnsureStock intenta que variant tenga al menos required unidades convirtiendo stock de su origen
// (recursivamente por la cadena). Modifica variant en memoria y persiste con repos.
// No garantiza cubrir el requerimiento: el caller debe volver a comparar Quantity >= required.
func (r *ConversionResolver) EnsureStock(ctx context.Context, repos TxRepos, variant *entity.Variant, required int) error {
	return r.ensureStock(ctx, repos, variant, required, map[string]struct{}{}, 0)
}

func (r *ConversionResolver) ensureStock(
	ctx context.Context,
	repos TxRepos,
	variant *entity.Variant,
	required int,
	visiting map[string]struct{},
	maxDepth int,
) error {
	if !variant.AutoConvert || !variant.HasConversionSource() || required <= 0 || variant.Quantity >= required {
		return nil
	}
	if _, ok := visiting[variant.ID]; ok {
		return domain.CircularConversion(variant.ID)
	}
	// La profundidad de una cadena válida nunca supera el total de variantes del producto.
	if maxDepth == 0 {
		n, err := repos.Variants.CountByProduct(ctx, variant.ProductID)
		if err != nil {
			return err
		}
		maxDepth = max(n, 1)
	}
	if len(visiting) >= maxDepth {
		return domain.CircularConversion(variant.ID)
	}

	ratio := variant.ConversionQuantity
	if ratio < 1 {
		ratio = 1
	}
	shortage := required - variant.Quantity
	sourceUnitsNeeded := (shortage + ratio - 1) / ratio

	source, err := repos.Variants.GetForUpdate(ctx, variant.ConversionSource)
	if err != nil {
		return err
	}
	if source == nil {
		r.log.Warn().
			Str("variant_id", variant.ID).
			Str("source_id", variant.ConversionSource).
			Msg("origen de conversión inexistente, cadena agotada")
		return nil
	}

	next := make(map[string]struct{}, len(visiting)+1)
	for id := range visiting {
		next[id] = struct{}{}
	}
	next[variant.ID] = struct{}{}
	if err := r.ensureStock(ctx, repos, source, sourceUnitsNeeded, next, maxDepth); err != nil {
		return err
	}

	// Conversión en unidades enteras del origen; puede sobrepasar hasta ratio-1 unidades.
	converted := min(sourceUnitsNeeded, source.Quantity)
	if converted <= 0 {
		return nil
	}
	source.Quantity -= converted
	variant.Quantity += converted * ratio

	if err := repos.Variants.UpdateQuantity(ctx, source.ID, source.Quantity); err != nil {
		return err
	}
	if err := repos.Variants.UpdateQuantity(ctx, variant.ID, variant.Quantity); err != nil {
		return err
	}
	r.log.Debug().
		Str("variant_id", variant.ID).
		Str("source_id", source.ID).
		Int("source_units", converted).
		Int("produced_units", converted*ratio).
		Msg("conversión de stock aplicada")
	return nil
}
