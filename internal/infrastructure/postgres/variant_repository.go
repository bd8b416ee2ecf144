package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, unit, size, color, dimension, price, supplier_price, quantity,
	COALESCE(conversion_source::text, ''), conversion_quantity, auto_convert, created_at, updated_at`

// VariantRepo implementación de VariantRepository sobre PostgreSQL (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.Unit, &v.Size, &v.Color, &v.Dimension, &v.Price, &v.SupplierPrice, &v.Quantity,
		&v.ConversionSource, &v.ConversionQuantity, &v.AutoConvert, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste una variante nueva.
func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	query := `
		INSERT INTO variants (id, product_id, unit, size, color, dimension, price, supplier_price, quantity,
			conversion_source, conversion_quantity, auto_convert, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ProductID, v.Unit, v.Size, v.Color, v.Dimension, v.Price, v.SupplierPrice, v.Quantity,
		v.ConversionSource, v.ConversionQuantity, v.AutoConvert, v.CreatedAt, v.UpdatedAt,
	)
	return mapWriteErr("insert variant", err)
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1`, "get variant", id)
}

// GetForUpdate obtiene la variante y bloquea la fila (SELECT FOR UPDATE).
func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.Variant, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1 FOR UPDATE`, "get variant for update", id)
}

func (r *VariantRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return v, nil
}

// Update reescribe los campos editables de la variante.
func (r *VariantRepo) Update(ctx context.Context, v *entity.Variant) error {
	query := `
		UPDATE variants SET unit = $2, size = $3, color = $4, dimension = $5, price = $6, supplier_price = $7,
			quantity = $8, conversion_source = NULLIF($9, '')::uuid, conversion_quantity = $10, auto_convert = $11,
			updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.Unit, v.Size, v.Color, v.Dimension, v.Price, v.SupplierPrice,
		v.Quantity, v.ConversionSource, v.ConversionQuantity, v.AutoConvert, v.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("update variant", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("variant", v.ID)
	}
	return nil
}

// UpdateQuantity fija la cantidad disponible.
func (r *VariantRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE variants SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return mapWriteErr("update variant quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("variant", id)
	}
	return nil
}

// Delete borra la variante.
func (r *VariantRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM variants WHERE id = $1`, id)
	return mapWriteErr("delete variant", err)
}

// ListByProduct lista las variantes del producto por fecha de creación.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error) {
	if !validID(productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+variantColumns+` FROM variants WHERE product_id = $1 ORDER BY created_at, id`, productID)
	if err != nil {
		return nil, wrap("list variants", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, wrap("scan variant", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list variants", err)
	}
	return list, nil
}

// CountByProduct cantidad de variantes del producto.
func (r *VariantRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	if !validID(productID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM variants WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, wrap("count variants", err)
	}
	return n, nil
}

// FindByShape busca una variante del producto con la misma talla, unidad y color.
func (r *VariantRepo) FindByShape(ctx context.Context, productID, size, unit, color string) (*entity.Variant, error) {
	if !validID(productID) {
		return nil, nil
	}
	query := `SELECT ` + variantColumns + ` FROM variants
		WHERE product_id = $1 AND size = $2 AND unit = $3 AND color = $4
		ORDER BY created_at LIMIT 1 FOR UPDATE`
	return r.getOne(ctx, query, "find variant by shape", productID, size, unit, color)
}

// ClearConversionSource quita el origen de conversión a las variantes que apuntan a sourceID.
func (r *VariantRepo) ClearConversionSource(ctx context.Context, sourceID string) error {
	if !validID(sourceID) {
		return nil
	}
	_, err := r.q.Exec(ctx, `UPDATE variants SET conversion_source = NULL, updated_at = now() WHERE conversion_source = $1`, sourceID)
	return mapWriteErr("clear conversion source", err)
}
