package postgres

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

var _ repository.SupplyBatchRepository = (*SupplyBatchRepo)(nil)

// SupplyBatchRepo libro de abastecimiento sobre PostgreSQL.
type SupplyBatchRepo struct {
	q Querier
}

// NewSupplyBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyBatchRepository(q Querier) *SupplyBatchRepo {
	return &SupplyBatchRepo{q: q}
}

// Create agrega un lote.
func (r *SupplyBatchRepo) Create(ctx context.Context, b *entity.SupplyBatch) error {
	query := `
		INSERT INTO supply_batches (id, variant_id, product_name, category_name, quantity, supplier_price,
			total_cost, supplied_at, pulled_out_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.VariantID, b.ProductName, b.CategoryName, b.Quantity, b.SupplierPrice,
		b.TotalCost, b.SuppliedAt, b.PulledOutQuantity,
	)
	return mapWriteErr("insert supply batch", err)
}

// ListByVariant lotes de la variante, del más antiguo al más reciente.
func (r *SupplyBatchRepo) ListByVariant(ctx context.Context, variantID string) ([]*entity.SupplyBatch, error) {
	if !validID(variantID) {
		return nil, nil
	}
	query := `
		SELECT id, variant_id, product_name, category_name, quantity, supplier_price, total_cost,
			supplied_at, pulled_out_quantity
		FROM supply_batches WHERE variant_id = $1
		ORDER BY supplied_at, id`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, wrap("list supply batches", err)
	}
	defer rows.Close()
	var list []*entity.SupplyBatch
	for rows.Next() {
		var b entity.SupplyBatch
		if err := rows.Scan(
			&b.ID, &b.VariantID, &b.ProductName, &b.CategoryName, &b.Quantity, &b.SupplierPrice, &b.TotalCost,
			&b.SuppliedAt, &b.PulledOutQuantity,
		); err != nil {
			return nil, wrap("scan supply batch", err)
		}
		list = append(list, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list supply batches", err)
	}
	return list, nil
}

// UpdatePulledOut fija la cantidad retirada del lote.
func (r *SupplyBatchRepo) UpdatePulledOut(ctx context.Context, id string, pulledOut int) error {
	tag, err := r.q.Exec(ctx, `UPDATE supply_batches SET pulled_out_quantity = $2 WHERE id = $1`, id, pulledOut)
	if err != nil {
		return mapWriteErr("update pulled out", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("supply_batch", id)
	}
	return nil
}

// DeleteByVariant borra en cascada los lotes de una variante.
func (r *SupplyBatchRepo) DeleteByVariant(ctx context.Context, variantID string) error {
	if !validID(variantID) {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM supply_batches WHERE variant_id = $1`, variantID)
	return mapWriteErr("delete supply batches", err)
}

// LatestCategoryByProductName categoría del lote más reciente con ese nombre de producto.
func (r *SupplyBatchRepo) LatestCategoryByProductName(ctx context.Context, productName string) (string, error) {
	query := `
		SELECT category_name FROM supply_batches
		WHERE lower(product_name) = lower($1) AND category_name <> ''
		ORDER BY supplied_at DESC LIMIT 1`
	var name string
	if err := r.q.QueryRow(ctx, query, productName).Scan(&name); err != nil {
		if noRows(err) {
			return "", nil
		}
		return "", wrap("latest category by product", err)
	}
	return name, nil
}
