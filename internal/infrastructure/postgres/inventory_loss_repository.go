package postgres

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

var _ repository.InventoryLossRepository = (*InventoryLossRepo)(nil)

// InventoryLossRepo pérdidas de inventario (solo inserción) sobre PostgreSQL.
type InventoryLossRepo struct {
	q Querier
}

// NewInventoryLossRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLossRepository(q Querier) *InventoryLossRepo {
	return &InventoryLossRepo{q: q}
}

// Create registra una pérdida.
func (r *InventoryLossRepo) Create(ctx context.Context, l *entity.InventoryLoss) error {
	query := `
		INSERT INTO inventory_loss (id, variant_id, product_name, quantity, amount, reason, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.VariantID, l.ProductName, l.Quantity, l.Amount, l.Reason, l.Notes, l.CreatedAt, l.CreatedBy,
	)
	return mapWriteErr("insert inventory loss", err)
}

// ListByVariant pérdidas registradas para la variante (la variante puede ya no existir).
func (r *InventoryLossRepo) ListByVariant(ctx context.Context, variantID string) ([]*entity.InventoryLoss, error) {
	if !validID(variantID) {
		return nil, nil
	}
	query := `
		SELECT id, variant_id, product_name, quantity, amount, reason, notes, created_at, created_by
		FROM inventory_loss WHERE variant_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, wrap("list inventory loss", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLoss
	for rows.Next() {
		var l entity.InventoryLoss
		if err := rows.Scan(
			&l.ID, &l.VariantID, &l.ProductName, &l.Quantity, &l.Amount, &l.Reason, &l.Notes, &l.CreatedAt, &l.CreatedBy,
		); err != nil {
			return nil, wrap("scan inventory loss", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list inventory loss", err)
	}
	return list, nil
}
