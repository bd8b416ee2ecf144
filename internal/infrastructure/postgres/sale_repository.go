package postgres

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, type, COALESCE(reservation_id::text, ''), items, amount_paid, total_price, change, created_at, created_by`

// SaleRepo ventas sobre PostgreSQL. Las líneas (con su snapshot) se guardan como JSONB.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, type, reservation_id, items, amount_paid, total_price, change, created_at, created_by)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Type, s.ReservationID, s.Items, s.AmountPaid, s.TotalPrice, s.Change, s.CreatedAt, s.CreatedBy,
	)
	return mapWriteErr("insert sale", err)
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, "get sale", id)
}

// GetForUpdate obtiene la venta y bloquea la fila.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, "get sale for update", id)
}

func (r *SaleRepo) getOne(ctx context.Context, query, op, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Type, &s.ReservationID, &s.Items, &s.AmountPaid, &s.TotalPrice, &s.Change, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &s, nil
}

// Delete borra la venta (devolución completa).
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	return mapWriteErr("delete sale", err)
}
