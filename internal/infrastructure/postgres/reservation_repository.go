package postgres

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id, customer_name, status, total_price, COALESCE(sale_id::text, ''), created_at, updated_at, completed_at`

// ReservationRepo reservas y detalles sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create persiste la cabecera de la reserva.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, customer_name, status, total_price, sale_id, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.CustomerName, res.Status, res.TotalPrice, res.SaleID, res.CreatedAt, res.UpdatedAt, res.CompletedAt,
	)
	return mapWriteErr("insert reservation", err)
}

// CreateDetail agrega una línea con su precio bloqueado.
func (r *ReservationRepo) CreateDetail(ctx context.Context, d *entity.ReservationDetail) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO reservation_details (id, reservation_id, item) VALUES ($1, $2, $3)`,
		d.ID, d.ReservationID, d.Item,
	)
	return mapWriteErr("insert reservation detail", err)
}

// GetByID obtiene una reserva por ID.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, "get reservation", id)
}

// GetForUpdate obtiene la reserva y bloquea la fila.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, "get reservation for update", id)
}

func (r *ReservationRepo) getOne(ctx context.Context, query, op, id string) (*entity.Reservation, error) {
	var res entity.Reservation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.CustomerName, &res.Status, &res.TotalPrice, &res.SaleID, &res.CreatedAt, &res.UpdatedAt, &res.CompletedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &res, nil
}

// ListDetails líneas de la reserva en orden de inserción.
func (r *ReservationRepo) ListDetails(ctx context.Context, reservationID string) ([]*entity.ReservationDetail, error) {
	if !validID(reservationID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, reservation_id, item FROM reservation_details WHERE reservation_id = $1 ORDER BY position`,
		reservationID,
	)
	if err != nil {
		return nil, wrap("list reservation details", err)
	}
	defer rows.Close()
	var list []*entity.ReservationDetail
	for rows.Next() {
		var d entity.ReservationDetail
		if err := rows.Scan(&d.ID, &d.ReservationID, &d.Item); err != nil {
			return nil, wrap("scan reservation detail", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reservation details", err)
	}
	return list, nil
}

// Update actualiza estado, venta asociada y fechas.
func (r *ReservationRepo) Update(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE reservations SET status = $2, total_price = $3, sale_id = NULLIF($4, '')::uuid,
			updated_at = $5, completed_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, res.ID, res.Status, res.TotalPrice, res.SaleID, res.UpdatedAt, res.CompletedAt)
	if err != nil {
		return mapWriteErr("update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("reservation", res.ID)
	}
	return nil
}
