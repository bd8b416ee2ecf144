package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// ReservationRepository define el puerto para reservas y sus detalles.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	CreateDetail(ctx context.Context, d *entity.ReservationDetail) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	ListDetails(ctx context.Context, reservationID string) ([]*entity.ReservationDetail, error)
	Update(ctx context.Context, r *entity.Reservation) error
}
