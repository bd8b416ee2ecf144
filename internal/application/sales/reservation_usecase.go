package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// ReservationUseCase crea y cancela reservas. Crear una reserva bloquea precios pero no descuenta stock;
// el descuento ocurre al completarla (FulfillmentUseCase.CompleteReservation).
type ReservationUseCase struct {
	txRunner     inventory.TxRunner
	reservations repository.ReservationRepository
	log          *logger.Logger
}

// NewReservationUseCase construye el caso de uso. reservations se usa para lecturas fuera de transacción.
func NewReservationUseCase(txRunner inventory.TxRunner, reservations repository.ReservationRepository, log *logger.Logger) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, reservations: reservations, log: log}
}

// CreateReservation registra la reserva con un detalle por línea y el precio bloqueado
// (el del carrito si viene, si no el precio actual de la variante).
func (uc *ReservationUseCase) CreateReservation(ctx context.Context, in dto.CreateReservationRequest) (*entity.Reservation, []*entity.ReservationDetail, error) {
	if in.CustomerName == "" {
		return nil, nil, domain.Invalid("customer_name es obligatorio")
	}
	lines, err := linesFromCart(in.Items)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	reservation := &entity.Reservation{
		ID:           uuid.New().String(),
		CustomerName: in.CustomerName,
		Status:       entity.ReservationStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var details []*entity.ReservationDetail
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		items := make([]entity.LineItem, 0, len(lines))
		for _, l := range lines {
			v, err := repos.Variants.GetByID(ctx, l.variantID)
			if err != nil {
				return err
			}
			if v == nil {
				return domain.NotFound("variant", l.variantID)
			}
			snap, err := snapshotOf(ctx, repos, v)
			if err != nil {
				return err
			}
			price := v.Price
			if l.price != nil {
				price = *l.price
			}
			items = append(items, entity.NewLineItem(v.ID, snap, l.quantity, price))
		}
		reservation.TotalPrice = entity.TotalOf(items)
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			return err
		}
		details = make([]*entity.ReservationDetail, 0, len(items))
		for _, it := range items {
			d := &entity.ReservationDetail{ID: uuid.New().String(), ReservationID: reservation.ID, Item: it}
			if err := repos.Reservations.CreateDetail(ctx, d); err != nil {
				return err
			}
			details = append(details, d)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().Str("reservation_id", reservation.ID).Str("total", reservation.TotalPrice.StringFixed(2)).Msg("reserva creada")
	return reservation, details, nil
}

// GetReservation devuelve la reserva con sus detalles o NotFound.
func (uc *ReservationUseCase) GetReservation(ctx context.Context, id string) (*entity.Reservation, []*entity.ReservationDetail, error) {
	r, err := uc.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return nil, nil, domain.NotFound("reservation", id)
	}
	details, err := uc.reservations.ListDetails(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return r, details, nil
}

// CancelReservation pasa una reserva pendiente a cancelled. No hay stock que devolver.
func (uc *ReservationUseCase) CancelReservation(ctx context.Context, id string) (*entity.Reservation, error) {
	var out *entity.Reservation
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		r, err := repos.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.NotFound("reservation", id)
		}
		if r.Status != entity.ReservationStatusPending {
			return &domain.Error{Kind: domain.ErrInvalidInput, Entity: "reservation", ID: id, Detail: "la reserva está " + r.Status}
		}
		r.Status = entity.ReservationStatusCancelled
		r.UpdatedAt = time.Now()
		if err := repos.Reservations.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
