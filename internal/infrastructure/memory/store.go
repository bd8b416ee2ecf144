package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// FaultFunc permite inyectar fallos de almacenamiento: op es "<colección>.<operación>", id la entidad.
type FaultFunc func(op, id string) error

// Store almacenamiento en memoria con transacciones copy-on-begin.
// Las transacciones se serializan con un mutex; el commit reemplaza el estado completo.
type Store struct {
	mu     sync.Mutex
	data   *state
	writes int
	fault  FaultFunc
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newState()}
}

// SetFault instala (o quita con nil) el inyector de fallos.
func (s *Store) SetFault(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// Writes cantidad de escrituras ejecutadas (incluye las de transacciones revertidas).
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Run ejecuta fn sobre una copia del estado; solo si fn retorna nil la copia pasa a ser el estado.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, s.reposFor(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Repos repositorios en modo autocommit (fuera de transacción). No usar dentro de Run.
func (s *Store) Repos() inventory.TxRepos {
	return s.reposFor(nil)
}

func (s *Store) reposFor(st *state) inventory.TxRepos {
	v := &view{store: s, st: st}
	repos := inventory.TxRepos{
		Variants:     &variantRepo{v},
		Batches:      &batchRepo{v},
		Losses:       &lossRepo{v},
		Sales:        &saleRepo{v},
		Reservations: &reservationRepo{v},
		Products:     &productRepo{v},
		Categories:   &categoryRepo{v},
	}
	repos.Savepoint = func(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
		if st == nil {
			return s.Run(ctx, fn)
		}
		snapshot := st.clone()
		if err := fn(ctx, s.reposFor(st)); err != nil {
			*st = *snapshot
			return err
		}
		return nil
	}
	return repos
}

// view resuelve sobre qué estado opera un repositorio: el de la transacción o el confirmado.
type view struct {
	store *Store
	st    *state
}

func (v *view) read(fn func(st *state) error) error {
	if v.st != nil {
		return fn(v.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

// write aplica fn contando la escritura; en modo autocommit fn opera sobre el estado confirmado.
// Con el mutex tomado por Run, fault y writes se acceden sin volver a bloquear.
func (v *view) write(op, id string, fn func(st *state) error) error {
	apply := func(st *state) error {
		if v.store.fault != nil {
			if err := v.store.fault(op, id); err != nil {
				return err
			}
		}
		v.store.writes++
		return fn(st)
	}
	if v.st != nil {
		return apply(v.st)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return apply(v.store.data)
}

type state struct {
	variants     map[string]entity.Variant
	batches      map[string]entity.SupplyBatch
	losses       []entity.InventoryLoss
	sales        map[string]entity.Sale
	reservations map[string]entity.Reservation
	details      map[string][]entity.ReservationDetail
	products     map[string]entity.Product
	categories   map[string]entity.Category
}

func newState() *state {
	return &state{
		variants:     make(map[string]entity.Variant),
		batches:      make(map[string]entity.SupplyBatch),
		sales:        make(map[string]entity.Sale),
		reservations: make(map[string]entity.Reservation),
		details:      make(map[string][]entity.ReservationDetail),
		products:     make(map[string]entity.Product),
		categories:   make(map[string]entity.Category),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	c.losses = append([]entity.InventoryLoss(nil), s.losses...)
	for k, v := range s.sales {
		v.Items = append([]entity.LineItem(nil), v.Items...)
		c.sales[k] = v
	}
	for k, v := range s.reservations {
		if v.CompletedAt != nil {
			at := *v.CompletedAt
			v.CompletedAt = &at
		}
		c.reservations[k] = v
	}
	for k, v := range s.details {
		c.details[k] = append([]entity.ReservationDetail(nil), v...)
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	return c
}
