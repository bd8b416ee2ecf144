package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// EnsureStock
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureStock_ConvierteDesdeOrigenConExcedente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.variant(t, 5, "", 1, false)
	a := f.variant(t, 0, b.ID, 12, true)

	err := f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, a.ID)
		require.NoError(t, err)
		if err := f.resolver.EnsureStock(ctx, repos, v, 20); err != nil {
			return err
		}
		assert.Equal(t, 24, v.Quantity, "el variant en memoria refleja la conversión")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, f.quantity(t, b.ID), "se consumen 2 unidades del origen")
	assert.Equal(t, 24, f.quantity(t, a.ID), "excedente de 4 unidades")
}

func TestEnsureStock_CadenaMultiNivel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// rollo (2) -> caja x10 -> pieza x6
	roll := f.variant(t, 2, "", 1, false)
	box := f.variant(t, 0, roll.ID, 10, true)
	piece := f.variant(t, 0, box.ID, 6, true)

	err := f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, piece.ID)
		require.NoError(t, err)
		return f.resolver.EnsureStock(ctx, repos, v, 13)
	})
	require.NoError(t, err)

	// 13 piezas => 3 cajas => 1 rollo => 10 cajas, quedan 7 tras convertir 3.
	assert.Equal(t, 1, f.quantity(t, roll.ID))
	assert.Equal(t, 7, f.quantity(t, box.ID))
	assert.Equal(t, 18, f.quantity(t, piece.ID))
}

func TestEnsureStock_ConservaUnidades(t *testing.T) {
	for _, tc := range []struct {
		name           string
		sourceQty      int
		ratio          int
		required       int
		wantSourceLeft int
	}{
		{"ratio 1", 10, 1, 4, 6},
		{"ratio 3 exacto", 10, 3, 9, 7},
		{"origen insuficiente", 2, 5, 50, 0},
		{"ratio grande", 1, 100, 1, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			src := f.variant(t, tc.sourceQty, "", 1, false)
			dst := f.variant(t, 0, src.ID, tc.ratio, true)

			require.NoError(t, f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
				v, err := repos.Variants.GetForUpdate(ctx, dst.ID)
				require.NoError(t, err)
				return f.resolver.EnsureStock(ctx, repos, v, tc.required)
			}))

			consumed := tc.sourceQty - f.quantity(t, src.ID)
			assert.Equal(t, tc.wantSourceLeft, f.quantity(t, src.ID))
			assert.Equal(t, consumed*tc.ratio, f.quantity(t, dst.ID), "destino recibe exactamente N×R")
		})
	}
}

func TestEnsureStock_SinEscriturasCuandoAlcanza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.variant(t, 5, "", 1, false)
	a := f.variant(t, 30, b.ID, 12, true)
	before := f.store.Writes()

	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, a.ID)
		require.NoError(t, err)
		return f.resolver.EnsureStock(ctx, repos, v, 20)
	}))

	assert.Equal(t, before, f.store.Writes(), "no debe haber escrituras")
	assert.Equal(t, 5, f.quantity(t, b.ID))
}

func TestEnsureStock_SinAutoConvertNoConvierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.variant(t, 5, "", 1, false)
	a := f.variant(t, 0, b.ID, 12, false)

	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, a.ID)
		require.NoError(t, err)
		return f.resolver.EnsureStock(ctx, repos, v, 1)
	}))
	assert.Equal(t, 0, f.quantity(t, a.ID))
	assert.Equal(t, 5, f.quantity(t, b.ID))
}

func TestEnsureStock_OrigenInexistenteEsCadenaAgotada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.variant(t, 1, "no-existe", 4, true)

	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, a.ID)
		require.NoError(t, err)
		return f.resolver.EnsureStock(ctx, repos, v, 3)
	}))
	assert.Equal(t, 1, f.quantity(t, a.ID))
}

func TestEnsureStock_CicloEnTiempoDeVenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.variant(t, 0, "", 2, true)
	b := f.variant(t, 0, a.ID, 2, true)
	f.link(t, a, b.ID)

	err := f.store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, a.ID)
		require.NoError(t, err)
		return f.resolver.EnsureStock(ctx, repos, v, 1)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCircularConversion))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateConversionAssignment
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateConversion_OrigenInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateConversion_OtroProducto(t *testing.T) {
	f := newFixture(t)
	other := f.variantOf(t, "otro-producto", 1, "", 1, false)
	err := f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, other.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidConversion)
}

func TestValidateConversion_DetectaCiclo(t *testing.T) {
	f := newFixture(t)
	a := f.variant(t, 0, "", 1, false)
	b := f.variant(t, 0, a.ID, 1, false)
	c := f.variant(t, 0, b.ID, 1, false)

	// a <- c cerraría a -> c -> b -> a
	err := f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, c.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrCircularConversion)

	// autoreferencia
	err = f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, a.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrCircularConversion)
}

func TestValidateConversion_CicloPreexistenteTermina(t *testing.T) {
	f := newFixture(t)
	a := f.variant(t, 0, "", 1, false)
	b := f.variant(t, 0, a.ID, 1, false)
	f.link(t, a, b.ID) // ciclo a <-> b ya roto en los datos
	d := f.variant(t, 0, "", 1, false)

	err := f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, a.ID, d.ID)
	assert.ErrorIs(t, err, domain.ErrCircularConversion)
}

func TestValidateConversion_CadenaValida(t *testing.T) {
	f := newFixture(t)
	a := f.variant(t, 0, "", 1, false)
	b := f.variant(t, 0, a.ID, 1, false)
	c := f.variant(t, 0, "", 1, false)

	assert.NoError(t, f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, b.ID, c.ID))
	assert.NoError(t, f.resolver.ValidateConversionAssignment(context.Background(), f.product.ID, b.ID, ""))
}
