package valuation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
)

func lote(id int64, dia int, cantidad, costo float64) *entity.Lote {
	c := decimal.NewFromFloat(cantidad)
	return &entity.Lote{
		ID:              id,
		IDInventario:    1,
		FechaIngreso:    time.Date(2024, time.January, dia, 0, 0, 0, 0, time.UTC),
		CantidadInicial: c,
		CantidadActual:  c,
		CostoUnitario:   decimal.NewFromFloat(costo),
	}
}

// TestConsumirLotes_RepartoEntreLotes verifica el vector clásico: dos lotes
// (10 @ 5.00 y 10 @ 7.00), salida de 15 unidades. Deben salir 10 del lote
// antiguo y 5 del nuevo, con costo total 85.00 y unitario mezclado 5.67
// redondeado a dos decimales.
func TestConsumirLotes_RepartoEntreLotes(t *testing.T) {
	l1 := lote(1, 1, 10, 5.00)
	l2 := lote(2, 15, 10, 7.00)

	res := valuation.ConsumirLotes([]*entity.Lote{l2, l1}, decimal.NewFromInt(15))

	require.True(t, res.Faltante.IsZero(), "los lotes cubren la salida completa")
	require.Len(t, res.Asignaciones, 2)
	assert.Equal(t, int64(1), res.Asignaciones[0].IDLote, "primero el lote más antiguo")
	assert.True(t, res.Asignaciones[0].Cantidad.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(2), res.Asignaciones[1].IDLote)
	assert.True(t, res.Asignaciones[1].Cantidad.Equal(decimal.NewFromInt(5)))

	assert.Equal(t, "85.00", res.CostoTotal().StringFixed(2))
	assert.Equal(t, "5.67", res.CostoUnitarioMezclado().StringFixed(2))

	// Mutación monótona decreciente sobre los lotes consumidos.
	assert.True(t, l1.CantidadActual.IsZero())
	assert.Equal(t, "5.00", l2.CantidadActual.StringFixed(2))
}

// TestConsumirLotes_DesempatePorID lotes con la misma fecha de ingreso se
// consumen por id ascendente para que el resultado sea determinista.
func TestConsumirLotes_DesempatePorID(t *testing.T) {
	l1 := lote(7, 1, 5, 3.00)
	l2 := lote(3, 1, 5, 4.00)

	res := valuation.ConsumirLotes([]*entity.Lote{l1, l2}, decimal.NewFromInt(5))

	require.Len(t, res.Asignaciones, 1)
	assert.Equal(t, int64(3), res.Asignaciones[0].IDLote, "empata la fecha, gana el id menor")
}

// TestConsumirLotes_SaltaAgotados un lote con cantidad cero no participa.
func TestConsumirLotes_SaltaAgotados(t *testing.T) {
	agotado := lote(1, 1, 10, 5.00)
	agotado.CantidadActual = decimal.Zero
	vivo := lote(2, 2, 10, 6.00)

	res := valuation.ConsumirLotes([]*entity.Lote{agotado, vivo}, decimal.NewFromInt(4))

	require.Len(t, res.Asignaciones, 1)
	assert.Equal(t, int64(2), res.Asignaciones[0].IDLote)
	assert.Equal(t, "24.00", res.CostoTotal().StringFixed(2))
}

// TestConsumirLotes_Faltante cuando la salida excede el disponible, Faltante
// reporta cuánto quedó sin cubrir; el caller decide el error.
func TestConsumirLotes_Faltante(t *testing.T) {
	l1 := lote(1, 1, 10, 5.00)

	res := valuation.ConsumirLotes([]*entity.Lote{l1}, decimal.NewFromInt(12))

	assert.Equal(t, "2", res.Faltante.String())
	require.Len(t, res.Asignaciones, 1)
	assert.True(t, res.Asignaciones[0].Cantidad.Equal(decimal.NewFromInt(10)))
}

// TestValorarLotes suma cantidades y valores restantes.
func TestValorarLotes(t *testing.T) {
	l1 := lote(1, 1, 10, 5.00)
	l2 := lote(2, 2, 4, 7.50)

	cant, valor := valuation.ValorarLotes([]*entity.Lote{l1, l2})

	assert.Equal(t, "14.00", cant.StringFixed(2))
	assert.Equal(t, "80.00", valor.StringFixed(2))
}

// TestCostoUnitarioMezclado_SinAsignaciones sin consumo el unitario es cero,
// nunca división por cero.
func TestCostoUnitarioMezclado_SinAsignaciones(t *testing.T) {
	res := valuation.ConsumirLotes(nil, decimal.NewFromInt(5))
	assert.True(t, res.CostoUnitarioMezclado().IsZero())
	assert.Equal(t, "5", res.Faltante.String())
}
