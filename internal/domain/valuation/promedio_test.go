package valuation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
)

// TestPromedio_EntradaRecalcula la entrada recalcula el promedio como media
// ponderada: 10 @ 5.00 más 10 @ 7.00 da 20 unidades a 6.00.
func TestPromedio_EntradaRecalcula(t *testing.T) {
	tr := valuation.NewPromedioTracker()

	tr.AplicarEntrada(decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	tr.AplicarEntrada(decimal.NewFromInt(10), decimal.NewFromFloat(7.00))

	cant, costo := tr.Estado()
	assert.Equal(t, "20.00", cant.StringFixed(2))
	assert.Equal(t, "6.00", costo.StringFixed(2))
	assert.Equal(t, "120.00", tr.Valor().StringFixed(2))
}

// TestPromedio_SalidaNoAlteraPromedio la salida descuenta cantidad al promedio
// vigente y lo deja intacto: es el corazón del método.
func TestPromedio_SalidaNoAlteraPromedio(t *testing.T) {
	tr := valuation.NewPromedioTracker()
	tr.AplicarEntrada(decimal.NewFromInt(10), decimal.NewFromFloat(5.00))
	tr.AplicarEntrada(decimal.NewFromInt(10), decimal.NewFromFloat(7.00))

	costoUsado, err := tr.AplicarSalida(decimal.NewFromInt(8))
	require.NoError(t, err)

	assert.Equal(t, "6.00", costoUsado.StringFixed(2), "la salida se costea al promedio vigente")
	cant, costo := tr.Estado()
	assert.Equal(t, "12.00", cant.StringFixed(2))
	assert.Equal(t, "6.00", costo.StringFixed(2), "el promedio no cambia con salidas")
}

// TestPromedio_SalidaExcedente una salida mayor al disponible devuelve
// ErrInsufficientStock y no muta el estado.
func TestPromedio_SalidaExcedente(t *testing.T) {
	tr := valuation.NewPromedioTracker()
	tr.AplicarEntrada(decimal.NewFromInt(5), decimal.NewFromFloat(4.00))

	_, err := tr.AplicarSalida(decimal.NewFromInt(6))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	cant, costo := tr.Estado()
	assert.Equal(t, "5.00", cant.StringFixed(2), "el estado queda intacto tras el rechazo")
	assert.Equal(t, "4.00", costo.StringFixed(2))
}

// TestPromedio_ReinicioEnCero al llegar la cantidad exactamente a cero el
// promedio se reinicia; la siguiente entrada define el costo desde cero.
func TestPromedio_ReinicioEnCero(t *testing.T) {
	tr := valuation.NewPromedioTracker()
	tr.AplicarEntrada(decimal.NewFromInt(10), decimal.NewFromFloat(5.00))

	_, err := tr.AplicarSalida(decimal.NewFromInt(10))
	require.NoError(t, err)

	cant, costo := tr.Estado()
	assert.True(t, cant.IsZero())
	assert.True(t, costo.IsZero(), "con cantidad cero el promedio vuelve a cero")

	tr.AplicarEntrada(decimal.NewFromInt(4), decimal.NewFromFloat(9.00))
	cant, costo = tr.Estado()
	assert.Equal(t, "4.00", cant.StringFixed(2))
	assert.Equal(t, "9.00", costo.StringFixed(2), "la entrada tras el reinicio arranca promedio fresco")
}
