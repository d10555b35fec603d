// Package valuation implementa los servicios de dominio de costeo:
// consumo de lotes FIFO y costo promedio ponderado.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// PromedioTracker mantiene el estado corriente (cantidad, costo promedio) de
// un inventario bajo costo promedio ponderado. Las entradas recalculan el
// promedio como media ponderada por cantidad; las salidas solo reducen
// cantidad y nunca alteran el promedio.
type PromedioTracker struct {
	cantidad      decimal.Decimal
	costoPromedio decimal.Decimal
}

// NewPromedioTracker inicia el estado en cero.
func NewPromedioTracker() *PromedioTracker {
	return &PromedioTracker{cantidad: decimal.Zero, costoPromedio: decimal.Zero}
}

// AplicarEntrada suma cantidad y recalcula el promedio:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Tras pasar por cantidad cero, la entrada arranca un promedio fresco con su propio costo.
func (t *PromedioTracker) AplicarEntrada(cantidad, costoUnitario decimal.Decimal) {
	suma := t.cantidad.Add(cantidad)
	if suma.LessThanOrEqual(decimal.Zero) {
		t.cantidad = suma
		t.costoPromedio = decimal.Zero
		return
	}
	num := t.cantidad.Mul(t.costoPromedio).Add(cantidad.Mul(costoUnitario))
	t.costoPromedio = num.Div(suma)
	t.cantidad = suma
}

// AplicarSalida descuenta cantidad al promedio vigente y devuelve el costo
// unitario usado. Si la salida excede el disponible devuelve
// domain.ErrInsufficientStock sin mutar el estado.
func (t *PromedioTracker) AplicarSalida(cantidad decimal.Decimal) (decimal.Decimal, error) {
	if cantidad.GreaterThan(t.cantidad) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	costo := t.costoPromedio
	t.cantidad = t.cantidad.Sub(cantidad)
	if t.cantidad.IsZero() {
		// Con cantidad exactamente cero el promedio se reinicia; la próxima
		// entrada define el costo desde cero.
		t.costoPromedio = decimal.Zero
	}
	return costo, nil
}

// Estado devuelve la cantidad y el costo promedio corrientes.
func (t *PromedioTracker) Estado() (cantidad, costoPromedio decimal.Decimal) {
	return t.cantidad, t.costoPromedio
}

// Valor devuelve cantidad × costo promedio.
func (t *PromedioTracker) Valor() decimal.Decimal {
	return t.cantidad.Mul(t.costoPromedio)
}
