package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovimientoEntrada = "ENTRADA"
	MovimientoSalida  = "SALIDA"
)

// Movimiento representa un registro inmutable de entrada o salida contra un
// inventario (producto × almacén), opcionalmente contra un lote.
//
// Nunca se edita en sitio: una corrección se registra como movimiento de
// reversa (ReversaDe apunta al movimiento original) para preservar la pista
// de auditoría append-only.
type Movimiento struct {
	ID                string
	IDInventario      int64
	IDLote            *int64
	Tipo              string          // ENTRADA | SALIDA
	Cantidad          decimal.Decimal // siempre > 0; el signo lo da Tipo
	CostoUnitario     decimal.Decimal // obligatorio en entradas; en salidas lo fija el método de costeo
	CostoTotal        decimal.Decimal
	TipoComprobante   string
	NumeroComprobante string
	Fecha             time.Time
	// Secuencia es un marcador estrictamente creciente asignado al registrar.
	// Desambigua el orden de replay entre movimientos con la misma fecha.
	Secuencia int64
	ReversaDe *string
	CreatedAt time.Time
	CreatedBy string
}

// EsEntrada indica si el movimiento suma stock.
func (m *Movimiento) EsEntrada() bool { return m.Tipo == MovimientoEntrada }

// CantidadFirmada devuelve la cantidad con signo según el tipo.
func (m *Movimiento) CantidadFirmada() decimal.Decimal {
	if m.EsEntrada() {
		return m.Cantidad
	}
	return m.Cantidad.Neg()
}
