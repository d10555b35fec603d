package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lote representa una partida costeada de stock entrante, consumida en orden
// FIFO. Invariante: 0 ≤ CantidadActual ≤ CantidadInicial. Un lote agotado
// (CantidadActual = 0) se conserva para auditoría, nunca se borra.
type Lote struct {
	ID               int64
	IDInventario     int64
	FechaIngreso     time.Time
	CantidadInicial  decimal.Decimal
	CantidadActual   decimal.Decimal
	CostoUnitario    decimal.Decimal
	FechaVencimiento *time.Time
}

// Agotado indica si el lote no tiene cantidad restante.
func (l *Lote) Agotado() bool { return l.CantidadActual.LessThanOrEqual(decimal.Zero) }

// ValorActual devuelve el valor de la cantidad restante al costo del lote.
func (l *Lote) ValorActual() decimal.Decimal { return l.CantidadActual.Mul(l.CostoUnitario) }
