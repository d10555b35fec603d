package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LoteRepository define el puerto para lotes costeados (consumo FIFO).
type LoteRepository interface {
	Create(lote *entity.Lote) error
	// ListByInventario devuelve todos los lotes del inventario (incluidos los
	// agotados, que se conservan para auditoría) en orden FIFO.
	ListByInventario(idInventario int64) ([]*entity.Lote, error)
	// ListDisponiblesForUpdate devuelve los lotes con cantidad restante
	// bloqueando las filas (SELECT ... FOR UPDATE). Serializa salidas
	// concurrentes contra el mismo inventario: dos salidas no pueden leer el
	// mismo "restante" y sobreasignar.
	ListDisponiblesForUpdate(idInventario int64) ([]*entity.Lote, error)
	UpdateCantidad(idLote int64, cantidadActual decimal.Decimal) error
}
