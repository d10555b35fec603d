package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementLedger define el puerto de persistencia append-only para movimientos
// de inventario. Los listados devuelven siempre el orden de replay canónico:
// fecha ascendente, secuencia ascendente. La secuencia la asigna el almacén al
// registrar (contador estrictamente creciente), de modo que dos movimientos
// del mismo día tienen un orden total inequívoco.
type MovementLedger interface {
	// Append persiste el movimiento y le asigna Secuencia.
	Append(mov *entity.Movimiento) error
	GetByID(id string) (*entity.Movimiento, error)
	// ListByInventario devuelve el historial del inventario, opcionalmente
	// acotado por fechas inclusivas, en orden (fecha ASC, secuencia ASC).
	ListByInventario(idInventario int64, desde, hasta *time.Time) ([]*entity.Movimiento, error)
}
