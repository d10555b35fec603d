package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El movimiento y sus decrementos de lote
// comiten juntos o no comiten: atomicidad del asiento de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledger repository.MovementLedger,
		lotes repository.LoteRepository,
	) error) error
}
