package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación de LoteRepository sobre PostgreSQL (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

// Create persiste un lote nuevo y asigna su ID.
func (r *LoteRepo) Create(lote *entity.Lote) error {
	query := `
		INSERT INTO lotes (id_inventario, fecha_ingreso, cantidad_inicial, cantidad_actual, costo_unitario, fecha_vencimiento)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		lote.IDInventario, lote.FechaIngreso, lote.CantidadInicial, lote.CantidadActual,
		lote.CostoUnitario, lote.FechaVencimiento,
	).Scan(&lote.ID)
	if err != nil {
		return fmt.Errorf("create lote: %w", err)
	}
	return nil
}

// ListByInventario lista todos los lotes del inventario (incluidos agotados)
// en orden FIFO: fecha de ingreso ascendente, id ascendente.
func (r *LoteRepo) ListByInventario(idInventario int64) ([]*entity.Lote, error) {
	query := `
		SELECT id, id_inventario, fecha_ingreso, cantidad_inicial, cantidad_actual, costo_unitario, fecha_vencimiento
		FROM lotes WHERE id_inventario = $1
		ORDER BY fecha_ingreso ASC, id ASC`
	return r.listar(query, idInventario)
}

// ListDisponiblesForUpdate lista los lotes con restante bloqueando las filas
// (SELECT ... FOR UPDATE). Serializa salidas concurrentes contra el mismo
// inventario dentro de la transacción del caller.
func (r *LoteRepo) ListDisponiblesForUpdate(idInventario int64) ([]*entity.Lote, error) {
	query := `
		SELECT id, id_inventario, fecha_ingreso, cantidad_inicial, cantidad_actual, costo_unitario, fecha_vencimiento
		FROM lotes WHERE id_inventario = $1 AND cantidad_actual > 0
		ORDER BY fecha_ingreso ASC, id ASC
		FOR UPDATE`
	return r.listar(query, idInventario)
}

// UpdateCantidad fija la cantidad restante del lote. La constraint de la
// tabla garantiza 0 <= cantidad_actual <= cantidad_inicial.
func (r *LoteRepo) UpdateCantidad(idLote int64, cantidadActual decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE lotes SET cantidad_actual = $2 WHERE id = $1`, idLote, cantidadActual)
	if err != nil {
		return fmt.Errorf("update cantidad de lote: %w", err)
	}
	return nil
}

func (r *LoteRepo) listar(query string, idInventario int64) ([]*entity.Lote, error) {
	rows, err := r.q.Query(context.Background(), query, idInventario)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Lote
	for rows.Next() {
		var l entity.Lote
		if err := rows.Scan(&l.ID, &l.IDInventario, &l.FechaIngreso, &l.CantidadInicial,
			&l.CantidadActual, &l.CostoUnitario, &l.FechaVencimiento); err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		lista = append(lista, &l)
	}
	return lista, rows.Err()
}
