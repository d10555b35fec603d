package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementLedger = (*MovimientoRepo)(nil)

// MovimientoRepo implementación del ledger de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: sin UPDATE ni DELETE.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

const movimientoColumnas = `
	id, id_inventario, id_lote, tipo, cantidad, costo_unitario, costo_total,
	tipo_comprobante, numero_comprobante, fecha, secuencia, reversa_de, created_at, created_by`

// Append persiste el movimiento. La secuencia la asigna la BD (bigserial):
// marcador estrictamente creciente que desambigua registros del mismo día.
func (r *MovimientoRepo) Append(mov *entity.Movimiento) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos (id, id_inventario, id_lote, tipo, cantidad, costo_unitario, costo_total,
			tipo_comprobante, numero_comprobante, fecha, reversa_de, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING secuencia`
	createdBy := (*string)(nil)
	if mov.CreatedBy != "" {
		createdBy = &mov.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		mov.ID, mov.IDInventario, mov.IDLote, mov.Tipo, mov.Cantidad, mov.CostoUnitario, mov.CostoTotal,
		mov.TipoComprobante, mov.NumeroComprobante, mov.Fecha, mov.ReversaDe, mov.CreatedAt, createdBy,
	).Scan(&mov.Secuencia)
	if err != nil {
		return fmt.Errorf("append movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovimientoRepo) GetByID(id string) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumnas + ` FROM movimientos WHERE id = $1`
	mov, err := scanMovimiento(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return mov, nil
}

// ListByInventario lista el historial del inventario en el orden de replay
// canónico (fecha ASC, secuencia ASC), opcionalmente acotado por fechas
// inclusivas.
func (r *MovimientoRepo) ListByInventario(idInventario int64, desde, hasta *time.Time) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumnas + ` FROM movimientos WHERE id_inventario = $1`
	args := []any{idInventario}
	pos := 2
	if desde != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *desde)
		pos++
	}
	if hasta != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *hasta)
		pos++
	}
	query += " ORDER BY fecha ASC, secuencia ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Movimiento
	for rows.Next() {
		mov, err := scanMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		lista = append(lista, mov)
	}
	return lista, rows.Err()
}

func scanMovimiento(row pgx.Row) (*entity.Movimiento, error) {
	var m entity.Movimiento
	var idLote *int64
	var reversaDe, createdBy *string
	err := row.Scan(
		&m.ID, &m.IDInventario, &idLote, &m.Tipo, &m.Cantidad, &m.CostoUnitario, &m.CostoTotal,
		&m.TipoComprobante, &m.NumeroComprobante, &m.Fecha, &m.Secuencia, &reversaDe, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.IDLote = idLote
	m.ReversaDe = reversaDe
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
