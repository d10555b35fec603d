package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.InventarioRepository = (*InventarioRepo)(nil)

// InventarioRepo lectura de inventarios (producto × almacén) con nombres
// denormalizados por JOIN para los reportes.
type InventarioRepo struct {
	q Querier
}

// NewInventarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventarioRepository(q Querier) *InventarioRepo {
	return &InventarioRepo{q: q}
}

const inventarioSelect = `
	SELECT i.id, i.id_empresa, i.id_producto, i.id_almacen, p.nombre, a.nombre
	FROM inventarios i
	JOIN productos p ON p.id = i.id_producto
	JOIN almacenes a ON a.id = i.id_almacen`

// GetByID obtiene un inventario por ID. Devuelve nil si no existe.
func (r *InventarioRepo) GetByID(id int64) (*entity.Inventario, error) {
	var inv entity.Inventario
	err := r.q.QueryRow(context.Background(), inventarioSelect+` WHERE i.id = $1`, id).Scan(
		&inv.ID, &inv.IDEmpresa, &inv.IDProducto, &inv.IDAlmacen, &inv.Producto, &inv.Almacen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return &inv, nil
}

// List lista los inventarios de la empresa, filtrables por almacén y/o
// producto, en orden por id para salida estable.
func (r *InventarioRepo) List(idEmpresa int64, idAlmacen, idProducto *int64) ([]*entity.Inventario, error) {
	query := inventarioSelect + ` WHERE i.id_empresa = $1`
	args := []any{idEmpresa}
	pos := 2
	if idAlmacen != nil {
		query += fmt.Sprintf(" AND i.id_almacen = $%d", pos)
		args = append(args, *idAlmacen)
		pos++
	}
	if idProducto != nil {
		query += fmt.Sprintf(" AND i.id_producto = $%d", pos)
		args = append(args, *idProducto)
		pos++
	}
	query += " ORDER BY i.id ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventarios: %w", err)
	}
	defer rows.Close()

	var lista []*entity.Inventario
	for rows.Next() {
		var inv entity.Inventario
		if err := rows.Scan(&inv.ID, &inv.IDEmpresa, &inv.IDProducto, &inv.IDAlmacen,
			&inv.Producto, &inv.Almacen); err != nil {
			return nil, fmt.Errorf("scan inventario: %w", err)
		}
		lista = append(lista, &inv)
	}
	return lista, rows.Err()
}
