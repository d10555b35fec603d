package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// InventarioRepository define el puerto de lectura para inventarios
// (producto × almacén). Solo lectura desde el motor: el alta/baja de
// inventarios es CRUD externo.
type InventarioRepository interface {
	GetByID(id int64) (*entity.Inventario, error)
	// List devuelve los inventarios de la empresa, filtrables por almacén y/o
	// producto, en orden por id para salida estable de reportes.
	List(idEmpresa int64, idAlmacen, idProducto *int64) ([]*entity.Inventario, error)
}
