package entity

// Inventario identifica un producto dentro de un almacén para una empresa.
// El stock actual nunca se almacena: se deriva siempre del replay de
// movimientos (o de la suma de lotes), para que ningún contador independiente
// pueda divergir del historial.
type Inventario struct {
	ID         int64
	IDEmpresa  int64
	IDProducto int64
	IDAlmacen  int64
	// Nombres denormalizados por el JOIN de lectura; solo para reportes.
	Producto string
	Almacen  string
}
