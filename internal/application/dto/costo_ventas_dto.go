package dto

// DatoMensualDTO compras, salidas e inventario final de un mes.
// InventarioFinal es acumulado en el año hasta el cierre del mes, no una
// cifra aislada del mes.
type DatoMensualDTO struct {
	Mes             int    `json:"mes"`
	NombreMes       string `json:"nombreMes"`
	ComprasTotales  string `json:"comprasTotales"`
	SalidasTotales  string `json:"salidasTotales"`
	InventarioFinal string `json:"inventarioFinal"`
}

// CostoVentasSumatoriasDTO totales anuales.
type CostoVentasSumatoriasDTO struct {
	TotalComprasAnual    string `json:"totalComprasAnual"`
	TotalSalidasAnual    string `json:"totalSalidasAnual"`
	InventarioFinalAnual string `json:"inventarioFinalAnual"`
}

// CostoVentasMensualResponse reporte mensual de costo de ventas.
type CostoVentasMensualResponse struct {
	Anio            int                      `json:"año"`
	Almacen         string                   `json:"almacen,omitempty"`
	Producto        string                   `json:"producto,omitempty"`
	DatosMensuales  []DatoMensualDTO         `json:"datosMensuales"`
	Sumatorias      CostoVentasSumatoriasDTO `json:"sumatorias"`
	FechaGeneracion string                   `json:"fechaGeneracion"`
}

// CostoVentasItemDTO variante por inventario: mismo triple
// entradas/salidas/saldo final, agrupado por (producto, almacén) en el año.
type CostoVentasItemDTO struct {
	IDInventario    int64  `json:"idInventario"`
	Producto        string `json:"producto"`
	Almacen         string `json:"almacen"`
	ComprasTotales  string `json:"comprasTotales"`
	SalidasTotales  string `json:"salidasTotales"`
	InventarioFinal string `json:"inventarioFinal"`
}

// CostoVentasPorInventarioResponse reporte anual agrupado por inventario.
type CostoVentasPorInventarioResponse struct {
	Anio            int                      `json:"año"`
	Items           []CostoVentasItemDTO     `json:"items"`
	Sumatorias      CostoVentasSumatoriasDTO `json:"sumatorias"`
	FechaGeneracion string                   `json:"fechaGeneracion"`
}
