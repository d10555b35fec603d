package dto

// ValuationItemDTO valoración de un inventario bajo ambos métodos.
// FifoAproximado se marca cuando las cifras FIFO provienen de una
// recomputación abstracta del historial y no de lotes persistidos
// (seguimiento de lotes no activo de forma continua).
type ValuationItemDTO struct {
	IDInventario           int64  `json:"idInventario"`
	Producto               string `json:"producto"`
	Almacen                string `json:"almacen"`
	CantidadActual         string `json:"cantidadActual"`
	ValoracionFIFO         string `json:"valoracionFIFO"`
	CostoUnitarioFIFO      string `json:"costoUnitarioFIFO"`
	ValoracionPromedio     string `json:"valoracionPromedio"`
	CostoUnitarioPromedio  string `json:"costoUnitarioPromedio"`
	DiferenciaFIFOPromedio string `json:"diferencia_FIFO_Promedio"`
	FifoAproximado         bool   `json:"fifoAproximado,omitempty"`
}

// ValuationResumenDTO totales sobre todo el conjunto filtrado (no solo la página).
type ValuationResumenDTO struct {
	CantidadTotal           string `json:"cantidadTotal"`
	ValorTotalFIFO          string `json:"valorTotalFIFO"`
	ValorTotalPromedio      string `json:"valorTotalPromedio"`
	DiferenciaTotalFIFOProm string `json:"diferenciaTotal_FIFO_Promedio"`
}

// ValuationResponse respuesta del reporte de valoración.
type ValuationResponse struct {
	Items      []ValuationItemDTO  `json:"items"`
	Resumen    ValuationResumenDTO `json:"resumen"`
	Pagination Pagination          `json:"pagination"`
}
