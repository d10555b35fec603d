package dto

// KardexMovimientoDTO una fila del kardex. Los numéricos viajan como string
// decimal con dos dígitos para evitar deriva de coma flotante en los totales.
type KardexMovimientoDTO struct {
	Fecha             string `json:"fecha"`
	Tipo              string `json:"tipo"`
	TipoComprobante   string `json:"tipoComprobante"`
	NumeroComprobante string `json:"numeroComprobante"`
	Cantidad          string `json:"cantidad"`
	CostoUnitario     string `json:"costoUnitario"`
	CostoTotal        string `json:"costoTotal"`
	Saldo             string `json:"saldo"`
	SaldoValor        string `json:"saldoValor"`
}

// KardexResumenDTO saldo final del rango consultado; independiente de la página.
type KardexResumenDTO struct {
	CantidadActual string `json:"cantidadActual"`
	SaldoActual    string `json:"saldoActual"`
	CostoFinal     string `json:"costoFinal"`
}

// KardexResponse respuesta de GET /api/kardex/:idInventario.
type KardexResponse struct {
	Movimientos []KardexMovimientoDTO `json:"movimientos"`
	Resumen     KardexResumenDTO      `json:"resumen"`
	Pagination  Pagination            `json:"pagination"`
}
