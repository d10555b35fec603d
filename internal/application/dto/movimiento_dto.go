package dto

import "github.com/shopspring/decimal"

// RegistrarMovimientoRequest body de POST /api/inventory/movimientos.
// CostoUnitario es obligatorio en entradas; en salidas lo determina el método
// de costeo del período activo. PermitirRetroactivo autoriza explícitamente
// un registro con fecha dentro de un período cerrado.
type RegistrarMovimientoRequest struct {
	IDInventario        int64            `json:"idInventario"`
	Tipo                string           `json:"tipo"` // ENTRADA | SALIDA
	Cantidad            decimal.Decimal  `json:"cantidad"`
	CostoUnitario       *decimal.Decimal `json:"costoUnitario,omitempty"`
	Fecha               string           `json:"fecha"` // ISO 2006-01-02
	TipoComprobante     string           `json:"tipoComprobante,omitempty"`
	NumeroComprobante   string           `json:"numeroComprobante,omitempty"`
	Usuario             string           `json:"usuario,omitempty"`
	PermitirRetroactivo bool             `json:"permitirRetroactivo,omitempty"`
}

// AnularMovimientoRequest body de POST /api/inventory/movimientos/:id/anular.
type AnularMovimientoRequest struct {
	Usuario             string `json:"usuario,omitempty"`
	PermitirRetroactivo bool   `json:"permitirRetroactivo,omitempty"`
}
