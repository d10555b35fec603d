package dto

// CrearPeriodoRequest body de POST /api/periodos.
type CrearPeriodoRequest struct {
	IDEmpresa        int64  `json:"idEmpresa"`
	Anio             int    `json:"año"`
	MetodoValoracion string `json:"metodoValoracion"` // FIFO | PROMEDIO
}

// CerrarPeriodoRequest body de POST /api/periodos/:id/cerrar.
// Usuario es obligatorio: el cierre queda auditado.
type CerrarPeriodoRequest struct {
	Usuario string `json:"usuario"`
	Notas   string `json:"notas,omitempty"`
}

// ReabrirPeriodoRequest body de POST /api/periodos/:id/reabrir.
type ReabrirPeriodoRequest struct {
	Usuario string `json:"usuario"`
}

// PeriodoDTO representación de un período contable en respuestas.
type PeriodoDTO struct {
	ID               int64  `json:"id"`
	IDEmpresa        int64  `json:"idEmpresa"`
	Anio             int    `json:"año"`
	FechaInicio      string `json:"fechaInicio"`
	FechaFin         string `json:"fechaFin"`
	Estado           string `json:"estado"`
	MetodoValoracion string `json:"metodoValoracion"`
	CerradoPor       string `json:"cerradoPor,omitempty"`
	CerradoEn        string `json:"cerradoEn,omitempty"`
	NotasCierre      string `json:"notasCierre,omitempty"`
	ReabiertoPor     string `json:"reabiertoPor,omitempty"`
	ReabiertoEn      string `json:"reabiertoEn,omitempty"`
}
