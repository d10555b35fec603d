package entity

import "time"

// Estados del período contable.
const (
	PeriodoAbierto = "ABIERTO"
	PeriodoCerrado = "CERRADO"
)

// Métodos de valoración de inventario.
const (
	MetodoFIFO     = "FIFO"
	MetodoPromedio = "PROMEDIO"
)

// PeriodoContable acota el rango de fechas (típicamente un año) dentro del
// cual se permiten registros. Exactamente un período abierto por
// (empresa, año); cerrar requiere usuario y es terminal salvo reapertura
// explícita y auditada.
type PeriodoContable struct {
	ID               int64
	IDEmpresa        int64
	Anio             int
	FechaInicio      time.Time
	FechaFin         time.Time
	Estado           string // ABIERTO | CERRADO
	MetodoValoracion string // FIFO | PROMEDIO
	CerradoPor       string
	CerradoEn        *time.Time
	NotasCierre      string
	ReabiertoPor     string
	ReabiertoEn      *time.Time
	CreatedAt        time.Time
}

// Abierto indica si el período admite registros.
func (p *PeriodoContable) Abierto() bool { return p.Estado == PeriodoAbierto }

// Contiene indica si la fecha cae dentro del rango del período (inclusivo).
func (p *PeriodoContable) Contiene(fecha time.Time) bool {
	return !fecha.Before(p.FechaInicio) && !fecha.After(p.FechaFin)
}

