package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrDataIntegrity indica que el replay del kardex detectó una inconsistencia
	// (saldo negativo, salida mayor al disponible en lotes). Nunca se corrige en
	// silencio: el reporte falla visiblemente.
	ErrDataIntegrity = errors.New("inconsistencia en el historial de movimientos")

	// ErrPeriodClosed indica un intento de registrar movimientos en un período
	// contable cerrado sin autorización explícita.
	ErrPeriodClosed = errors.New("período contable cerrado")

	// ErrPeriodOverlap indica que ya existe un período abierto que se superpone
	// con el que se intenta crear o activar.
	ErrPeriodOverlap = errors.New("período contable superpuesto con uno activo")
)
