// Package period implementa el ciclo de vida de los períodos contables y el
// guard que impide registrar movimientos fuera de un período abierto.
package period

import (
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Guard valida fechas de registro contra el estado de los períodos.
type Guard struct {
	periodos repository.PeriodoRepository
}

// NewGuard construye el guard.
func NewGuard(periodos repository.PeriodoRepository) *Guard {
	return &Guard{periodos: periodos}
}

// AssertOpenForDate verifica que exista un período para la fecha y que esté
// abierto. Sin período para ese año → ErrNotFound; cerrado → ErrPeriodClosed.
func (g *Guard) AssertOpenForDate(idEmpresa int64, fecha time.Time) error {
	periodo, err := g.periodos.GetByFecha(idEmpresa, fecha)
	if err != nil {
		return fmt.Errorf("consultar período: %w", err)
	}
	if periodo == nil {
		return fmt.Errorf("%w: sin período contable para %d", domain.ErrNotFound, fecha.Year())
	}
	if !periodo.Abierto() {
		return fmt.Errorf("%w: período %d", domain.ErrPeriodClosed, periodo.Anio)
	}
	return nil
}

// AssertNotRetroactive verifica un registro con fecha en un período cerrado.
// Con override explícito se permite (queda en manos del caller auditarlo);
// sin override → ErrPeriodClosed.
func (g *Guard) AssertNotRetroactive(idEmpresa int64, fecha time.Time, override bool) error {
	periodo, err := g.periodos.GetByFecha(idEmpresa, fecha)
	if err != nil {
		return fmt.Errorf("consultar período: %w", err)
	}
	if periodo == nil || periodo.Abierto() {
		return nil
	}
	if override {
		return nil
	}
	return fmt.Errorf("%w: registro retroactivo en período %d sin autorización", domain.ErrPeriodClosed, periodo.Anio)
}
