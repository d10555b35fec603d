package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/period"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// periodoFake repositorio en memoria con ids autoincrementales.
type periodoFake struct {
	periodos []*entity.PeriodoContable
}

func (f *periodoFake) Create(p *entity.PeriodoContable) error {
	p.ID = int64(len(f.periodos) + 1)
	f.periodos = append(f.periodos, p)
	return nil
}

func (f *periodoFake) Update(p *entity.PeriodoContable) error {
	for i, existente := range f.periodos {
		if existente.ID == p.ID {
			f.periodos[i] = p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *periodoFake) GetByID(id int64) (*entity.PeriodoContable, error) {
	for _, p := range f.periodos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *periodoFake) GetByFecha(idEmpresa int64, fecha time.Time) (*entity.PeriodoContable, error) {
	for _, p := range f.periodos {
		if p.IDEmpresa == idEmpresa && p.Contiene(fecha) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *periodoFake) GetAbierto(idEmpresa int64) (*entity.PeriodoContable, error) {
	for _, p := range f.periodos {
		if p.IDEmpresa == idEmpresa && p.Abierto() {
			return p, nil
		}
	}
	return nil, nil
}

func (f *periodoFake) ListByEmpresa(idEmpresa int64) ([]*entity.PeriodoContable, error) {
	var out []*entity.PeriodoContable
	for _, p := range f.periodos {
		if p.IDEmpresa == idEmpresa {
			out = append(out, p)
		}
	}
	return out, nil
}

// TestCrearPeriodo crea abierto con el rango del año completo.
func TestCrearPeriodo(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())

	p, err := uc.CrearPeriodo(10, 2024, entity.MetodoFIFO)
	require.NoError(t, err)

	assert.Equal(t, entity.PeriodoAbierto, p.Estado)
	assert.Equal(t, "2024-01-01", p.FechaInicio.Format("2006-01-02"))
	assert.Equal(t, "2024-12-31", p.FechaFin.Format("2006-01-02"))
	assert.Equal(t, entity.MetodoFIFO, p.MetodoValoracion)
}

// TestCrearPeriodo_Validaciones año fuera de rango y método desconocido.
func TestCrearPeriodo_Validaciones(t *testing.T) {
	uc := period.NewUseCase(&periodoFake{}, logger.Nop())

	_, err := uc.CrearPeriodo(0, 2024, entity.MetodoFIFO)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CrearPeriodo(10, 1999, entity.MetodoFIFO)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CrearPeriodo(10, 2024, "LIFO")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestCrearPeriodo_DuplicadoYAbierto mismo año es duplicado; mientras un
// período siga abierto no se puede crear otro: a lo sumo uno activo por
// empresa.
func TestCrearPeriodo_DuplicadoYAbierto(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())

	creado, err := uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.NoError(t, err)

	_, err = uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.CrearPeriodo(10, 2025, entity.MetodoPromedio)
	require.ErrorIs(t, err, domain.ErrPeriodOverlap, "2024 sigue abierto")

	// Cerrado 2024, el siguiente ejercicio se puede abrir.
	_, err = uc.CerrarPeriodo(creado.ID, "contadora", "")
	require.NoError(t, err)
	_, err = uc.CrearPeriodo(10, 2025, entity.MetodoPromedio)
	require.NoError(t, err)
}

// TestCerrarPeriodo cierre auditado con usuario obligatorio.
func TestCerrarPeriodo(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())
	creado, err := uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.NoError(t, err)

	_, err = uc.CerrarPeriodo(creado.ID, "", "fin de ejercicio")
	require.ErrorIs(t, err, domain.ErrInvalidInput, "el cierre sin usuario se rechaza")

	cerrado, err := uc.CerrarPeriodo(creado.ID, "contadora", "fin de ejercicio")
	require.NoError(t, err)
	assert.Equal(t, entity.PeriodoCerrado, cerrado.Estado)
	assert.Equal(t, "contadora", cerrado.CerradoPor)
	require.NotNil(t, cerrado.CerradoEn)
	assert.Equal(t, "fin de ejercicio", cerrado.NotasCierre)

	_, err = uc.CerrarPeriodo(creado.ID, "contadora", "")
	require.ErrorIs(t, err, domain.ErrConflict, "cerrar dos veces es conflicto")
}

// TestReabrirPeriodo reapertura auditada; rechaza si otro período abierto se
// superpondría.
func TestReabrirPeriodo(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())
	creado, err := uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.NoError(t, err)
	_, err = uc.CerrarPeriodo(creado.ID, "contadora", "")
	require.NoError(t, err)

	_, err = uc.ReabrirPeriodo(creado.ID, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	reabierto, err := uc.ReabrirPeriodo(creado.ID, "gerente")
	require.NoError(t, err)
	assert.Equal(t, entity.PeriodoAbierto, reabierto.Estado)
	assert.Equal(t, "gerente", reabierto.ReabiertoPor)
	require.NotNil(t, reabierto.ReabiertoEn)

	_, err = uc.ReabrirPeriodo(creado.ID, "gerente")
	require.ErrorIs(t, err, domain.ErrConflict, "reabrir un período ya abierto es conflicto")
}

// TestReabrirPeriodo_ConOtroAbierto no se reabre mientras otro período de la
// empresa esté abierto.
func TestReabrirPeriodo_ConOtroAbierto(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())

	p2024, err := uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.NoError(t, err)
	_, err = uc.CerrarPeriodo(p2024.ID, "contadora", "")
	require.NoError(t, err)
	_, err = uc.CrearPeriodo(10, 2025, entity.MetodoPromedio)
	require.NoError(t, err)

	_, err = uc.ReabrirPeriodo(p2024.ID, "gerente")
	require.ErrorIs(t, err, domain.ErrPeriodOverlap, "2025 está abierto")
}

// TestGuard_AssertOpenForDate sin período es ErrNotFound; cerrado es
// ErrPeriodClosed; abierto pasa.
func TestGuard_AssertOpenForDate(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())
	guard := period.NewGuard(repo)

	fecha := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	err := guard.AssertOpenForDate(10, fecha)
	require.ErrorIs(t, err, domain.ErrNotFound)

	creado, err := uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.NoError(t, err)
	require.NoError(t, guard.AssertOpenForDate(10, fecha))

	_, err = uc.CerrarPeriodo(creado.ID, "contadora", "")
	require.NoError(t, err)
	err = guard.AssertOpenForDate(10, fecha)
	require.ErrorIs(t, err, domain.ErrPeriodClosed)
}

// TestGuard_AssertNotRetroactive el registro en período cerrado solo pasa con
// override explícito.
func TestGuard_AssertNotRetroactive(t *testing.T) {
	repo := &periodoFake{}
	uc := period.NewUseCase(repo, logger.Nop())
	guard := period.NewGuard(repo)

	creado, err := uc.CrearPeriodo(10, 2024, entity.MetodoPromedio)
	require.NoError(t, err)
	_, err = uc.CerrarPeriodo(creado.ID, "contadora", "")
	require.NoError(t, err)

	fecha := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	err = guard.AssertNotRetroactive(10, fecha, false)
	require.ErrorIs(t, err, domain.ErrPeriodClosed)

	require.NoError(t, guard.AssertNotRetroactive(10, fecha, true))

	// Sin período para la fecha no hay nada retroactivo que impedir.
	sinPeriodo := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, guard.AssertNotRetroactive(10, sinPeriodo, false))
}
