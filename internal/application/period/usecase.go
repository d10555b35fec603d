package period

import (
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// UseCase ciclo de vida de períodos: crear, cerrar, reabrir.
type UseCase struct {
	periodos repository.PeriodoRepository
	log      *logger.Logger
	ahora    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(periodos repository.PeriodoRepository, log *logger.Logger) *UseCase {
	return &UseCase{periodos: periodos, log: log, ahora: time.Now}
}

// CrearPeriodo crea el período del año para la empresa, abierto. Rechaza con
// ErrPeriodOverlap si la empresa ya tiene un período abierto: a lo sumo un
// período activo por empresa, regla respaldada en BD por el índice único
// parcial sobre (id_empresa) WHERE estado = 'ABIERTO'.
func (uc *UseCase) CrearPeriodo(idEmpresa int64, anio int, metodo string) (*entity.PeriodoContable, error) {
	if idEmpresa <= 0 {
		return nil, fmt.Errorf("%w: idEmpresa debe ser positivo", domain.ErrInvalidInput)
	}
	if anio < 2000 || anio > 2030 {
		return nil, fmt.Errorf("%w: año fuera de rango", domain.ErrInvalidInput)
	}
	if metodo != entity.MetodoFIFO && metodo != entity.MetodoPromedio {
		return nil, fmt.Errorf("%w: método de valoración desconocido %q", domain.ErrInvalidInput, metodo)
	}

	nuevo := &entity.PeriodoContable{
		IDEmpresa:        idEmpresa,
		Anio:             anio,
		FechaInicio:      time.Date(anio, time.January, 1, 0, 0, 0, 0, time.UTC),
		FechaFin:         time.Date(anio, time.December, 31, 23, 59, 59, 0, time.UTC),
		Estado:           entity.PeriodoAbierto,
		MetodoValoracion: metodo,
		CreatedAt:        uc.ahora(),
	}

	existentes, err := uc.periodos.ListByEmpresa(idEmpresa)
	if err != nil {
		return nil, fmt.Errorf("listar períodos: %w", err)
	}
	for _, p := range existentes {
		if p.Anio == anio {
			return nil, fmt.Errorf("%w: ya existe período para %d", domain.ErrDuplicate, anio)
		}
		if p.Abierto() {
			return nil, fmt.Errorf("%w: período %d sigue abierto", domain.ErrPeriodOverlap, p.Anio)
		}
	}

	if err := uc.periodos.Create(nuevo); err != nil {
		return nil, fmt.Errorf("crear período: %w", err)
	}
	uc.log.Info().Int64("idEmpresa", idEmpresa).Int("año", anio).Str("metodo", metodo).Msg("período contable creado")
	return nuevo, nil
}

// CerrarPeriodo cierra un período abierto. Requiere identificador de usuario:
// el cierre es terminal salvo reapertura explícita y auditada.
func (uc *UseCase) CerrarPeriodo(idPeriodo int64, usuario, notas string) (*entity.PeriodoContable, error) {
	if usuario == "" {
		return nil, fmt.Errorf("%w: usuario de cierre obligatorio", domain.ErrInvalidInput)
	}
	periodo, err := uc.periodos.GetByID(idPeriodo)
	if err != nil {
		return nil, fmt.Errorf("consultar período: %w", err)
	}
	if periodo == nil {
		return nil, fmt.Errorf("%w: período %d", domain.ErrNotFound, idPeriodo)
	}
	if !periodo.Abierto() {
		return nil, fmt.Errorf("%w: el período %d no está abierto", domain.ErrConflict, periodo.Anio)
	}

	cerradoEn := uc.ahora()
	periodo.Estado = entity.PeriodoCerrado
	periodo.CerradoPor = usuario
	periodo.CerradoEn = &cerradoEn
	periodo.NotasCierre = notas
	if err := uc.periodos.Update(periodo); err != nil {
		return nil, fmt.Errorf("cerrar período: %w", err)
	}
	uc.log.Info().Int64("idPeriodo", idPeriodo).Str("usuario", usuario).Msg("período contable cerrado")
	return periodo, nil
}

// ReabrirPeriodo reabre un período cerrado. Acción excepcional y auditada;
// rechaza mientras la empresa tenga otro período abierto.
func (uc *UseCase) ReabrirPeriodo(idPeriodo int64, usuario string) (*entity.PeriodoContable, error) {
	if usuario == "" {
		return nil, fmt.Errorf("%w: usuario de reapertura obligatorio", domain.ErrInvalidInput)
	}
	periodo, err := uc.periodos.GetByID(idPeriodo)
	if err != nil {
		return nil, fmt.Errorf("consultar período: %w", err)
	}
	if periodo == nil {
		return nil, fmt.Errorf("%w: período %d", domain.ErrNotFound, idPeriodo)
	}
	if periodo.Abierto() {
		return nil, fmt.Errorf("%w: el período %d ya está abierto", domain.ErrConflict, periodo.Anio)
	}

	abierto, err := uc.periodos.GetAbierto(periodo.IDEmpresa)
	if err != nil {
		return nil, fmt.Errorf("consultar período abierto: %w", err)
	}
	if abierto != nil {
		return nil, fmt.Errorf("%w: período %d abierto", domain.ErrPeriodOverlap, abierto.Anio)
	}

	reabiertoEn := uc.ahora()
	periodo.Estado = entity.PeriodoAbierto
	periodo.ReabiertoPor = usuario
	periodo.ReabiertoEn = &reabiertoEn
	if err := uc.periodos.Update(periodo); err != nil {
		return nil, fmt.Errorf("reabrir período: %w", err)
	}
	uc.log.Warn().Int64("idPeriodo", idPeriodo).Str("usuario", usuario).Msg("período contable reabierto")
	return periodo, nil
}

// ListPeriodos lista los períodos de la empresa.
func (uc *UseCase) ListPeriodos(idEmpresa int64) ([]*entity.PeriodoContable, error) {
	if idEmpresa <= 0 {
		return nil, fmt.Errorf("%w: idEmpresa debe ser positivo", domain.ErrInvalidInput)
	}
	return uc.periodos.ListByEmpresa(idEmpresa)
}
