package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PeriodoRepository define el puerto para períodos contables.
type PeriodoRepository interface {
	Create(p *entity.PeriodoContable) error
	Update(p *entity.PeriodoContable) error
	GetByID(id int64) (*entity.PeriodoContable, error)
	// GetByFecha devuelve el período de la empresa cuyo rango contiene la
	// fecha, o nil si no existe.
	GetByFecha(idEmpresa int64, fecha time.Time) (*entity.PeriodoContable, error)
	// GetAbierto devuelve el período abierto de la empresa, o nil.
	GetAbierto(idEmpresa int64) (*entity.PeriodoContable, error)
	ListByEmpresa(idEmpresa int64) ([]*entity.PeriodoContable, error)
}
