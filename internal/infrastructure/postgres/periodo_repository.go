package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.PeriodoRepository = (*PeriodoRepo)(nil)

// PeriodoRepo implementación de PeriodoRepository sobre PostgreSQL.
type PeriodoRepo struct {
	q Querier
}

// NewPeriodoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPeriodoRepository(q Querier) *PeriodoRepo {
	return &PeriodoRepo{q: q}
}

const periodoColumnas = `
	id, id_empresa, anio, fecha_inicio, fecha_fin, estado, metodo_valoracion,
	cerrado_por, cerrado_en, notas_cierre, reabierto_por, reabierto_en, created_at`

// Create persiste un período nuevo. El índice único parcial sobre
// (id_empresa) WHERE estado = 'ABIERTO' respalda en BD la exclusividad que
// valida el caso de uso.
func (r *PeriodoRepo) Create(p *entity.PeriodoContable) error {
	query := `
		INSERT INTO periodos_contables (id_empresa, anio, fecha_inicio, fecha_fin, estado, metodo_valoracion, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.IDEmpresa, p.Anio, p.FechaInicio, p.FechaFin, p.Estado, p.MetodoValoracion, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: período %d de la empresa %d", domain.ErrDuplicate, p.Anio, p.IDEmpresa)
		}
		return fmt.Errorf("create período: %w", err)
	}
	return nil
}

// Update actualiza estado y metadatos de cierre/reapertura.
func (r *PeriodoRepo) Update(p *entity.PeriodoContable) error {
	query := `
		UPDATE periodos_contables
		SET estado = $2, metodo_valoracion = $3, cerrado_por = $4, cerrado_en = $5,
			notas_cierre = $6, reabierto_por = $7, reabierto_en = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.Estado, p.MetodoValoracion, nullStr(p.CerradoPor), p.CerradoEn,
		nullStr(p.NotasCierre), nullStr(p.ReabiertoPor), p.ReabiertoEn,
	)
	if err != nil {
		return fmt.Errorf("update período: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: período %d", domain.ErrNotFound, p.ID)
	}
	return nil
}

// GetByID obtiene un período por ID. Devuelve nil si no existe.
func (r *PeriodoRepo) GetByID(id int64) (*entity.PeriodoContable, error) {
	query := `SELECT ` + periodoColumnas + ` FROM periodos_contables WHERE id = $1`
	return r.uno(query, id)
}

// GetByFecha devuelve el período de la empresa cuyo rango contiene la fecha.
func (r *PeriodoRepo) GetByFecha(idEmpresa int64, fecha time.Time) (*entity.PeriodoContable, error) {
	query := `SELECT ` + periodoColumnas + `
		FROM periodos_contables
		WHERE id_empresa = $1 AND fecha_inicio <= $2 AND fecha_fin >= $2`
	return r.uno(query, idEmpresa, fecha)
}

// GetAbierto devuelve el período abierto de la empresa, o nil.
func (r *PeriodoRepo) GetAbierto(idEmpresa int64) (*entity.PeriodoContable, error) {
	query := `SELECT ` + periodoColumnas + `
		FROM periodos_contables
		WHERE id_empresa = $1 AND estado = 'ABIERTO'`
	return r.uno(query, idEmpresa)
}

// ListByEmpresa lista los períodos de la empresa por año descendente.
func (r *PeriodoRepo) ListByEmpresa(idEmpresa int64) ([]*entity.PeriodoContable, error) {
	query := `SELECT ` + periodoColumnas + `
		FROM periodos_contables WHERE id_empresa = $1 ORDER BY anio DESC`
	rows, err := r.q.Query(context.Background(), query, idEmpresa)
	if err != nil {
		return nil, fmt.Errorf("list períodos: %w", err)
	}
	defer rows.Close()

	var lista []*entity.PeriodoContable
	for rows.Next() {
		p, err := scanPeriodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan período: %w", err)
		}
		lista = append(lista, p)
	}
	return lista, rows.Err()
}

func (r *PeriodoRepo) uno(query string, args ...any) (*entity.PeriodoContable, error) {
	p, err := scanPeriodo(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get período: %w", err)
	}
	return p, nil
}

func scanPeriodo(row pgx.Row) (*entity.PeriodoContable, error) {
	var p entity.PeriodoContable
	var cerradoPor, notas, reabiertoPor *string
	err := row.Scan(
		&p.ID, &p.IDEmpresa, &p.Anio, &p.FechaInicio, &p.FechaFin, &p.Estado, &p.MetodoValoracion,
		&cerradoPor, &p.CerradoEn, &notas, &reabiertoPor, &p.ReabiertoEn, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cerradoPor != nil {
		p.CerradoPor = *cerradoPor
	}
	if notas != nil {
		p.NotasCierre = *notas
	}
	if reabiertoPor != nil {
		p.ReabiertoPor = *reabiertoPor
	}
	return &p, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
