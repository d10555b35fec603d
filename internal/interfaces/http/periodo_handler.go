package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/period"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PeriodoHandler maneja el ciclo de vida de períodos contables.
type PeriodoHandler struct {
	uc *period.UseCase
}

// NewPeriodoHandler construye el handler.
func NewPeriodoHandler(uc *period.UseCase) *PeriodoHandler {
	return &PeriodoHandler{uc: uc}
}

// Crear crea el período del año para la empresa.
// POST /api/periodos
func (h *PeriodoHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearPeriodoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	periodo, err := h.uc.CrearPeriodo(in.IDEmpresa, in.Anio, in.MetodoValoracion)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(periodoDTO(periodo))
}

// Cerrar cierra un período abierto (usuario obligatorio).
// POST /api/periodos/:id/cerrar
func (h *PeriodoHandler) Cerrar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fmt.Errorf("%w: id inválido", domain.ErrInvalidInput))
	}
	var in dto.CerrarPeriodoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	periodo, err := h.uc.CerrarPeriodo(int64(id), in.Usuario, in.Notas)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(periodoDTO(periodo))
}

// Reabrir reabre un período cerrado (acción auditada).
// POST /api/periodos/:id/reabrir
func (h *PeriodoHandler) Reabrir(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respondError(c, fmt.Errorf("%w: id inválido", domain.ErrInvalidInput))
	}
	var in dto.ReabrirPeriodoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	periodo, err := h.uc.ReabrirPeriodo(int64(id), in.Usuario)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(periodoDTO(periodo))
}

// List lista los períodos de la empresa.
// GET /api/periodos?idEmpresa=
func (h *PeriodoHandler) List(c *fiber.Ctx) error {
	periodos, err := h.uc.ListPeriodos(int64(c.QueryInt("idEmpresa", 0)))
	if err != nil {
		return respondError(c, err)
	}
	lista := make([]dto.PeriodoDTO, 0, len(periodos))
	for _, p := range periodos {
		lista = append(lista, periodoDTO(p))
	}
	return c.JSON(fiber.Map{"periodos": lista, "total": len(lista)})
}

func periodoDTO(p *entity.PeriodoContable) dto.PeriodoDTO {
	out := dto.PeriodoDTO{
		ID:               p.ID,
		IDEmpresa:        p.IDEmpresa,
		Anio:             p.Anio,
		FechaInicio:      p.FechaInicio.Format("2006-01-02"),
		FechaFin:         p.FechaFin.Format("2006-01-02"),
		Estado:           p.Estado,
		MetodoValoracion: p.MetodoValoracion,
		CerradoPor:       p.CerradoPor,
		NotasCierre:      p.NotasCierre,
		ReabiertoPor:     p.ReabiertoPor,
	}
	if p.CerradoEn != nil {
		out.CerradoEn = p.CerradoEn.Format("2006-01-02 15:04:05")
	}
	if p.ReabiertoEn != nil {
		out.ReabiertoEn = p.ReabiertoEn.Format("2006-01-02 15:04:05")
	}
	return out
}
