package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// PDFPort genera la exportación PDF del kardex.
type PDFPort interface {
	GenerateKardexPDF(inv *entity.Inventario, res *kardex.Resultado) ([]byte, error)
}

// KardexHandler maneja las peticiones del kardex.
type KardexHandler struct {
	engine      *kardex.Engine
	inventarios repository.InventarioRepository
	pdf         PDFPort
}

// NewKardexHandler construye el handler.
func NewKardexHandler(engine *kardex.Engine, inventarios repository.InventarioRepository, pdf PDFPort) *KardexHandler {
	return &KardexHandler{engine: engine, inventarios: inventarios, pdf: pdf}
}

// GetKardex devuelve el kardex paginado de un inventario.
// GET /api/kardex/:idInventario?fechaInicio=&fechaFin=&page=&limit=
func (h *KardexHandler) GetKardex(c *fiber.Ctx) error {
	sol, err := h.solicitudDesdeQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.engine.GenerateKardex(*sol)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(kardexResponse(res))
}

// GetKardexPDF devuelve el kardex completo (sin paginar) como PDF.
// GET /api/kardex/:idInventario/pdf
func (h *KardexHandler) GetKardexPDF(c *fiber.Ctx) error {
	sol, err := h.solicitudDesdeQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	// PDF: todas las filas en una página lógica.
	sol.Page = 1
	sol.Limit = 1 << 20
	res, err := h.engine.GenerateKardex(*sol)
	if err != nil {
		return respondError(c, err)
	}
	inv, err := h.inventarios.GetByID(sol.IDInventario)
	if err != nil {
		return respondError(c, err)
	}
	if inv == nil {
		return respondError(c, fmt.Errorf("%w: inventario %d", domain.ErrNotFound, sol.IDInventario))
	}
	bytes, err := h.pdf.GenerateKardexPDF(inv, res)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="kardex-%d.pdf"`, sol.IDInventario))
	return c.Send(bytes)
}

func (h *KardexHandler) solicitudDesdeQuery(c *fiber.Ctx) (*kardex.Solicitud, error) {
	id, err := c.ParamsInt("idInventario")
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: idInventario debe ser entero positivo", domain.ErrInvalidInput)
	}
	sol := kardex.Solicitud{
		IDInventario: int64(id),
		Page:         c.QueryInt("page", 0),
		Limit:        c.QueryInt("limit", 0),
	}
	if s := c.Query("fechaInicio"); s != "" {
		f, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("%w: fechaInicio inválida", domain.ErrInvalidInput)
		}
		sol.FechaInicio = &f
	}
	if s := c.Query("fechaFin"); s != "" {
		f, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("%w: fechaFin inválida", domain.ErrInvalidInput)
		}
		// Fin de día para que la cota sea inclusiva.
		f = f.Add(24*time.Hour - time.Second)
		sol.FechaFin = &f
	}
	return &sol, nil
}

func kardexResponse(res *kardex.Resultado) dto.KardexResponse {
	movimientos := make([]dto.KardexMovimientoDTO, 0, len(res.Filas))
	for _, f := range res.Filas {
		movimientos = append(movimientos, dto.KardexMovimientoDTO{
			Fecha:             f.Fecha.Format("2006-01-02"),
			Tipo:              f.Tipo,
			TipoComprobante:   f.TipoComprobante,
			NumeroComprobante: f.NumeroComprobante,
			Cantidad:          f.Cantidad.StringFixed(2),
			CostoUnitario:     f.CostoUnitario.StringFixed(2),
			CostoTotal:        f.CostoTotal.StringFixed(2),
			Saldo:             f.SaldoCantidad.StringFixed(2),
			SaldoValor:        f.SaldoValor.StringFixed(2),
		})
	}
	return dto.KardexResponse{
		Movimientos: movimientos,
		Resumen: dto.KardexResumenDTO{
			CantidadActual: res.Resumen.CantidadActual.StringFixed(2),
			SaldoActual:    res.Resumen.SaldoActual.StringFixed(2),
			CostoFinal:     res.Resumen.CostoFinal.StringFixed(2),
		},
		Pagination: dto.Pagination{
			Page:       res.Page,
			Limit:      res.Limit,
			Total:      res.Total,
			TotalPages: res.TotalPages,
		},
	}
}
