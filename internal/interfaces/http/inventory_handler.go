package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// InventoryHandler maneja el registro y anulación de movimientos.
type InventoryHandler struct {
	uc *inventory.RegistrarMovimientoUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegistrarMovimientoUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegistrarMovimiento registra una entrada o salida.
// POST /api/inventory/movimientos
func (h *InventoryHandler) RegistrarMovimiento(c *fiber.Ctx) error {
	var in dto.RegistrarMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	fecha, err := time.Parse("2006-01-02", in.Fecha)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: fecha inválida", domain.ErrInvalidInput))
	}

	mov, err := h.uc.RegistrarMovimiento(c.Context(), inventory.MovimientoInput{
		IDInventario:        in.IDInventario,
		Tipo:                in.Tipo,
		Cantidad:            in.Cantidad,
		CostoUnitario:       in.CostoUnitario,
		Fecha:               fecha,
		TipoComprobante:     in.TipoComprobante,
		NumeroComprobante:   in.NumeroComprobante,
		Usuario:             in.Usuario,
		PermitirRetroactivo: in.PermitirRetroactivo,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "movimiento registrado",
		"id":        mov.ID,
		"secuencia": mov.Secuencia,
	})
}

// AnularMovimiento registra la reversa de un movimiento.
// POST /api/inventory/movimientos/:id/anular
func (h *InventoryHandler) AnularMovimiento(c *fiber.Ctx) error {
	var in dto.AnularMovimientoRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	reversa, err := h.uc.AnularMovimiento(c.Context(), c.Params("id"), in.Usuario, in.PermitirRetroactivo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "movimiento anulado",
		"idReversa": reversa.ID,
	})
}
