package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/costofsales"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	appval "github.com/jhoicas/kardex-api/internal/application/valuation"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// ReportHandler maneja los reportes de valoración y costo de ventas.
type ReportHandler struct {
	valuation   *appval.Builder
	costOfSales *costofsales.Aggregator
}

// NewReportHandler construye el handler.
func NewReportHandler(valuation *appval.Builder, costOfSales *costofsales.Aggregator) *ReportHandler {
	return &ReportHandler{valuation: valuation, costOfSales: costOfSales}
}

// GetValuation reporte de valoración FIFO vs promedio.
// GET /api/reports/valoracion?idEmpresa=&idAlmacen=&idProducto=&page=&limit=
func (h *ReportHandler) GetValuation(c *fiber.Ctx) error {
	idEmpresa := int64(c.QueryInt("idEmpresa", 0))
	filtros := appval.Filtros{
		IDEmpresa:  idEmpresa,
		IDAlmacen:  queryID(c, "idAlmacen"),
		IDProducto: queryID(c, "idProducto"),
		Page:       c.QueryInt("page", 0),
		Limit:      c.QueryInt("limit", 0),
	}
	reporte, err := h.valuation.BuildValuation(filtros)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(valuationResponse(reporte))
}

// GetCostOfSalesMensual reporte mensual de costo de ventas.
// GET /api/reports/costo-ventas?idEmpresa=&año=&idAlmacen=&idProducto=
func (h *ReportHandler) GetCostOfSalesMensual(c *fiber.Ctx) error {
	req, err := costoVentasSolicitud(c)
	if err != nil {
		return respondError(c, err)
	}
	reporte, err := h.costOfSales.BuildMensual(*req)
	if err != nil {
		return respondError(c, err)
	}

	meses := make([]dto.DatoMensualDTO, 0, len(reporte.Meses))
	for _, m := range reporte.Meses {
		meses = append(meses, dto.DatoMensualDTO{
			Mes:             m.Mes,
			NombreMes:       costofsales.NombreMes(m.Mes),
			ComprasTotales:  m.Compras.StringFixed(2),
			SalidasTotales:  m.Salidas.StringFixed(2),
			InventarioFinal: m.InventarioFinal.StringFixed(2),
		})
	}
	return c.JSON(dto.CostoVentasMensualResponse{
		Anio:           reporte.Anio,
		DatosMensuales: meses,
		Sumatorias: dto.CostoVentasSumatoriasDTO{
			TotalComprasAnual:    reporte.Sumatorias.TotalCompras.StringFixed(2),
			TotalSalidasAnual:    reporte.Sumatorias.TotalSalidas.StringFixed(2),
			InventarioFinalAnual: reporte.Sumatorias.InventarioFinal.StringFixed(2),
		},
		FechaGeneracion: reporte.FechaGeneracion.Format("2006-01-02 15:04:05"),
	})
}

// GetCostOfSalesPorInventario variante agrupada por (producto, almacén).
// GET /api/reports/costo-ventas/inventario?idEmpresa=&año=&idAlmacen=&idProducto=
func (h *ReportHandler) GetCostOfSalesPorInventario(c *fiber.Ctx) error {
	req, err := costoVentasSolicitud(c)
	if err != nil {
		return respondError(c, err)
	}
	reporte, err := h.costOfSales.BuildPorInventario(*req)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.CostoVentasItemDTO, 0, len(reporte.Items))
	for _, it := range reporte.Items {
		items = append(items, dto.CostoVentasItemDTO{
			IDInventario:    it.Inventario.ID,
			Producto:        it.Inventario.Producto,
			Almacen:         it.Inventario.Almacen,
			ComprasTotales:  it.Compras.StringFixed(2),
			SalidasTotales:  it.Salidas.StringFixed(2),
			InventarioFinal: it.InventarioFinal.StringFixed(2),
		})
	}
	return c.JSON(dto.CostoVentasPorInventarioResponse{
		Anio:  reporte.Anio,
		Items: items,
		Sumatorias: dto.CostoVentasSumatoriasDTO{
			TotalComprasAnual:    reporte.Sumatorias.TotalCompras.StringFixed(2),
			TotalSalidasAnual:    reporte.Sumatorias.TotalSalidas.StringFixed(2),
			InventarioFinalAnual: reporte.Sumatorias.InventarioFinal.StringFixed(2),
		},
		FechaGeneracion: reporte.FechaGeneracion.Format("2006-01-02 15:04:05"),
	})
}

func costoVentasSolicitud(c *fiber.Ctx) (*costofsales.Solicitud, error) {
	anio := c.QueryInt("año", 0)
	if anio == 0 {
		anio = c.QueryInt("anio", 0) // alias ASCII
	}
	if anio == 0 {
		return nil, fmt.Errorf("%w: año obligatorio", domain.ErrInvalidInput)
	}
	return &costofsales.Solicitud{
		IDEmpresa:  int64(c.QueryInt("idEmpresa", 0)),
		Anio:       anio,
		IDAlmacen:  queryID(c, "idAlmacen"),
		IDProducto: queryID(c, "idProducto"),
	}, nil
}

func queryID(c *fiber.Ctx, nombre string) *int64 {
	v := c.QueryInt(nombre, 0)
	if v == 0 {
		return nil
	}
	id := int64(v)
	return &id
}

func valuationResponse(r *appval.Reporte) dto.ValuationResponse {
	items := make([]dto.ValuationItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ValuationItemDTO{
			IDInventario:           it.Inventario.ID,
			Producto:               it.Inventario.Producto,
			Almacen:                it.Inventario.Almacen,
			CantidadActual:         it.CantidadActual.StringFixed(2),
			ValoracionFIFO:         it.ValoracionFIFO.StringFixed(2),
			CostoUnitarioFIFO:      it.CostoUnitarioFIFO.StringFixed(2),
			ValoracionPromedio:     it.ValoracionPromedio.StringFixed(2),
			CostoUnitarioPromedio:  it.CostoUnitarioPromedio.StringFixed(2),
			DiferenciaFIFOPromedio: it.Diferencia.StringFixed(2),
			FifoAproximado:         it.FifoAproximado,
		})
	}
	return dto.ValuationResponse{
		Items: items,
		Resumen: dto.ValuationResumenDTO{
			CantidadTotal:           r.Resumen.CantidadTotal.StringFixed(2),
			ValorTotalFIFO:          r.Resumen.ValorTotalFIFO.StringFixed(2),
			ValorTotalPromedio:      r.Resumen.ValorTotalPromedio.StringFixed(2),
			DiferenciaTotalFIFOProm: r.Resumen.DiferenciaTotal.StringFixed(2),
		},
		Pagination: dto.Pagination{
			Page:       r.Page,
			Limit:      r.Limit,
			Total:      r.Total,
			TotalPages: r.TotalPages,
		},
	}
}
