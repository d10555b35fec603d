package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/costofsales"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/period"
	appval "github.com/jhoicas/kardex-api/internal/application/valuation"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	KardexEngine     *kardex.Engine
	ValuationBuilder *appval.Builder
	CostOfSales      *costofsales.Aggregator
	RegisterMovement *inventory.RegistrarMovimientoUseCase
	PeriodUC         *period.UseCase
	Inventarios      repository.InventarioRepository
	PDF              PDFPort
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Kardex
	kardexGroup := api.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.KardexEngine, deps.Inventarios, deps.PDF)
	kardexGroup.Get("/:idInventario", kardexHandler.GetKardex)
	kardexGroup.Get("/:idInventario/pdf", kardexHandler.GetKardexPDF)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ValuationBuilder, deps.CostOfSales)
	reports.Get("/valoracion", reportHandler.GetValuation)
	reports.Get("/costo-ventas", reportHandler.GetCostOfSalesMensual)
	reports.Get("/costo-ventas/inventario", reportHandler.GetCostOfSalesPorInventario)

	// Movimientos de inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movimientos", inventoryHandler.RegistrarMovimiento)
	invGroup.Post("/movimientos/:id/anular", inventoryHandler.AnularMovimiento)

	// Períodos contables
	periodos := api.Group("/periodos")
	periodoHandler := NewPeriodoHandler(deps.PeriodUC)
	periodos.Post("/", periodoHandler.Crear)
	periodos.Get("/", periodoHandler.List)
	periodos.Post("/:id/cerrar", periodoHandler.Cerrar)
	periodos.Post("/:id/reabrir", periodoHandler.Reabrir)
}
