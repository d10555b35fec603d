package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/internal/application/costofsales"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/period"
	appval "github.com/jhoicas/kardex-api/internal/application/valuation"
	infrapdf "github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	movimientoRepo := postgres.NewMovimientoRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	periodoRepo := postgres.NewPeriodoRepository(pool)
	inventarioRepo := postgres.NewInventarioRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	guard := period.NewGuard(periodoRepo)
	kardexEngine := kardex.NewEngine(movimientoRepo, inventarioRepo, periodoRepo, log)
	valuationBuilder := appval.NewBuilder(movimientoRepo, inventarioRepo, loteRepo, periodoRepo, log)
	costOfSalesAgg := costofsales.NewAggregator(movimientoRepo, inventarioRepo, log)
	registerMovementUC := inventory.NewRegistrarMovimientoUseCase(txRunner, inventarioRepo, periodoRepo, guard, log)
	periodUC := period.NewUseCase(periodoRepo, log)

	pdfGenerator := infrapdf.NewKardexPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		KardexEngine:     kardexEngine,
		ValuationBuilder: valuationBuilder,
		CostOfSales:      costOfSalesAgg,
		RegisterMovement: registerMovementUC,
		PeriodUC:         periodUC,
		Inventarios:      inventarioRepo,
		PDF:              pdfGenerator,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
