// Package kardex implementa el motor de replay del kardex: reconstruye el
// libro cronológico de un inventario aplicando el método de costeo activo y
// produce filas con saldo corriente.
package kardex

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Solicitud parámetros de generación del kardex. Fechas inclusivas; nil = sin
// cota. Page/Limit no positivos toman los valores por defecto (1, 10).
type Solicitud struct {
	IDInventario int64
	FechaInicio  *time.Time
	FechaFin     *time.Time
	Page         int
	Limit        int
}

// Fila una línea del kardex: el movimiento más el saldo resultante.
// Derivada, nunca persistida; se recalcula fresca en cada reporte.
type Fila struct {
	Fecha              time.Time
	Tipo               string
	TipoComprobante    string
	NumeroComprobante  string
	Cantidad           decimal.Decimal
	CostoUnitario      decimal.Decimal
	CostoTotal         decimal.Decimal
	SaldoCantidad      decimal.Decimal
	SaldoCostoUnitario decimal.Decimal
	SaldoValor         decimal.Decimal
}

// Resumen saldo al cierre del rango consultado. Independiente de la página.
type Resumen struct {
	CantidadActual decimal.Decimal
	SaldoActual    decimal.Decimal
	CostoFinal     decimal.Decimal
}

// Resultado filas paginadas más resumen.
type Resultado struct {
	Filas      []Fila
	Resumen    Resumen
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Engine orquesta el replay: trae los movimientos en orden canónico
// (fecha, secuencia), aplica el método de costeo del período activo y corta la
// ventana de paginación sobre el conjunto ya calculado.
type Engine struct {
	ledger      repository.MovementLedger
	inventarios repository.InventarioRepository
	periodos    repository.PeriodoRepository
	log         *logger.Logger
}

// NewEngine construye el motor.
func NewEngine(
	ledger repository.MovementLedger,
	inventarios repository.InventarioRepository,
	periodos repository.PeriodoRepository,
	log *logger.Logger,
) *Engine {
	return &Engine{ledger: ledger, inventarios: inventarios, periodos: periodos, log: log}
}

// GenerateKardex genera el kardex del inventario solicitado.
//
// El replay recorre SIEMPRE el historial completo aunque se pida una ventana
// de fechas o una página intermedia: los saldos corrientes solo son correctos
// si se acumulan desde el primer movimiento. La ventana y la paginación son
// cortes posteriores al cálculo.
func (e *Engine) GenerateKardex(req Solicitud) (*Resultado, error) {
	if req.IDInventario <= 0 {
		return nil, fmt.Errorf("%w: idInventario debe ser positivo", domain.ErrInvalidInput)
	}
	if req.FechaInicio != nil && req.FechaFin != nil && req.FechaInicio.After(*req.FechaFin) {
		return nil, fmt.Errorf("%w: fechaInicio posterior a fechaFin", domain.ErrInvalidInput)
	}
	page, limit := req.Page, req.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	inv, err := e.inventarios.GetByID(req.IDInventario)
	if err != nil {
		return nil, fmt.Errorf("consultar inventario: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: inventario %d", domain.ErrNotFound, req.IDInventario)
	}

	metodo, err := e.metodoActivo(inv.IDEmpresa)
	if err != nil {
		return nil, err
	}

	movs, err := e.ledger.ListByInventario(req.IDInventario, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}

	filas, resumen, err := e.replay(movs, metodo, req.FechaInicio, req.FechaFin)
	if err != nil {
		e.log.Error().Err(err).Int64("idInventario", req.IDInventario).Msg("replay del kardex falló")
		return nil, err
	}

	total := len(filas)
	totalPages := (total + limit - 1) / limit
	inicio := (page - 1) * limit
	fin := inicio + limit
	var pagina []Fila
	// Página fuera de rango devuelve conjunto vacío, no error.
	if inicio < total {
		if fin > total {
			fin = total
		}
		pagina = filas[inicio:fin]
	}

	return &Resultado{
		Filas:      pagina,
		Resumen:    resumen,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// metodoActivo resuelve el método de valoración del período abierto de la
// empresa. Sin período abierto se usa PROMEDIO.
func (e *Engine) metodoActivo(idEmpresa int64) (string, error) {
	periodo, err := e.periodos.GetAbierto(idEmpresa)
	if err != nil {
		return "", fmt.Errorf("consultar período activo: %w", err)
	}
	if periodo == nil || periodo.MetodoValoracion == "" {
		return entity.MetodoPromedio, nil
	}
	return periodo.MetodoValoracion, nil
}

// replay recorre los movimientos en orden y acumula saldo/costo/valor según el
// método. Devuelve solo las filas dentro de la ventana [desde, hasta] y el
// resumen al cierre de la ventana. Un saldo negativo en cualquier punto es
// ErrDataIntegrity: se reporta, jamás se recorta a cero.
func (e *Engine) replay(movs []*entity.Movimiento, metodo string, desde, hasta *time.Time) ([]Fila, Resumen, error) {
	tracker := valuation.NewPromedioTracker()
	var lotesVirtuales []*entity.Lote

	filas := make([]Fila, 0, len(movs))
	var resumen Resumen
	resumenFijado := false

	for _, mov := range movs {
		if hasta != nil && mov.Fecha.After(*hasta) {
			break
		}

		var costoUnitario, costoTotal decimal.Decimal
		if mov.EsEntrada() {
			costoUnitario = mov.CostoUnitario
			costoTotal = mov.Cantidad.Mul(costoUnitario)
			tracker.AplicarEntrada(mov.Cantidad, costoUnitario)
			if metodo == entity.MetodoFIFO {
				lotesVirtuales = append(lotesVirtuales, &entity.Lote{
					ID:              mov.Secuencia,
					IDInventario:    mov.IDInventario,
					FechaIngreso:    mov.Fecha,
					CantidadInicial: mov.Cantidad,
					CantidadActual:  mov.Cantidad,
					CostoUnitario:   costoUnitario,
				})
			}
		} else {
			switch metodo {
			case entity.MetodoFIFO:
				res := valuation.ConsumirLotes(lotesVirtuales, mov.Cantidad)
				if res.Faltante.GreaterThan(decimal.Zero) {
					return nil, Resumen{}, fmt.Errorf(
						"%w: salida de %s el %s excede el disponible en lotes (faltan %s)",
						domain.ErrDataIntegrity, mov.Cantidad.String(),
						mov.Fecha.Format("2006-01-02"), res.Faltante.String())
				}
				costoUnitario = res.CostoUnitarioMezclado()
				costoTotal = res.CostoTotal()
				// Mantener cantidad del tracker alineada para el saldo.
				if _, err := tracker.AplicarSalida(mov.Cantidad); err != nil {
					return nil, Resumen{}, fmt.Errorf(
						"%w: salida el %s produce saldo negativo",
						domain.ErrDataIntegrity, mov.Fecha.Format("2006-01-02"))
				}
			default:
				cu, err := tracker.AplicarSalida(mov.Cantidad)
				if err != nil {
					return nil, Resumen{}, fmt.Errorf(
						"%w: salida de %s el %s excede el saldo disponible",
						domain.ErrDataIntegrity, mov.Cantidad.String(),
						mov.Fecha.Format("2006-01-02"))
				}
				costoUnitario = cu
				costoTotal = mov.Cantidad.Mul(cu)
			}
		}

		saldoCant, saldoValor := e.saldo(metodo, tracker, lotesVirtuales)
		if saldoCant.IsNegative() {
			return nil, Resumen{}, fmt.Errorf(
				"%w: saldo negativo (%s) tras movimiento del %s",
				domain.ErrDataIntegrity, saldoCant.String(), mov.Fecha.Format("2006-01-02"))
		}
		saldoCosto := decimal.Zero
		if saldoCant.GreaterThan(decimal.Zero) {
			saldoCosto = saldoValor.Div(saldoCant)
		}

		resumen = Resumen{CantidadActual: saldoCant, SaldoActual: saldoValor, CostoFinal: saldoCosto}
		resumenFijado = true

		if desde != nil && mov.Fecha.Before(*desde) {
			continue
		}
		filas = append(filas, Fila{
			Fecha:              mov.Fecha,
			Tipo:               mov.Tipo,
			TipoComprobante:    mov.TipoComprobante,
			NumeroComprobante:  mov.NumeroComprobante,
			Cantidad:           mov.Cantidad,
			CostoUnitario:      costoUnitario,
			CostoTotal:         costoTotal,
			SaldoCantidad:      saldoCant,
			SaldoCostoUnitario: saldoCosto,
			SaldoValor:         saldoValor,
		})
	}

	if !resumenFijado {
		resumen = Resumen{CantidadActual: decimal.Zero, SaldoActual: decimal.Zero, CostoFinal: decimal.Zero}
	}
	return filas, resumen, nil
}

func (e *Engine) saldo(metodo string, tracker *valuation.PromedioTracker, lotes []*entity.Lote) (decimal.Decimal, decimal.Decimal) {
	if metodo == entity.MetodoFIFO {
		return valuation.ValorarLotes(lotes)
	}
	cant, _ := tracker.Estado()
	return cant, tracker.Valor()
}
