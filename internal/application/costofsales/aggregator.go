// Package costofsales agrega el historial de movimientos en estados de costo
// de ventas: compras, salidas e inventario final por mes calendario o por
// inventario, con sumatorias anuales.
package costofsales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Años aceptados por el reporte.
const (
	AnioMinimo = 2000
	AnioMaximo = 2030
)

var nombresMes = [13]string{"",
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// NombreMes devuelve el nombre en español del mes (1-12).
func NombreMes(mes int) string {
	if mes < 1 || mes > 12 {
		return ""
	}
	return nombresMes[mes]
}

// Solicitud filtros del reporte. Almacén/producto opcionales.
type Solicitud struct {
	IDEmpresa  int64
	Anio       int
	IDAlmacen  *int64
	IDProducto *int64
}

// DatoMensual compras, salidas e inventario final de un mes. InventarioFinal
// es el saldo acumulado del año hasta el cierre del mes, no la cifra aislada
// del mes.
type DatoMensual struct {
	Mes             int
	Compras         decimal.Decimal
	Salidas         decimal.Decimal
	InventarioFinal decimal.Decimal
}

// Sumatorias totales anuales.
type Sumatorias struct {
	TotalCompras    decimal.Decimal
	TotalSalidas    decimal.Decimal
	InventarioFinal decimal.Decimal
}

// ReporteMensual doce buckets más sumatorias.
type ReporteMensual struct {
	Anio            int
	Meses           []DatoMensual
	Sumatorias      Sumatorias
	FechaGeneracion time.Time
}

// ItemInventario triple entradas/salidas/saldo del año para un inventario.
type ItemInventario struct {
	Inventario      *entity.Inventario
	Compras         decimal.Decimal
	Salidas         decimal.Decimal
	InventarioFinal decimal.Decimal
}

// ReportePorInventario variante agrupada por (producto, almacén).
type ReportePorInventario struct {
	Anio            int
	Items           []ItemInventario
	Sumatorias      Sumatorias
	FechaGeneracion time.Time
}

// Aggregator lectura pura sobre el ledger; nunca muta estado.
type Aggregator struct {
	ledger      repository.MovementLedger
	inventarios repository.InventarioRepository
	log         *logger.Logger
	ahora       func() time.Time
}

// NewAggregator construye el agregador.
func NewAggregator(ledger repository.MovementLedger, inventarios repository.InventarioRepository, log *logger.Logger) *Aggregator {
	return &Aggregator{ledger: ledger, inventarios: inventarios, log: log, ahora: time.Now}
}

// BuildMensual agrupa las entradas (compras) y salidas del año por mes
// calendario. El inventario final de cada mes es el acumulado
// compras − salidas desde enero hasta ese mes inclusive.
func (a *Aggregator) BuildMensual(req Solicitud) (*ReporteMensual, error) {
	movs, err := a.movimientosDelAnio(req)
	if err != nil {
		return nil, err
	}

	meses := make([]DatoMensual, 12)
	for i := range meses {
		meses[i] = DatoMensual{Mes: i + 1, Compras: decimal.Zero, Salidas: decimal.Zero}
	}
	for _, mov := range movs {
		idx := int(mov.Fecha.Month()) - 1
		if mov.EsEntrada() {
			meses[idx].Compras = meses[idx].Compras.Add(mov.CostoTotal)
		} else {
			meses[idx].Salidas = meses[idx].Salidas.Add(mov.CostoTotal)
		}
	}

	acumulado := decimal.Zero
	totales := Sumatorias{TotalCompras: decimal.Zero, TotalSalidas: decimal.Zero}
	for i := range meses {
		acumulado = acumulado.Add(meses[i].Compras).Sub(meses[i].Salidas)
		meses[i].InventarioFinal = acumulado
		totales.TotalCompras = totales.TotalCompras.Add(meses[i].Compras)
		totales.TotalSalidas = totales.TotalSalidas.Add(meses[i].Salidas)
	}
	totales.InventarioFinal = acumulado

	a.log.Debug().Int("año", req.Anio).Int("movimientos", len(movs)).Msg("costo de ventas mensual generado")
	return &ReporteMensual{
		Anio:            req.Anio,
		Meses:           meses,
		Sumatorias:      totales,
		FechaGeneracion: a.ahora(),
	}, nil
}

// BuildPorInventario agrupa el mismo triple por (producto, almacén) para el
// año completo, con totales generales.
func (a *Aggregator) BuildPorInventario(req Solicitud) (*ReportePorInventario, error) {
	if err := validar(req); err != nil {
		return nil, err
	}
	invs, err := a.inventarios.List(req.IDEmpresa, req.IDAlmacen, req.IDProducto)
	if err != nil {
		return nil, fmt.Errorf("listar inventarios: %w", err)
	}

	desde, hasta := rangoAnio(req.Anio)
	items := make([]ItemInventario, 0, len(invs))
	totales := Sumatorias{TotalCompras: decimal.Zero, TotalSalidas: decimal.Zero, InventarioFinal: decimal.Zero}
	for _, inv := range invs {
		movs, err := a.ledger.ListByInventario(inv.ID, &desde, &hasta)
		if err != nil {
			return nil, fmt.Errorf("listar movimientos de inventario %d: %w", inv.ID, err)
		}
		item := ItemInventario{Inventario: inv, Compras: decimal.Zero, Salidas: decimal.Zero}
		for _, mov := range movs {
			if mov.EsEntrada() {
				item.Compras = item.Compras.Add(mov.CostoTotal)
			} else {
				item.Salidas = item.Salidas.Add(mov.CostoTotal)
			}
		}
		item.InventarioFinal = item.Compras.Sub(item.Salidas)
		items = append(items, item)
		totales.TotalCompras = totales.TotalCompras.Add(item.Compras)
		totales.TotalSalidas = totales.TotalSalidas.Add(item.Salidas)
		totales.InventarioFinal = totales.InventarioFinal.Add(item.InventarioFinal)
	}

	a.log.Debug().Int("año", req.Anio).Int("items", len(items)).Msg("costo de ventas por inventario generado")
	return &ReportePorInventario{
		Anio:            req.Anio,
		Items:           items,
		Sumatorias:      totales,
		FechaGeneracion: a.ahora(),
	}, nil
}

func (a *Aggregator) movimientosDelAnio(req Solicitud) ([]*entity.Movimiento, error) {
	if err := validar(req); err != nil {
		return nil, err
	}
	invs, err := a.inventarios.List(req.IDEmpresa, req.IDAlmacen, req.IDProducto)
	if err != nil {
		return nil, fmt.Errorf("listar inventarios: %w", err)
	}
	desde, hasta := rangoAnio(req.Anio)
	var movs []*entity.Movimiento
	for _, inv := range invs {
		lista, err := a.ledger.ListByInventario(inv.ID, &desde, &hasta)
		if err != nil {
			return nil, fmt.Errorf("listar movimientos de inventario %d: %w", inv.ID, err)
		}
		movs = append(movs, lista...)
	}
	return movs, nil
}

func validar(req Solicitud) error {
	if req.IDEmpresa <= 0 {
		return fmt.Errorf("%w: idEmpresa debe ser positivo", domain.ErrInvalidInput)
	}
	if req.Anio < AnioMinimo || req.Anio > AnioMaximo {
		return fmt.Errorf("%w: año fuera de rango (%d-%d)", domain.ErrInvalidInput, AnioMinimo, AnioMaximo)
	}
	if (req.IDAlmacen != nil && *req.IDAlmacen <= 0) || (req.IDProducto != nil && *req.IDProducto <= 0) {
		return fmt.Errorf("%w: filtros con id no positivo", domain.ErrInvalidInput)
	}
	return nil
}

func rangoAnio(anio int) (time.Time, time.Time) {
	desde := time.Date(anio, time.January, 1, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(anio, time.December, 31, 23, 59, 59, 0, time.UTC)
	return desde, hasta
}
