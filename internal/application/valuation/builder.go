// Package valuation (aplicación) construye el reporte de valoración de stock:
// cada inventario valorado bajo FIFO y promedio ponderado a la vez, con la
// diferencia firmada y totales generales.
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	domainval "github.com/jhoicas/kardex-api/internal/domain/valuation"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Filtros del reporte de valoración. Punteros nil = sin filtro.
type Filtros struct {
	IDEmpresa  int64
	IDAlmacen  *int64
	IDProducto *int64
	Page       int
	Limit      int
}

// Item valoración de un inventario bajo ambos métodos.
type Item struct {
	Inventario            *entity.Inventario
	CantidadActual        decimal.Decimal
	ValoracionFIFO        decimal.Decimal
	CostoUnitarioFIFO     decimal.Decimal
	ValoracionPromedio    decimal.Decimal
	CostoUnitarioPromedio decimal.Decimal
	Diferencia            decimal.Decimal // FIFO − Promedio, firmada
	// FifoAproximado indica que la cifra FIFO salió de recomputar el historial
	// y no de lotes persistidos: válida solo como aproximación si el
	// seguimiento de lotes no estuvo activo de forma continua.
	FifoAproximado bool
}

// Resumen totales sobre todo el conjunto filtrado.
type Resumen struct {
	CantidadTotal      decimal.Decimal
	ValorTotalFIFO     decimal.Decimal
	ValorTotalPromedio decimal.Decimal
	DiferenciaTotal    decimal.Decimal
}

// Reporte items paginados más totales.
type Reporte struct {
	Items      []Item
	Resumen    Resumen
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Builder lectura pura: no muta lotes ni movimientos; dos llamadas con el
// mismo historial producen resultados idénticos.
type Builder struct {
	ledger      repository.MovementLedger
	inventarios repository.InventarioRepository
	lotes       repository.LoteRepository
	periodos    repository.PeriodoRepository
	log         *logger.Logger
}

// NewBuilder construye el builder.
func NewBuilder(
	ledger repository.MovementLedger,
	inventarios repository.InventarioRepository,
	lotes repository.LoteRepository,
	periodos repository.PeriodoRepository,
	log *logger.Logger,
) *Builder {
	return &Builder{ledger: ledger, inventarios: inventarios, lotes: lotes, periodos: periodos, log: log}
}

// BuildValuation valora cada inventario que cumpla los filtros bajo FIFO y
// promedio de forma independiente sobre el mismo historial. Los totales del
// resumen cubren todo el conjunto filtrado; la paginación solo recorta los
// items devueltos.
func (b *Builder) BuildValuation(f Filtros) (*Reporte, error) {
	if f.IDEmpresa <= 0 {
		return nil, fmt.Errorf("%w: idEmpresa debe ser positivo", domain.ErrInvalidInput)
	}
	if (f.IDAlmacen != nil && *f.IDAlmacen <= 0) || (f.IDProducto != nil && *f.IDProducto <= 0) {
		return nil, fmt.Errorf("%w: filtros con id no positivo", domain.ErrInvalidInput)
	}
	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	invs, err := b.inventarios.List(f.IDEmpresa, f.IDAlmacen, f.IDProducto)
	if err != nil {
		return nil, fmt.Errorf("listar inventarios: %w", err)
	}

	metodoFIFOActivo, err := b.metodoFIFOActivo(f.IDEmpresa)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(invs))
	var resumen Resumen
	resumen.CantidadTotal = decimal.Zero
	resumen.ValorTotalFIFO = decimal.Zero
	resumen.ValorTotalPromedio = decimal.Zero
	for _, inv := range invs {
		item, err := b.valorarInventario(inv, metodoFIFOActivo)
		if err != nil {
			b.log.Error().Err(err).Int64("idInventario", inv.ID).Msg("valoración de inventario falló")
			return nil, err
		}
		items = append(items, item)
		resumen.CantidadTotal = resumen.CantidadTotal.Add(item.CantidadActual)
		resumen.ValorTotalFIFO = resumen.ValorTotalFIFO.Add(item.ValoracionFIFO)
		resumen.ValorTotalPromedio = resumen.ValorTotalPromedio.Add(item.ValoracionPromedio)
	}
	resumen.DiferenciaTotal = resumen.ValorTotalFIFO.Sub(resumen.ValorTotalPromedio)

	total := len(items)
	totalPages := (total + limit - 1) / limit
	inicio := (page - 1) * limit
	fin := inicio + limit
	var pagina []Item
	if inicio < total {
		if fin > total {
			fin = total
		}
		pagina = items[inicio:fin]
	}

	return &Reporte{
		Items:      pagina,
		Resumen:    resumen,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (b *Builder) metodoFIFOActivo(idEmpresa int64) (bool, error) {
	periodo, err := b.periodos.GetAbierto(idEmpresa)
	if err != nil {
		return false, fmt.Errorf("consultar período activo: %w", err)
	}
	return periodo != nil && periodo.MetodoValoracion == entity.MetodoFIFO, nil
}

// valorarInventario reproduce el historial del inventario con un tracker de
// promedio y una cola de lotes virtual FIFO en paralelo. Si el método FIFO
// está activo y hay lotes persistidos, la cifra FIFO sale de los lotes reales;
// si no, se usa la recomputación abstracta y se marca FifoAproximado.
func (b *Builder) valorarInventario(inv *entity.Inventario, fifoActivo bool) (Item, error) {
	movs, err := b.ledger.ListByInventario(inv.ID, nil, nil)
	if err != nil {
		return Item{}, fmt.Errorf("listar movimientos de inventario %d: %w", inv.ID, err)
	}

	tracker := domainval.NewPromedioTracker()
	var lotesVirtuales []*entity.Lote
	for _, mov := range movs {
		if mov.EsEntrada() {
			tracker.AplicarEntrada(mov.Cantidad, mov.CostoUnitario)
			lotesVirtuales = append(lotesVirtuales, &entity.Lote{
				ID:              mov.Secuencia,
				IDInventario:    mov.IDInventario,
				FechaIngreso:    mov.Fecha,
				CantidadInicial: mov.Cantidad,
				CantidadActual:  mov.Cantidad,
				CostoUnitario:   mov.CostoUnitario,
			})
			continue
		}
		if _, err := tracker.AplicarSalida(mov.Cantidad); err != nil {
			return Item{}, fmt.Errorf(
				"%w: inventario %d con salidas que exceden las entradas",
				domain.ErrDataIntegrity, inv.ID)
		}
		res := domainval.ConsumirLotes(lotesVirtuales, mov.Cantidad)
		if res.Faltante.GreaterThan(decimal.Zero) {
			return Item{}, fmt.Errorf(
				"%w: inventario %d con salida mayor al disponible en lotes",
				domain.ErrDataIntegrity, inv.ID)
		}
	}

	cantFIFO, valorFIFO := domainval.ValorarLotes(lotesVirtuales)
	aproximado := true
	if fifoActivo {
		persistidos, err := b.lotes.ListByInventario(inv.ID)
		if err != nil {
			return Item{}, fmt.Errorf("listar lotes de inventario %d: %w", inv.ID, err)
		}
		if len(persistidos) > 0 {
			cantFIFO, valorFIFO = domainval.ValorarLotes(persistidos)
			aproximado = false
		}
	}

	cantProm, costoProm := tracker.Estado()
	valorProm := tracker.Valor()

	costoFIFO := decimal.Zero
	if cantFIFO.GreaterThan(decimal.Zero) {
		costoFIFO = valorFIFO.Div(cantFIFO)
	}

	return Item{
		Inventario:            inv,
		CantidadActual:        cantProm,
		ValoracionFIFO:        valorFIFO,
		CostoUnitarioFIFO:     costoFIFO,
		ValoracionPromedio:    valorProm,
		CostoUnitarioPromedio: costoProm,
		Diferencia:            valorFIFO.Sub(valorProm),
		FifoAproximado:        aproximado,
	}, nil
}
