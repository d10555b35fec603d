package valuation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Asignacion describe cuánto se consumió de un lote y a qué costo.
type Asignacion struct {
	IDLote        int64
	Cantidad      decimal.Decimal
	CostoUnitario decimal.Decimal
}

// ResultadoConsumo es la salida de ConsumirLotes. Si Faltante > 0 los lotes no
// alcanzaron para cubrir lo solicitado; el caller decide si eso es
// ErrInsufficientStock (registro) o ErrDataIntegrity (replay).
type ResultadoConsumo struct {
	Asignaciones []Asignacion
	Faltante     decimal.Decimal
}

// ConsumirLotes consume lotes en orden FIFO: fecha de ingreso ascendente,
// desempate por id de lote ascendente para determinismo. Decrementa
// CantidadActual de cada lote consumido (mutación monótona decreciente) y
// reparte la salida entre varios lotes cuando excede el restante del más
// antiguo.
func ConsumirLotes(lotes []*entity.Lote, solicitado decimal.Decimal) ResultadoConsumo {
	ordenados := make([]*entity.Lote, len(lotes))
	copy(ordenados, lotes)
	sort.SliceStable(ordenados, func(i, j int) bool {
		if !ordenados[i].FechaIngreso.Equal(ordenados[j].FechaIngreso) {
			return ordenados[i].FechaIngreso.Before(ordenados[j].FechaIngreso)
		}
		return ordenados[i].ID < ordenados[j].ID
	})

	res := ResultadoConsumo{Faltante: solicitado}
	for _, lote := range ordenados {
		if res.Faltante.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lote.Agotado() {
			continue
		}
		toma := decimal.Min(lote.CantidadActual, res.Faltante)
		lote.CantidadActual = lote.CantidadActual.Sub(toma)
		res.Asignaciones = append(res.Asignaciones, Asignacion{
			IDLote:        lote.ID,
			Cantidad:      toma,
			CostoUnitario: lote.CostoUnitario,
		})
		res.Faltante = res.Faltante.Sub(toma)
	}
	return res
}

// CostoTotal devuelve el valor total de las asignaciones.
func (r ResultadoConsumo) CostoTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Asignaciones {
		total = total.Add(a.Cantidad.Mul(a.CostoUnitario))
	}
	return total
}

// CostoUnitarioMezclado devuelve el costo unitario ponderado de las
// asignaciones (valor total / cantidad asignada). Cero si no se asignó nada.
func (r ResultadoConsumo) CostoUnitarioMezclado() decimal.Decimal {
	asignado := decimal.Zero
	for _, a := range r.Asignaciones {
		asignado = asignado.Add(a.Cantidad)
	}
	if asignado.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return r.CostoTotal().Div(asignado)
}

// ValorarLotes suma cantidad restante y valor de un conjunto de lotes
// (valoración FIFO del stock actual a partir de lotes persistidos).
func ValorarLotes(lotes []*entity.Lote) (cantidad, valor decimal.Decimal) {
	cantidad, valor = decimal.Zero, decimal.Zero
	for _, l := range lotes {
		cantidad = cantidad.Add(l.CantidadActual)
		valor = valor.Add(l.ValorActual())
	}
	return cantidad, valor
}
