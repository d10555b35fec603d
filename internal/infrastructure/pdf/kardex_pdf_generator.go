// Package pdf genera la representación imprimible del kardex con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + Almacén  │  Rango de fechas             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Comprobante | Cant | C.Unit | C.Tot  │
//	│         | Saldo | Valor saldo                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Cantidad actual / Costo final / Saldo valorizado  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// KardexPDFGenerator renderiza un kardex con Maroto v2.
type KardexPDFGenerator struct{}

// NewKardexPDFGenerator construye el generador.
func NewKardexPDFGenerator() *KardexPDFGenerator { return &KardexPDFGenerator{} }

// GenerateKardexPDF genera el PDF del kardex y devuelve sus bytes.
func (g *KardexPDFGenerator) GenerateKardexPDF(inv *entity.Inventario, res *kardex.Resultado) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, fila := range res.Filas {
		m.AddRows(filaRow(fila))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(resumenRow(res.Resumen))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: producto + almacén (izq) y título (der).
func headerRow(inv *entity.Inventario) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(inv.Producto, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Almacén: "+inv.Almacen, props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Inventario #%d", inv.ID), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a,
			Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(7).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Comprobante", 2, align.Left),
		h("Cantidad", 1, align.Right),
		h("C. Unit.", 2, align.Right),
		h("C. Total", 2, align.Right),
		h("Saldo", 1, align.Right),
		h("Valor", 1, align.Right),
	)
}

func filaRow(f kardex.Fila) core.Row {
	c := func(valor string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(valor, props.Text{Size: 7, Align: a, Top: 1}))
	}
	comprobante := f.NumeroComprobante
	if f.TipoComprobante != "" {
		comprobante = f.TipoComprobante + " " + f.NumeroComprobante
	}
	return row.New(6).Add(
		c(f.Fecha.Format("02/01/2006"), 2, align.Left),
		c(f.Tipo, 1, align.Center),
		c(comprobante, 2, align.Left),
		c(f.Cantidad.StringFixed(2), 1, align.Right),
		c(f.CostoUnitario.StringFixed(2), 2, align.Right),
		c(f.CostoTotal.StringFixed(2), 2, align.Right),
		c(f.SaldoCantidad.StringFixed(2), 1, align.Right),
		c(f.SaldoValor.StringFixed(2), 1, align.Right),
	)
}

func resumenRow(r kardex.Resumen) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cantidad actual: %s   |   Costo final: %s   |   Saldo valorizado: %s",
				r.CantidadActual.StringFixed(2),
				r.CostoFinal.StringFixed(2),
				r.SaldoActual.StringFixed(2),
			), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}),
		),
	)
}
