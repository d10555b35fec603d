package kardex_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ledgerFake historial en memoria ya en orden canónico (fecha, secuencia).
type ledgerFake struct {
	movs []*entity.Movimiento
}

func (f *ledgerFake) Append(mov *entity.Movimiento) error {
	mov.Secuencia = int64(len(f.movs) + 1)
	f.movs = append(f.movs, mov)
	return nil
}

func (f *ledgerFake) GetByID(id string) (*entity.Movimiento, error) {
	for _, m := range f.movs {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *ledgerFake) ListByInventario(idInventario int64, desde, hasta *time.Time) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	for _, m := range f.movs {
		if m.IDInventario != idInventario {
			continue
		}
		if desde != nil && m.Fecha.Before(*desde) {
			continue
		}
		if hasta != nil && m.Fecha.After(*hasta) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type inventarioFake struct {
	invs map[int64]*entity.Inventario
}

func (f *inventarioFake) GetByID(id int64) (*entity.Inventario, error) {
	return f.invs[id], nil
}

func (f *inventarioFake) List(idEmpresa int64, idAlmacen, idProducto *int64) ([]*entity.Inventario, error) {
	var out []*entity.Inventario
	for _, inv := range f.invs {
		if inv.IDEmpresa == idEmpresa {
			out = append(out, inv)
		}
	}
	return out, nil
}

type periodoFake struct {
	abierto *entity.PeriodoContable
}

func (f *periodoFake) Create(p *entity.PeriodoContable) error { return nil }
func (f *periodoFake) Update(p *entity.PeriodoContable) error { return nil }
func (f *periodoFake) GetByID(id int64) (*entity.PeriodoContable, error) {
	return nil, nil
}
func (f *periodoFake) GetByFecha(idEmpresa int64, fecha time.Time) (*entity.PeriodoContable, error) {
	return f.abierto, nil
}
func (f *periodoFake) GetAbierto(idEmpresa int64) (*entity.PeriodoContable, error) {
	return f.abierto, nil
}
func (f *periodoFake) ListByEmpresa(idEmpresa int64) ([]*entity.PeriodoContable, error) {
	return nil, nil
}

func mov(idInv int64, dia int, tipo string, cantidad, costo float64) *entity.Movimiento {
	c := decimal.NewFromFloat(cantidad)
	cu := decimal.NewFromFloat(costo)
	return &entity.Movimiento{
		ID:            fmt.Sprintf("mov-%d-%d-%s", idInv, dia, tipo),
		IDInventario:  idInv,
		Tipo:          tipo,
		Cantidad:      c,
		CostoUnitario: cu,
		CostoTotal:    c.Mul(cu),
		Fecha:         time.Date(2024, time.March, dia, 0, 0, 0, 0, time.UTC),
	}
}

func nuevoEngine(movs ...*entity.Movimiento) *kardex.Engine {
	ledger := &ledgerFake{}
	for _, m := range movs {
		_ = ledger.Append(m)
	}
	invs := &inventarioFake{invs: map[int64]*entity.Inventario{
		1: {ID: 1, IDEmpresa: 10, Producto: "Tornillo 3/8", Almacen: "Central"},
	}}
	return kardex.NewEngine(ledger, invs, &periodoFake{}, logger.Nop())
}

// TestGenerateKardex_SaldosCorrientes cada fila arrastra el saldo del
// movimiento anterior: entrada 10 @ 5.00, entrada 10 @ 7.00, salida 8.
// Bajo promedio la salida se costea a 6.00 y el saldo final es 12 @ 6.00.
func TestGenerateKardex_SaldosCorrientes(t *testing.T) {
	eng := nuevoEngine(
		mov(1, 1, entity.MovimientoEntrada, 10, 5.00),
		mov(1, 5, entity.MovimientoEntrada, 10, 7.00),
		mov(1, 10, entity.MovimientoSalida, 8, 0),
	)

	res, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1})
	require.NoError(t, err)
	require.Len(t, res.Filas, 3)

	assert.Equal(t, "10.00", res.Filas[0].SaldoCantidad.StringFixed(2))
	assert.Equal(t, "50.00", res.Filas[0].SaldoValor.StringFixed(2))

	assert.Equal(t, "20.00", res.Filas[1].SaldoCantidad.StringFixed(2))
	assert.Equal(t, "120.00", res.Filas[1].SaldoValor.StringFixed(2))
	assert.Equal(t, "6.00", res.Filas[1].SaldoCostoUnitario.StringFixed(2))

	assert.Equal(t, "6.00", res.Filas[2].CostoUnitario.StringFixed(2), "la salida sale al promedio vigente")
	assert.Equal(t, "12.00", res.Filas[2].SaldoCantidad.StringFixed(2))
	assert.Equal(t, "72.00", res.Filas[2].SaldoValor.StringFixed(2))

	assert.Equal(t, "12.00", res.Resumen.CantidadActual.StringFixed(2))
	assert.Equal(t, "72.00", res.Resumen.SaldoActual.StringFixed(2))
	assert.Equal(t, "6.00", res.Resumen.CostoFinal.StringFixed(2))
}

// TestGenerateKardex_MetodoFIFO con período abierto FIFO la salida se costea
// consumiendo los lotes virtuales más antiguos.
func TestGenerateKardex_MetodoFIFO(t *testing.T) {
	ledger := &ledgerFake{}
	_ = ledger.Append(mov(1, 1, entity.MovimientoEntrada, 10, 5.00))
	_ = ledger.Append(mov(1, 5, entity.MovimientoEntrada, 10, 7.00))
	_ = ledger.Append(mov(1, 10, entity.MovimientoSalida, 15, 0))
	invs := &inventarioFake{invs: map[int64]*entity.Inventario{
		1: {ID: 1, IDEmpresa: 10},
	}}
	periodos := &periodoFake{abierto: &entity.PeriodoContable{
		ID: 1, IDEmpresa: 10, Anio: 2024,
		Estado:           entity.PeriodoAbierto,
		MetodoValoracion: entity.MetodoFIFO,
	}}
	eng := kardex.NewEngine(ledger, invs, periodos, logger.Nop())

	res, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1})
	require.NoError(t, err)
	require.Len(t, res.Filas, 3)

	assert.Equal(t, "85.00", res.Filas[2].CostoTotal.StringFixed(2), "10@5 + 5@7")
	assert.Equal(t, "5.00", res.Filas[2].SaldoCantidad.StringFixed(2))
	assert.Equal(t, "35.00", res.Filas[2].SaldoValor.StringFixed(2), "queda el resto del lote de 7.00")
}

// TestGenerateKardex_SaldoNegativo una salida que excede el saldo histórico es
// una violación de integridad: error, jamás saldo recortado a cero.
func TestGenerateKardex_SaldoNegativo(t *testing.T) {
	eng := nuevoEngine(
		mov(1, 1, entity.MovimientoEntrada, 5, 4.00),
		mov(1, 2, entity.MovimientoSalida, 9, 0),
	)

	_, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1})
	require.ErrorIs(t, err, domain.ErrDataIntegrity)
}

// TestGenerateKardex_VentanaDeFechas la ventana recorta las filas devueltas
// pero el saldo de la primera fila visible arrastra todo el historial previo.
func TestGenerateKardex_VentanaDeFechas(t *testing.T) {
	eng := nuevoEngine(
		mov(1, 1, entity.MovimientoEntrada, 10, 5.00),
		mov(1, 10, entity.MovimientoEntrada, 10, 7.00),
		mov(1, 20, entity.MovimientoSalida, 5, 0),
	)

	desde := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2024, time.March, 15, 23, 59, 59, 0, time.UTC)
	res, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1, FechaInicio: &desde, FechaFin: &hasta})
	require.NoError(t, err)

	require.Len(t, res.Filas, 1, "solo la entrada del día 10 cae en la ventana")
	assert.Equal(t, "20.00", res.Filas[0].SaldoCantidad.StringFixed(2),
		"el saldo incluye la entrada previa a la ventana")
	assert.Equal(t, "20.00", res.Resumen.CantidadActual.StringFixed(2),
		"el resumen corta al cierre de la ventana, no al final del historial")
}

// TestGenerateKardex_PaginacionEstable los saldos de una página intermedia son
// idénticos a los de la misma fila consultada con todo el historial.
func TestGenerateKardex_PaginacionEstable(t *testing.T) {
	movs := []*entity.Movimiento{}
	for dia := 1; dia <= 6; dia++ {
		movs = append(movs, mov(1, dia, entity.MovimientoEntrada, 10, float64(dia)))
	}
	eng := nuevoEngine(movs...)

	completo, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1, Page: 1, Limit: 100})
	require.NoError(t, err)
	require.Len(t, completo.Filas, 6)

	pagina2, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1, Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, pagina2.Filas, 2)
	assert.Equal(t, 6, pagina2.Total)
	assert.Equal(t, 3, pagina2.TotalPages)

	// Filas 3 y 4 del historial completo.
	assert.True(t, pagina2.Filas[0].SaldoCantidad.Equal(completo.Filas[2].SaldoCantidad))
	assert.True(t, pagina2.Filas[0].SaldoValor.Equal(completo.Filas[2].SaldoValor))
	assert.True(t, pagina2.Filas[1].SaldoValor.Equal(completo.Filas[3].SaldoValor))

	assert.True(t, pagina2.Resumen.SaldoActual.Equal(completo.Resumen.SaldoActual),
		"el resumen no depende de la página")
}

// TestGenerateKardex_PaginaFueraDeRango devuelve conjunto vacío, no error.
func TestGenerateKardex_PaginaFueraDeRango(t *testing.T) {
	eng := nuevoEngine(mov(1, 1, entity.MovimientoEntrada, 10, 5.00))

	res, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1, Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Filas)
	assert.Equal(t, 1, res.Total)
}

// TestGenerateKardex_Validaciones ids no positivos y fechas invertidas se
// rechazan con ErrInvalidInput; inventario inexistente con ErrNotFound.
func TestGenerateKardex_Validaciones(t *testing.T) {
	eng := nuevoEngine()

	_, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	desde := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	_, err = eng.GenerateKardex(kardex.Solicitud{IDInventario: 1, FechaInicio: &desde, FechaFin: &hasta})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = eng.GenerateKardex(kardex.Solicitud{IDInventario: 999})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestGenerateKardex_HistorialVacio inventario existente sin movimientos:
// kardex vacío con resumen en ceros.
func TestGenerateKardex_HistorialVacio(t *testing.T) {
	eng := nuevoEngine()

	res, err := eng.GenerateKardex(kardex.Solicitud{IDInventario: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Filas)
	assert.True(t, res.Resumen.CantidadActual.IsZero())
	assert.True(t, res.Resumen.SaldoActual.IsZero())
}
