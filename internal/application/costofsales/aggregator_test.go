package costofsales_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/costofsales"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

type ledgerFake struct {
	movs map[int64][]*entity.Movimiento
}

func (f *ledgerFake) Append(mov *entity.Movimiento) error { return nil }
func (f *ledgerFake) GetByID(id string) (*entity.Movimiento, error) {
	return nil, nil
}
func (f *ledgerFake) ListByInventario(idInventario int64, desde, hasta *time.Time) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	for _, m := range f.movs[idInventario] {
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
	invs []*entity.Inventario
}

func (f *inventarioFake) GetByID(id int64) (*entity.Inventario, error) {
	for _, inv := range f.invs {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
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

func mov(idInv int64, mes time.Month, dia int, tipo string, costoTotal float64) *entity.Movimiento {
	return &entity.Movimiento{
		IDInventario: idInv,
		Tipo:         tipo,
		Cantidad:     decimal.NewFromInt(1),
		CostoTotal:   decimal.NewFromFloat(costoTotal),
		Fecha:        time.Date(2024, mes, dia, 0, 0, 0, 0, time.UTC),
	}
}

// TestBuildMensual_AcumuladoPorMes enero: compras 100, salidas 30, inventario
// final 70. Febrero: solo salidas por 20, el inventario final acumula a 50 y
// se mantiene en 50 el resto del año.
func TestBuildMensual_AcumuladoPorMes(t *testing.T) {
	ledger := &ledgerFake{movs: map[int64][]*entity.Movimiento{
		1: {
			mov(1, time.January, 5, entity.MovimientoEntrada, 100),
			mov(1, time.January, 20, entity.MovimientoSalida, 30),
			mov(1, time.February, 10, entity.MovimientoSalida, 20),
		},
	}}
	invs := &inventarioFake{invs: []*entity.Inventario{{ID: 1, IDEmpresa: 10}}}
	agg := costofsales.NewAggregator(ledger, invs, logger.Nop())

	rep, err := agg.BuildMensual(costofsales.Solicitud{IDEmpresa: 10, Anio: 2024})
	require.NoError(t, err)
	require.Len(t, rep.Meses, 12, "siempre doce buckets, incluso meses sin movimientos")

	enero := rep.Meses[0]
	assert.Equal(t, "100.00", enero.Compras.StringFixed(2))
	assert.Equal(t, "30.00", enero.Salidas.StringFixed(2))
	assert.Equal(t, "70.00", enero.InventarioFinal.StringFixed(2))

	febrero := rep.Meses[1]
	assert.Equal(t, "0.00", febrero.Compras.StringFixed(2))
	assert.Equal(t, "20.00", febrero.Salidas.StringFixed(2))
	assert.Equal(t, "50.00", febrero.InventarioFinal.StringFixed(2), "acumulado enero-febrero")

	diciembre := rep.Meses[11]
	assert.Equal(t, "50.00", diciembre.InventarioFinal.StringFixed(2), "sin más movimientos el acumulado se sostiene")

	assert.Equal(t, "100.00", rep.Sumatorias.TotalCompras.StringFixed(2))
	assert.Equal(t, "50.00", rep.Sumatorias.TotalSalidas.StringFixed(2))
	assert.Equal(t, "50.00", rep.Sumatorias.InventarioFinal.StringFixed(2))
}

// TestBuildMensual_IgnoraOtrosAnios movimientos fuera del año consultado no
// entran al reporte.
func TestBuildMensual_IgnoraOtrosAnios(t *testing.T) {
	fuera := mov(1, time.March, 1, entity.MovimientoEntrada, 999)
	fuera.Fecha = time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	ledger := &ledgerFake{movs: map[int64][]*entity.Movimiento{
		1: {fuera, mov(1, time.March, 1, entity.MovimientoEntrada, 40)},
	}}
	invs := &inventarioFake{invs: []*entity.Inventario{{ID: 1, IDEmpresa: 10}}}
	agg := costofsales.NewAggregator(ledger, invs, logger.Nop())

	rep, err := agg.BuildMensual(costofsales.Solicitud{IDEmpresa: 10, Anio: 2024})
	require.NoError(t, err)
	assert.Equal(t, "40.00", rep.Sumatorias.TotalCompras.StringFixed(2))
}

// TestBuildPorInventario agrupa el triple por inventario con totales generales.
func TestBuildPorInventario(t *testing.T) {
	ledger := &ledgerFake{movs: map[int64][]*entity.Movimiento{
		1: {
			mov(1, time.May, 1, entity.MovimientoEntrada, 100),
			mov(1, time.June, 1, entity.MovimientoSalida, 40),
		},
		2: {mov(2, time.May, 1, entity.MovimientoEntrada, 60)},
	}}
	invs := &inventarioFake{invs: []*entity.Inventario{
		{ID: 1, IDEmpresa: 10, Producto: "Cemento", Almacen: "Central"},
		{ID: 2, IDEmpresa: 10, Producto: "Arena", Almacen: "Norte"},
	}}
	agg := costofsales.NewAggregator(ledger, invs, logger.Nop())

	rep, err := agg.BuildPorInventario(costofsales.Solicitud{IDEmpresa: 10, Anio: 2024})
	require.NoError(t, err)
	require.Len(t, rep.Items, 2)

	porID := map[int64]costofsales.ItemInventario{}
	for _, it := range rep.Items {
		porID[it.Inventario.ID] = it
	}
	assert.Equal(t, "60.00", porID[1].InventarioFinal.StringFixed(2))
	assert.Equal(t, "60.00", porID[2].InventarioFinal.StringFixed(2))

	assert.Equal(t, "160.00", rep.Sumatorias.TotalCompras.StringFixed(2))
	assert.Equal(t, "40.00", rep.Sumatorias.TotalSalidas.StringFixed(2))
	assert.Equal(t, "120.00", rep.Sumatorias.InventarioFinal.StringFixed(2))
}

// TestBuild_Validaciones año fuera de rango y empresa no positiva.
func TestBuild_Validaciones(t *testing.T) {
	agg := costofsales.NewAggregator(&ledgerFake{}, &inventarioFake{}, logger.Nop())

	_, err := agg.BuildMensual(costofsales.Solicitud{IDEmpresa: 10, Anio: 1999})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = agg.BuildMensual(costofsales.Solicitud{IDEmpresa: 10, Anio: 2031})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = agg.BuildPorInventario(costofsales.Solicitud{IDEmpresa: 0, Anio: 2024})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestNombreMes nombres en español y cadena vacía fuera de rango.
func TestNombreMes(t *testing.T) {
	assert.Equal(t, "Enero", costofsales.NombreMes(1))
	assert.Equal(t, "Diciembre", costofsales.NombreMes(12))
	assert.Equal(t, "", costofsales.NombreMes(0))
	assert.Equal(t, "", costofsales.NombreMes(13))
}
