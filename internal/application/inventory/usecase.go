// Package inventory registra movimientos de inventario (entradas y salidas)
// de forma transaccional, aplicando el guard de períodos y el método de
// costeo del período activo.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/domain/valuation"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// MovimientoInput entrada para registrar un movimiento.
// CostoUnitario obligatorio en ENTRADA; en SALIDA lo fija el método de costeo.
type MovimientoInput struct {
	IDInventario        int64
	Tipo                string
	Cantidad            decimal.Decimal
	CostoUnitario       *decimal.Decimal
	Fecha               time.Time
	TipoComprobante     string
	NumeroComprobante   string
	Usuario             string
	PermitirRetroactivo bool
}

// PeriodGuard valida la fecha del registro contra los períodos contables.
type PeriodGuard interface {
	AssertOpenForDate(idEmpresa int64, fecha time.Time) error
	AssertNotRetroactive(idEmpresa int64, fecha time.Time, override bool) error
}

// RegistrarMovimientoUseCase registra movimientos dentro de una transacción:
// la fila del ledger y los decrementos de lote comiten atómicamente. Las
// salidas concurrentes contra el mismo inventario se serializan por el
// bloqueo de fila de los lotes (SELECT FOR UPDATE) dentro de la tx.
type RegistrarMovimientoUseCase struct {
	txRunner    TxRunner
	inventarios repository.InventarioRepository
	periodos    repository.PeriodoRepository
	guard       PeriodGuard
	log         *logger.Logger
}

// NewRegistrarMovimientoUseCase construye el caso de uso.
func NewRegistrarMovimientoUseCase(
	txRunner TxRunner,
	inventarios repository.InventarioRepository,
	periodos repository.PeriodoRepository,
	guard PeriodGuard,
	log *logger.Logger,
) *RegistrarMovimientoUseCase {
	return &RegistrarMovimientoUseCase{
		txRunner:    txRunner,
		inventarios: inventarios,
		periodos:    periodos,
		guard:       guard,
		log:         log,
	}
}

// RegistrarMovimiento valida, aplica el guard de período y ejecuta el asiento
// en una transacción (Commit si todo ok, Rollback si algo falla).
func (uc *RegistrarMovimientoUseCase) RegistrarMovimiento(ctx context.Context, input MovimientoInput) (*entity.Movimiento, error) {
	if err := validarInput(input); err != nil {
		return nil, err
	}

	inv, err := uc.inventarios.GetByID(input.IDInventario)
	if err != nil {
		return nil, fmt.Errorf("consultar inventario: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: inventario %d", domain.ErrNotFound, input.IDInventario)
	}

	if input.PermitirRetroactivo {
		if err := uc.guard.AssertNotRetroactive(inv.IDEmpresa, input.Fecha, true); err != nil {
			return nil, err
		}
	} else if err := uc.guard.AssertOpenForDate(inv.IDEmpresa, input.Fecha); err != nil {
		return nil, err
	}

	metodo, err := uc.metodoActivo(inv.IDEmpresa)
	if err != nil {
		return nil, err
	}

	var registrado *entity.Movimiento
	err = uc.txRunner.Run(ctx, func(ledger repository.MovementLedger, lotes repository.LoteRepository) error {
		var errTx error
		if input.Tipo == entity.MovimientoEntrada {
			registrado, errTx = uc.registrarEntrada(ledger, lotes, input, metodo)
		} else {
			registrado, errTx = uc.registrarSalida(ledger, lotes, input, metodo)
		}
		return errTx
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("idInventario", input.IDInventario).
		Str("tipo", input.Tipo).
		Str("cantidad", input.Cantidad.String()).
		Msg("movimiento registrado")
	return registrado, nil
}

// registrarEntrada guarda el movimiento y, bajo FIFO, crea el lote costeado.
func (uc *RegistrarMovimientoUseCase) registrarEntrada(
	ledger repository.MovementLedger,
	lotes repository.LoteRepository,
	input MovimientoInput,
	metodo string,
) (*entity.Movimiento, error) {
	costo := *input.CostoUnitario
	mov := uc.nuevoMovimiento(input, costo, input.Cantidad.Mul(costo), nil)
	if err := ledger.Append(mov); err != nil {
		return nil, fmt.Errorf("registrar entrada: %w", err)
	}
	if metodo == entity.MetodoFIFO {
		lote := &entity.Lote{
			IDInventario:    input.IDInventario,
			FechaIngreso:    input.Fecha,
			CantidadInicial: input.Cantidad,
			CantidadActual:  input.Cantidad,
			CostoUnitario:   costo,
		}
		if err := lotes.Create(lote); err != nil {
			return nil, fmt.Errorf("crear lote: %w", err)
		}
		mov.IDLote = &lote.ID
	}
	return mov, nil
}

// registrarSalida costea la salida según el método y la guarda. Bajo FIFO
// consume lotes bloqueados (FOR UPDATE) y persiste los decrementos en la
// misma tx; bajo promedio deriva el costo del replay del historial.
func (uc *RegistrarMovimientoUseCase) registrarSalida(
	ledger repository.MovementLedger,
	lotes repository.LoteRepository,
	input MovimientoInput,
	metodo string,
) (*entity.Movimiento, error) {
	var costoUnitario, costoTotal decimal.Decimal

	if metodo == entity.MetodoFIFO {
		disponibles, err := lotes.ListDisponiblesForUpdate(input.IDInventario)
		if err != nil {
			return nil, fmt.Errorf("bloquear lotes: %w", err)
		}
		res := valuation.ConsumirLotes(disponibles, input.Cantidad)
		if res.Faltante.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: faltan %s", domain.ErrInsufficientStock, res.Faltante.String())
		}
		if err := persistirConsumo(lotes, disponibles, res); err != nil {
			return nil, err
		}
		costoUnitario = res.CostoUnitarioMezclado()
		costoTotal = res.CostoTotal()
	} else {
		tracker, err := uc.replayPromedio(ledger, input.IDInventario)
		if err != nil {
			return nil, err
		}
		cu, err := tracker.AplicarSalida(input.Cantidad)
		if err != nil {
			return nil, fmt.Errorf("%w: salida de %s", domain.ErrInsufficientStock, input.Cantidad.String())
		}
		costoUnitario = cu
		costoTotal = input.Cantidad.Mul(cu)
	}

	mov := uc.nuevoMovimiento(input, costoUnitario, costoTotal, nil)
	if err := ledger.Append(mov); err != nil {
		return nil, fmt.Errorf("registrar salida: %w", err)
	}
	return mov, nil
}

// AnularMovimiento registra un movimiento de reversa del original (jamás
// edición en sitio): una ENTRADA se anula con una SALIDA equivalente y
// viceversa, al mismo costo, con ReversaDe apuntando al original. La reversa
// se asienta en la fecha del original, así que pasa por el mismo guard de
// período que cualquier registro; anular hacia un período cerrado exige
// permitirRetroactivo. Si la reversa retira mercadería, los decrementos de
// lote comiten en la misma tx que la fila del ledger.
func (uc *RegistrarMovimientoUseCase) AnularMovimiento(ctx context.Context, idMovimiento, usuario string, permitirRetroactivo bool) (*entity.Movimiento, error) {
	if idMovimiento == "" {
		return nil, fmt.Errorf("%w: id de movimiento obligatorio", domain.ErrInvalidInput)
	}

	var reversa *entity.Movimiento
	err := uc.txRunner.Run(ctx, func(ledger repository.MovementLedger, lotes repository.LoteRepository) error {
		original, err := ledger.GetByID(idMovimiento)
		if err != nil {
			return fmt.Errorf("consultar movimiento: %w", err)
		}
		if original == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, idMovimiento)
		}
		if original.ReversaDe != nil {
			return fmt.Errorf("%w: no se puede anular una reversa", domain.ErrConflict)
		}

		inv, err := uc.inventarios.GetByID(original.IDInventario)
		if err != nil {
			return fmt.Errorf("consultar inventario: %w", err)
		}
		if inv == nil {
			return fmt.Errorf("%w: inventario %d", domain.ErrNotFound, original.IDInventario)
		}
		if permitirRetroactivo {
			if err := uc.guard.AssertNotRetroactive(inv.IDEmpresa, original.Fecha, true); err != nil {
				return err
			}
		} else if err := uc.guard.AssertOpenForDate(inv.IDEmpresa, original.Fecha); err != nil {
			return err
		}

		metodo, err := uc.metodoActivo(inv.IDEmpresa)
		if err != nil {
			return err
		}

		tipo := entity.MovimientoSalida
		if !original.EsEntrada() {
			tipo = entity.MovimientoEntrada
		}
		reversa = &entity.Movimiento{
			ID:                uuid.New().String(),
			IDInventario:      original.IDInventario,
			Tipo:              tipo,
			Cantidad:          original.Cantidad,
			CostoUnitario:     original.CostoUnitario,
			CostoTotal:        original.CostoTotal,
			TipoComprobante:   "ANULACION",
			NumeroComprobante: original.NumeroComprobante,
			Fecha:             original.Fecha,
			ReversaDe:         &original.ID,
			CreatedAt:         time.Now(),
			CreatedBy:         usuario,
		}

		// Anular una entrada retira la mercadería: el stock debe cubrir la
		// cantidad igual que en cualquier salida. Si ya se consumió, la
		// anulación se rechaza en lugar de dejar el historial en negativo.
		if tipo == entity.MovimientoSalida {
			if metodo == entity.MetodoFIFO {
				disponibles, err := lotes.ListDisponiblesForUpdate(original.IDInventario)
				if err != nil {
					return fmt.Errorf("bloquear lotes: %w", err)
				}
				res := valuation.ConsumirLotes(disponibles, reversa.Cantidad)
				if res.Faltante.GreaterThan(decimal.Zero) {
					return fmt.Errorf("%w: faltan %s para anular la entrada", domain.ErrInsufficientStock, res.Faltante.String())
				}
				if err := persistirConsumo(lotes, disponibles, res); err != nil {
					return err
				}
			} else {
				tracker, err := uc.replayPromedio(ledger, original.IDInventario)
				if err != nil {
					return err
				}
				if _, err := tracker.AplicarSalida(reversa.Cantidad); err != nil {
					return fmt.Errorf("%w: anular la entrada dejaría el saldo en negativo", domain.ErrInsufficientStock)
				}
			}
		}

		if err := ledger.Append(reversa); err != nil {
			return fmt.Errorf("registrar reversa: %w", err)
		}
		// La reversa de una salida FIFO reingresa la cantidad como lote nuevo
		// al costo de la salida original; los lotes consumidos no se
		// reconstruyen (mutación monótona decreciente).
		if reversa.EsEntrada() && metodo == entity.MetodoFIFO {
			lote := &entity.Lote{
				IDInventario:    reversa.IDInventario,
				FechaIngreso:    reversa.Fecha,
				CantidadInicial: reversa.Cantidad,
				CantidadActual:  reversa.Cantidad,
				CostoUnitario:   reversa.CostoUnitario,
			}
			if err := lotes.Create(lote); err != nil {
				return fmt.Errorf("crear lote de reversa: %w", err)
			}
			reversa.IDLote = &lote.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("idMovimiento", idMovimiento).Str("usuario", usuario).Msg("movimiento anulado con reversa")
	return reversa, nil
}

// persistirConsumo escribe los decrementos de los lotes efectivamente
// consumidos por la asignación; los lotes que la asignación no tocó no
// reciben UPDATE.
func persistirConsumo(lotes repository.LoteRepository, disponibles []*entity.Lote, res valuation.ResultadoConsumo) error {
	porID := make(map[int64]*entity.Lote, len(disponibles))
	for _, l := range disponibles {
		porID[l.ID] = l
	}
	for _, asig := range res.Asignaciones {
		lote := porID[asig.IDLote]
		if err := lotes.UpdateCantidad(lote.ID, lote.CantidadActual); err != nil {
			return fmt.Errorf("actualizar lote %d: %w", lote.ID, err)
		}
	}
	return nil
}

func (uc *RegistrarMovimientoUseCase) nuevoMovimiento(input MovimientoInput, costoUnitario, costoTotal decimal.Decimal, reversaDe *string) *entity.Movimiento {
	return &entity.Movimiento{
		ID:                uuid.New().String(),
		IDInventario:      input.IDInventario,
		Tipo:              input.Tipo,
		Cantidad:          input.Cantidad,
		CostoUnitario:     costoUnitario,
		CostoTotal:        costoTotal,
		TipoComprobante:   input.TipoComprobante,
		NumeroComprobante: input.NumeroComprobante,
		Fecha:             input.Fecha,
		ReversaDe:         reversaDe,
		CreatedAt:         time.Now(),
		CreatedBy:         input.Usuario,
	}
}

func (uc *RegistrarMovimientoUseCase) metodoActivo(idEmpresa int64) (string, error) {
	periodo, err := uc.periodos.GetAbierto(idEmpresa)
	if err != nil {
		return "", fmt.Errorf("consultar período activo: %w", err)
	}
	if periodo == nil || periodo.MetodoValoracion == "" {
		return entity.MetodoPromedio, nil
	}
	return periodo.MetodoValoracion, nil
}

// replayPromedio reconstruye el estado (cantidad, costo promedio) desde el
// ledger dentro de la tx. El stock nunca se lee de un contador almacenado.
func (uc *RegistrarMovimientoUseCase) replayPromedio(ledger repository.MovementLedger, idInventario int64) (*valuation.PromedioTracker, error) {
	movs, err := ledger.ListByInventario(idInventario, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	tracker := valuation.NewPromedioTracker()
	for _, mov := range movs {
		if mov.EsEntrada() {
			tracker.AplicarEntrada(mov.Cantidad, mov.CostoUnitario)
			continue
		}
		if _, err := tracker.AplicarSalida(mov.Cantidad); err != nil {
			return nil, fmt.Errorf("%w: historial del inventario %d con salidas que exceden las entradas",
				domain.ErrDataIntegrity, idInventario)
		}
	}
	return tracker, nil
}

func validarInput(input MovimientoInput) error {
	if input.IDInventario <= 0 {
		return fmt.Errorf("%w: idInventario debe ser positivo", domain.ErrInvalidInput)
	}
	if input.Tipo != entity.MovimientoEntrada && input.Tipo != entity.MovimientoSalida {
		return fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, input.Tipo)
	}
	if !input.Cantidad.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if input.Fecha.IsZero() {
		return fmt.Errorf("%w: fecha obligatoria", domain.ErrInvalidInput)
	}
	if input.Tipo == entity.MovimientoEntrada {
		if input.CostoUnitario == nil || input.CostoUnitario.IsNegative() {
			return fmt.Errorf("%w: costo unitario obligatorio en entradas", domain.ErrInvalidInput)
		}
	}
	return nil
}
