package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	engine   *ledger.Engine
	store    *memory.Store
	log      *memory.EventLog
	balances *memory.BalanceRepository
	catalog  *memory.CatalogRepository
	listener *commitRecorder
}

// newFixture arma un motor sobre el driver en memoria con el catálogo sembrado.
func newFixture(t *testing.T, products ...*entity.ProductRef) *fixture {
	t.Helper()
	if len(products) == 0 {
		products = []*entity.ProductRef{{
			ProductID:    "prod-1",
			SKU:          "SKU-001",
			Name:         "Tornillo 3/4",
			ReorderPoint: 10,
			UnitPrice:    decimal.NewFromFloat(25.50),
		}}
	}
	store := memory.NewStore()
	catalog := memory.NewCatalogRepository(products...)
	listener := &commitRecorder{}
	return &fixture{
		engine:   ledger.NewEngine(memory.NewTxRunner(store), memory.NewBalanceRepository(store), catalog, listener),
		store:    store,
		log:      memory.NewEventLog(store),
		balances: memory.NewBalanceRepository(store),
		catalog:  catalog,
		listener: listener,
	}
}

// submit es un atajo para sumisiones dentro de los tests.
func (f *fixture) submit(t *testing.T, kind string, qty int64) *ledger.Receipt {
	t.Helper()
	receipt, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID: "prod-1",
		Kind:      kind,
		Quantity:  qty,
		ActorID:   "tester",
	})
	require.NoError(t, err)
	return receipt
}

func (f *fixture) lastPosition(t *testing.T) int64 {
	t.Helper()
	last, err := f.log.LastPosition(context.Background())
	require.NoError(t, err)
	return last
}

func (f *fixture) currentStock(t *testing.T, productID string) int64 {
	t.Helper()
	bal, err := f.balances.Get(context.Background(), productID)
	require.NoError(t, err)
	return bal.CurrentStock
}

// commitRecorder registra las notificaciones de commit del motor.
type commitRecorder struct {
	mu       sync.Mutex
	eventIDs []int64
	balances []int64
}

func (r *commitRecorder) EventCommitted(_ context.Context, ev *entity.StockEvent, newBalance int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventIDs = append(r.eventIDs, ev.Position)
	r.balances = append(r.balances, newBalance)
}

func (r *commitRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.eventIDs)
}

// failingTxRunner simula un almacenamiento caído.
type failingTxRunner struct {
	err error
}

func (f *failingTxRunner) Run(context.Context, func(
	events repository.EventLog,
	balances repository.BalanceRepository,
) error) error {
	return f.err
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: vida diaria del kardex (entradas y salidas felices)
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_EntradaYSalidaActualizanBalance(t *testing.T) {
	f := newFixture(t)

	r1 := f.submit(t, entity.KindInbound, 100)
	assert.Equal(t, int64(1), r1.EventID, "el primer evento ocupa la posición 1")
	assert.NotEmpty(t, r1.EventUID)
	assert.Equal(t, int64(100), r1.NewBalance)

	r2 := f.submit(t, entity.KindOutbound, 30)
	assert.Equal(t, int64(2), r2.EventID)
	assert.Equal(t, int64(70), r2.NewBalance)

	bal, err := f.engine.GetBalance(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), bal.CurrentStock)
}

func TestSubmit_PosicionesEstrictamenteCrecientes(t *testing.T) {
	f := newFixture(t)

	var prev int64
	for i := 0; i < 5; i++ {
		r := f.submit(t, entity.KindInbound, 1)
		assert.Greater(t, r.EventID, prev, "cada evento debe tener posición mayor al anterior")
		prev = r.EventID
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: rechazo por stock insuficiente (sin rastro en el log)
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_SalidaMayorAlStockEsRechazada(t *testing.T) {
	f := newFixture(t)
	f.submit(t, entity.KindInbound, 5)

	_, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID: "prod-1",
		Kind:      entity.KindOutbound,
		Quantity:  10,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, "prod-1", insErr.ProductID)
	assert.Equal(t, int64(10), insErr.Requested)
	assert.Equal(t, int64(5), insErr.Available)

	// El rechazo no deja rastro: ni evento anexado ni balance tocado.
	assert.Equal(t, int64(1), f.lastPosition(t), "el log no debe crecer con un rechazo")
	assert.Equal(t, int64(5), f.currentStock(t, "prod-1"))

	// El rechazo no deja residuo: la salida que sí cabe pasa completa.
	r := f.submit(t, entity.KindOutbound, 5)
	assert.Equal(t, int64(0), r.NewBalance)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: ajustes con signo (conteo físico)
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_AjustesConSigno(t *testing.T) {
	f := newFixture(t)
	f.submit(t, entity.KindInbound, 20)

	// Un ajuste que dejaría el balance negativo se rechaza igual que una salida.
	_, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID: "prod-1",
		Kind:      entity.KindAdjustment,
		Quantity:  -100,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, int64(100), insErr.Requested)
	assert.Equal(t, int64(20), insErr.Available)

	r := f.submit(t, entity.KindAdjustment, -5)
	assert.Equal(t, int64(15), r.NewBalance)

	r = f.submit(t, entity.KindAdjustment, 7)
	assert.Equal(t, int64(22), r.NewBalance)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: cantidad cero (no-op auditado)
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CantidadCeroSeAceptaYQuedaEnElLog(t *testing.T) {
	f := newFixture(t)

	r := f.submit(t, entity.KindOutbound, 0)
	assert.Equal(t, int64(1), r.EventID, "el evento de cantidad cero sí se anexa")
	assert.Equal(t, int64(0), r.NewBalance)
	assert.Equal(t, int64(1), f.lastPosition(t))
	assert.Equal(t, int64(0), f.currentStock(t, "prod-1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada y catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_ProductoDesconocidoEsRechazado(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID: "prod-x",
		Kind:      entity.KindInbound,
		Quantity:  1,
	})
	require.ErrorIs(t, err, domain.ErrUnknownProduct)

	var unkErr *domain.UnknownProductError
	require.ErrorAs(t, err, &unkErr)
	assert.Equal(t, "prod-x", unkErr.ProductID)

	assert.Equal(t, int64(0), f.lastPosition(t), "nada debe anexarse para un producto desconocido")
}

func TestSubmit_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		in   ledger.SubmitInput
	}{
		{"producto vacío", ledger.SubmitInput{Kind: entity.KindInbound, Quantity: 1}},
		{"tipo desconocido", ledger.SubmitInput{ProductID: "prod-1", Kind: "TRANSFER", Quantity: 1}},
		{"entrada negativa", ledger.SubmitInput{ProductID: "prod-1", Kind: entity.KindInbound, Quantity: -5}},
		{"salida negativa", ledger.SubmitInput{ProductID: "prod-1", Kind: entity.KindOutbound, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.Submit(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(0), f.lastPosition(t), "ninguna entrada inválida debe anexarse")
}

func TestGetBalance_ProductoSinEventosRetornaCero(t *testing.T) {
	f := newFixture(t)

	bal, err := f.engine.GetBalance(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.CurrentStock, "sin eventos el balance implícito es cero")

	_, err = f.engine.GetBalance(context.Background(), "prod-x")
	require.ErrorIs(t, err, domain.ErrUnknownProduct)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: sumisiones simultáneas sobre el mismo producto
// ──────────────────────────────────────────────────────────────────────────────

// Con stock 100 y 150 salidas concurrentes de 1 unidad, exactamente 100 deben
// comprometerse y 50 rechazarse; el balance nunca baja de cero.
func TestSubmit_ConcurrenciaNoPierdeNiRegalaStock(t *testing.T) {
	f := newFixture(t)
	f.submit(t, entity.KindInbound, 100)

	const intentos = 150
	results := make(chan error, intentos)
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < intentos/2; i++ {
				_, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
					ProductID: "prod-1",
					Kind:      entity.KindOutbound,
					Quantity:  1,
				})
				results <- err
			}
		}()
	}
	wg.Wait()
	close(results)

	var accepted, rejected int
	for err := range results {
		switch {
		case err == nil:
			accepted++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock,
				"el único rechazo esperado es por stock insuficiente")
			rejected++
		}
	}
	assert.Equal(t, 100, accepted)
	assert.Equal(t, 50, rejected)
	assert.Equal(t, int64(0), f.currentStock(t, "prod-1"))
	assert.Equal(t, int64(101), f.lastPosition(t),
		"el log debe tener la entrada inicial más las 100 salidas comprometidas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificación de commits y fallas de almacenamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_NotificaCadaCommitConElNuevoBalance(t *testing.T) {
	f := newFixture(t)

	f.submit(t, entity.KindInbound, 10)
	f.submit(t, entity.KindOutbound, 4)

	require.Equal(t, 2, f.listener.count())
	assert.Equal(t, []int64{1, 2}, f.listener.eventIDs)
	assert.Equal(t, []int64{10, 6}, f.listener.balances)

	// Un rechazo no debe notificarse.
	_, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID: "prod-1",
		Kind:      entity.KindOutbound,
		Quantity:  999,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.listener.count(), "los rechazos no generan notificación")
}

func TestSubmit_FallaDeAlmacenamientoSePropaga(t *testing.T) {
	catalog := memory.NewCatalogRepository(&entity.ProductRef{ProductID: "prod-1"})
	listener := &commitRecorder{}
	down := &failingTxRunner{err: fmt.Errorf("conexión caída: %w", domain.ErrStorageUnavailable)}
	store := memory.NewStore()
	engine := ledger.NewEngine(down, memory.NewBalanceRepository(store), catalog, listener)

	_, err := engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID: "prod-1",
		Kind:      entity.KindInbound,
		Quantity:  1,
	})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Equal(t, 0, listener.count(), "una falla de almacenamiento no debe notificar commit")
}

// ──────────────────────────────────────────────────────────────────────────────
// OccurredAt: el instante de negocio es del caller, con default al de sumisión
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_OccurredAtExplicitoSeConserva(t *testing.T) {
	f := newFixture(t)
	ayer := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)

	r, err := f.engine.Submit(context.Background(), ledger.SubmitInput{
		ProductID:  "prod-1",
		Kind:       entity.KindInbound,
		Quantity:   3,
		OccurredAt: ayer,
	})
	require.NoError(t, err)

	var got *entity.StockEvent
	require.NoError(t, f.log.ReadSince(context.Background(), 0, func(ev *entity.StockEvent) error {
		if ev.Position == r.EventID {
			got = ev
		}
		return nil
	}))
	require.NotNil(t, got)
	assert.True(t, got.OccurredAt.Equal(ayer), "OccurredAt explícito debe conservarse")
	assert.Equal(t, "prod-1", got.ProductID)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestSubmit_OccurredAtVacioSeEstampaAlMomento(t *testing.T) {
	f := newFixture(t)
	antes := time.Now().UTC()

	r := f.submit(t, entity.KindInbound, 1)

	var got *entity.StockEvent
	require.NoError(t, f.log.ReadSince(context.Background(), 0, func(ev *entity.StockEvent) error {
		if ev.Position == r.EventID {
			got = ev
		}
		return nil
	}))
	require.NotNil(t, got)
	assert.False(t, got.OccurredAt.Before(antes), "OccurredAt por defecto debe ser el instante de la sumisión")
	assert.WithinDuration(t, time.Now().UTC(), got.OccurredAt, time.Minute)
}
