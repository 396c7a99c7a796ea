package fulfillment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/event"
	"github.com/jhoicas/Logistica-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de extremo a extremo del coordinador sobre los dobles en memoria:
// cada operación pública es una transacción lógica única (todo o nada) y las
// operaciones son seguras de reintentar con identidad estable.
// ──────────────────────────────────────────────────────────────────────────────

type testEngine struct {
	store  *memStore
	runner *memTxRunner
	pub    *recordingPublisher
	coord  *fulfillment.Coordinator
}

// newTestEngine arma el motor con un producto, una bodega y stockQty unidades
// de stock inicial (Quantity = Available).
func newTestEngine(t *testing.T, cfg fulfillment.Config, stockQty int64) *testEngine {
	t.Helper()
	store := newMemStore()
	store.products[testProductID] = entity.Product{
		ID: testProductID, Name: "Café molido", Category: "alimentos", Unit: "kg",
	}
	store.warehouses[testWarehouseID] = entity.Warehouse{
		ID: testWarehouseID, Name: "Bodega Central", Capacity: 1000,
	}
	seedStock(store, stockQty)

	runner := &memTxRunner{store: store}
	pub := &recordingPublisher{}
	coord := fulfillment.NewCoordinator(
		runner,
		&memProductRepo{store: store},
		&memWarehouseRepo{store: store},
		&memStockRepo{store: store},
		&memOrderRepo{store: store},
		&memDeliveryRepo{store: store},
		fulfillment.NewReservationManager(fulfillment.NewLedger()),
		pub,
		cfg,
		logger.Nop(),
	)
	return &testEngine{store: store, runner: runner, pub: pub, coord: coord}
}

func (e *testEngine) place(t *testing.T, qty int64) string {
	t.Helper()
	id, err := e.coord.PlaceOrder(context.Background(), fulfillment.PlaceOrderInput{
		ProductID:    testProductID,
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(qty),
		CustomerName: "Cliente de Prueba",
	})
	require.NoError(t, err)
	return id
}

func (e *testEngine) level(t *testing.T) (quantity, available decimal.Decimal) {
	t.Helper()
	lvl, err := e.coord.GetInventoryLevel(context.Background(), testProductID, testWarehouseID)
	require.NoError(t, err)
	return lvl.Quantity, lvl.Available
}

func TestCoordinator_ColocarPedidoReservaStock(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)

	orderID := e.place(t, 7)

	order := e.store.orders[orderID]
	assert.Equal(t, entity.OrderPending, order.Status)
	require.NotEmpty(t, order.ReservationID)
	assert.Equal(t, entity.ReservationHeld, e.store.reservations[order.ReservationID].State)

	qty, avail := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)), "colocar no toca el físico")
	assert.True(t, avail.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, []string{event.TypeOrderPlaced}, e.pub.types())
}

func TestCoordinator_ColocarSinStockNoDejaRastro(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 3)

	_, err := e.coord.PlaceOrder(context.Background(), fulfillment.PlaceOrderInput{
		ProductID:    testProductID,
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(5),
		CustomerName: "Cliente de Prueba",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, e.store.orders, "un pedido rechazado no se persiste")
	assert.Empty(t, e.store.reservations)
	assert.Empty(t, e.store.movements)
	assert.Empty(t, e.pub.types(), "sin evento para una operación fallida")
}

func TestCoordinator_ProductoOBodegaInexistente(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)

	_, err := e.coord.PlaceOrder(context.Background(), fulfillment.PlaceOrderInput{
		ProductID:    "no-existe",
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(1),
		CustomerName: "Cliente",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.coord.PlaceOrder(context.Background(), fulfillment.PlaceOrderInput{
		ProductID:    testProductID,
		WarehouseID:  "no-existe",
		Quantity:     decimal.NewFromInt(1),
		CustomerName: "Cliente",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCoordinator_FlujoCompletoHastaEntrega(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	deliveryID, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)

	order := e.store.orders[orderID]
	assert.Equal(t, entity.OrderDispatched, order.Status)
	delivery := e.store.deliveries[deliveryID]
	assert.Equal(t, entity.DeliveryInTransit, delivery.Status)
	assert.Equal(t, orderID, delivery.OrderID)
	assert.Equal(t, "transportista-7", delivery.DeliveredBy)

	qty, avail := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(6)), "despachar consolida el físico")
	assert.True(t, avail.Equal(decimal.NewFromInt(6)))

	require.NoError(t, e.coord.CompleteDelivery(ctx, deliveryID))
	order = e.store.orders[orderID]
	delivery = e.store.deliveries[deliveryID]
	assert.Equal(t, entity.OrderDelivered, order.Status)
	assert.Equal(t, entity.DeliveryDelivered, delivery.Status)
	require.NotNil(t, delivery.DeliveredAt)

	assert.Equal(t, []string{
		event.TypeOrderPlaced, event.TypeOrderDispatched, event.TypeDeliveryCompleted,
	}, e.pub.types())
}

// TestCoordinator_EscenarioLibroMayor reproduce el recorrido de referencia:
// bodega con 10, pedido de 7 deja 3 disponibles, un pedido de 5 se rechaza,
// cancelar el primero devuelve los 10 y entonces el pedido de 5 procede.
func TestCoordinator_EscenarioLibroMayor(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderA := e.place(t, 7)
	_, avail := e.level(t)
	require.True(t, avail.Equal(decimal.NewFromInt(3)))

	_, err := e.coord.PlaceOrder(ctx, fulfillment.PlaceOrderInput{
		ProductID:    testProductID,
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(5),
		CustomerName: "Cliente B",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, e.coord.CancelOrder(ctx, orderA))
	qty, avail := e.level(t)
	require.True(t, qty.Equal(decimal.NewFromInt(10)), "cancelar no toca el físico")
	require.True(t, avail.Equal(decimal.NewFromInt(10)), "cancelar devuelve lo retenido")

	e.place(t, 5)
	_, avail = e.level(t)
	assert.True(t, avail.Equal(decimal.NewFromInt(5)))
}

func TestCoordinator_CancelarLiberaYEsIdempotente(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 7)
	require.NoError(t, e.coord.CancelOrder(ctx, orderID))

	order := e.store.orders[orderID]
	assert.Equal(t, entity.OrderCancelled, order.Status)
	assert.Equal(t, entity.ReservationReleased, e.store.reservations[order.ReservationID].State)

	// Repetir la cancelación es un no-op exitoso.
	require.NoError(t, e.coord.CancelOrder(ctx, orderID))
	_, avail := e.level(t)
	assert.True(t, avail.Equal(decimal.NewFromInt(10)), "la segunda cancelación no duplica la devolución")
}

func TestCoordinator_CancelarPedidoDespachadoFalla(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	_, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)

	err = e.coord.CancelOrder(ctx, orderID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	qty, _ := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(6)), "el rechazo no toca el libro mayor")
}

func TestCoordinator_DespacharPedidoCanceladoNoMutaElLibroMayor(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	require.NoError(t, e.coord.CancelOrder(ctx, orderID))
	movimientos := len(e.store.movements)

	_, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	qty, avail := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)))
	assert.True(t, avail.Equal(decimal.NewFromInt(10)))
	assert.Len(t, e.store.movements, movimientos, "la transición rechazada no genera movimientos")
	assert.Empty(t, e.store.deliveries)
}

func TestCoordinator_ColocarConIDEsIdempotente(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	in := fulfillment.PlaceOrderInput{
		OrderID:      "11111111-1111-1111-1111-111111111111",
		ProductID:    testProductID,
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(4),
		CustomerName: "Cliente de Prueba",
	}
	id1, err := e.coord.PlaceOrder(ctx, in)
	require.NoError(t, err)
	id2, err := e.coord.PlaceOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "el reintento devuelve el mismo pedido")
	assert.Len(t, e.store.orders, 1)
	assert.Len(t, e.store.reservations, 1, "el reintento no reserva de nuevo")
	_, avail := e.level(t)
	assert.True(t, avail.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, []string{event.TypeOrderPlaced}, e.pub.types(), "un solo evento para los dos intentos")
}

func TestCoordinator_DespacharEsIdempotente(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	d1, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)
	d2, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "el reintento devuelve la entrega existente")
	assert.Len(t, e.store.deliveries, 1)
	qty, _ := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(6)), "el reintento no consolida de nuevo")
}

func TestCoordinator_EntregaFallidaSinReposicion(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	deliveryID, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)

	require.NoError(t, e.coord.FailDelivery(ctx, deliveryID))

	assert.Equal(t, entity.DeliveryFailed, e.store.deliveries[deliveryID].Status)
	assert.Equal(t, entity.OrderDispatched, e.store.orders[orderID].Status,
		"el pedido queda dispatched para resolución administrativa")
	qty, avail := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(6)), "sin política de reposición el físico no vuelve")
	assert.True(t, avail.Equal(decimal.NewFromInt(6)))
	assert.Contains(t, e.pub.types(), event.TypeDeliveryFailed)
}

func TestCoordinator_EntregaFallidaConReposicion(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{RestockOnFailure: true}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	deliveryID, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)

	require.NoError(t, e.coord.FailDelivery(ctx, deliveryID))

	qty, avail := e.level(t)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)), "la reposición devuelve el físico")
	assert.True(t, avail.Equal(decimal.NewFromInt(10)))
}

func TestCoordinator_CompletarEntregaFallidaEsConflicto(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	orderID := e.place(t, 4)
	deliveryID, err := e.coord.DispatchOrder(ctx, orderID, "transportista-7")
	require.NoError(t, err)
	require.NoError(t, e.coord.FailDelivery(ctx, deliveryID))

	err = e.coord.CompleteDelivery(ctx, deliveryID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrderDispatched, e.store.orders[orderID].Status)
}

func TestCoordinator_EntidadesDesconocidas(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	_, err := e.coord.DispatchOrder(ctx, "no-existe", "transportista-7")
	require.ErrorIs(t, err, domain.ErrUnknownOrder)
	require.ErrorIs(t, e.coord.CancelOrder(ctx, "no-existe"), domain.ErrUnknownOrder)
	require.ErrorIs(t, e.coord.CompleteDelivery(ctx, "no-existe"), domain.ErrUnknownDelivery)
	require.ErrorIs(t, e.coord.FailDelivery(ctx, "no-existe"), domain.ErrUnknownDelivery)

	_, err = e.coord.GetOrder(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrUnknownOrder)
	_, err = e.coord.GetDelivery(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrUnknownDelivery)
}

func TestCoordinator_ReintentaFallosDeAlmacenamiento(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{StorageRetries: 2, StorageBackoff: time.Millisecond}, 10)
	e.runner.failTimes = 2
	e.runner.failErr = errors.New("conexión rechazada")

	orderID := e.place(t, 4)
	assert.NotEmpty(t, orderID, "el tercer intento debe prosperar")
	assert.Equal(t, 3, e.runner.calls)
	_, avail := e.level(t)
	assert.True(t, avail.Equal(decimal.NewFromInt(6)))
}

func TestCoordinator_ReintentosAgotados(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{StorageRetries: 1, StorageBackoff: time.Millisecond}, 10)
	e.runner.failTimes = 5
	e.runner.failErr = errors.New("conexión rechazada")

	_, err := e.coord.PlaceOrder(context.Background(), fulfillment.PlaceOrderInput{
		ProductID:    testProductID,
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(4),
		CustomerName: "Cliente",
	})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Equal(t, 2, e.runner.calls, "intento original más un reintento")
}

func TestCoordinator_ErroresDeDominioNoSeReintentan(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{StorageRetries: 3, StorageBackoff: time.Millisecond}, 3)

	_, err := e.coord.PlaceOrder(context.Background(), fulfillment.PlaceOrderInput{
		ProductID:    testProductID,
		WarehouseID:  testWarehouseID,
		Quantity:     decimal.NewFromInt(5),
		CustomerName: "Cliente",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, e.runner.calls, "una condición de negocio no se reintenta")
}

func TestCoordinator_EntradaInvalida(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 10)
	ctx := context.Background()

	_, err := e.coord.PlaceOrder(ctx, fulfillment.PlaceOrderInput{
		ProductID: testProductID, WarehouseID: testWarehouseID,
		Quantity: decimal.Zero, CustomerName: "Cliente",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "la cantidad mínima es 1")

	_, err = e.coord.DispatchOrder(ctx, "order-x", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput, "el transportista es obligatorio")
}

// TestCoordinator_ReservasConcurrentes somete la misma fila de stock a
// pedidos concurrentes de 1 unidad: con 5 disponibles deben prosperar
// exactamente 5 y Available debe terminar en cero, nunca negativo.
func TestCoordinator_ReservasConcurrentes(t *testing.T) {
	e := newTestEngine(t, fulfillment.Config{}, 5)
	ctx := context.Background()

	const intentos = 20
	var wg sync.WaitGroup
	errs := make([]error, intentos)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.coord.PlaceOrder(ctx, fulfillment.PlaceOrderInput{
				ProductID:    testProductID,
				WarehouseID:  testWarehouseID,
				Quantity:     decimal.NewFromInt(1),
				CustomerName: "Cliente Concurrente",
			})
		}(i)
	}
	wg.Wait()

	exitosos := 0
	for _, err := range errs {
		if err == nil {
			exitosos++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 5, exitosos, "deben prosperar exactamente tantas reservas como stock disponible")

	_, avail := e.level(t)
	assert.True(t, avail.IsZero(), "Available termina en cero, nunca negativo")
	assert.Len(t, e.store.orders, 5)
}
