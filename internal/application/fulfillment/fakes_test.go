package fulfillment_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/event"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria del almacenamiento. El runner de transacciones serializa
// con un mutex (el papel del bloqueo de fila en Postgres) y restaura un
// snapshot si la función falla, de modo que una transacción fallida no deja
// efectos parciales.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu           sync.Mutex
	products     map[string]entity.Product
	warehouses   map[string]entity.Warehouse
	stocks       map[string]entity.Stock // clave productID|warehouseID
	orders       map[string]entity.Order
	deliveries   map[string]entity.Delivery
	reservations map[string]entity.Reservation
	movements    []entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		products:     map[string]entity.Product{},
		warehouses:   map[string]entity.Warehouse{},
		stocks:       map[string]entity.Stock{},
		orders:       map[string]entity.Order{},
		deliveries:   map[string]entity.Delivery{},
		reservations: map[string]entity.Reservation{},
	}
}

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

// snapshot copia solo el estado alcanzable por una transacción del motor;
// productos y bodegas son de lectura en este contexto y quedan fuera para no
// invalidar lecturas concurrentes del pool.
func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, v := range s.stocks {
		snap.stocks[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.deliveries {
		snap.deliveries[k] = v
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	snap.movements = append(snap.movements, s.movements...)
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.stocks = snap.stocks
	s.orders = snap.orders
	s.deliveries = snap.deliveries
	s.reservations = snap.reservations
	s.movements = snap.movements
}

// ── Repositorios ──

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

type memWarehouseRepo struct{ store *memStore }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	if _, ok := r.store.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.warehouses[w.ID] = *w
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *memWarehouseRepo) GetForUpdate(id string) (*entity.Warehouse, error) {
	return r.GetByID(id)
}

func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	out := make([]*entity.Warehouse, 0, len(r.store.warehouses))
	for _, w := range r.store.warehouses {
		cp := w
		out = append(out, &cp)
	}
	return out, nil
}

type memStockRepo struct{ store *memStore }

// Get devuelve una fila en cero para pares sin stock, igual que el repo real.
func (r *memStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	st, ok := r.store.stocks[stockKey(productID, warehouseID)]
	if !ok {
		return &entity.Stock{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Quantity:    decimal.Zero,
			Available:   decimal.Zero,
		}, nil
	}
	return &st, nil
}

func (r *memStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(productID, warehouseID)
}

func (r *memStockRepo) Upsert(stock *entity.Stock) error {
	r.store.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = *stock
	return nil
}

func (r *memStockRepo) SumQuantityByWarehouse(warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, st := range r.store.stocks {
		if st.WarehouseID == warehouseID {
			total = total.Add(st.Quantity)
		}
	}
	return total, nil
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) Create(o *entity.Order) error {
	if _, ok := r.store.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *memOrderRepo) GetForUpdate(id string) (*entity.Order, error) { return r.GetByID(id) }

func (r *memOrderRepo) Update(o *entity.Order) error {
	if _, ok := r.store.orders[o.ID]; !ok {
		return domain.ErrUnknownOrder
	}
	r.store.orders[o.ID] = *o
	return nil
}

type memDeliveryRepo struct{ store *memStore }

func (r *memDeliveryRepo) Create(d *entity.Delivery) error {
	if _, ok := r.store.deliveries[d.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.deliveries[d.ID] = *d
	return nil
}

func (r *memDeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	d, ok := r.store.deliveries[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *memDeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) { return r.GetByID(id) }

func (r *memDeliveryRepo) GetByOrderID(orderID string) (*entity.Delivery, error) {
	for _, d := range r.store.deliveries {
		if d.OrderID == orderID {
			cp := d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memDeliveryRepo) Update(d *entity.Delivery) error {
	if _, ok := r.store.deliveries[d.ID]; !ok {
		return domain.ErrUnknownDelivery
	}
	r.store.deliveries[d.ID] = *d
	return nil
}

type memReservationRepo struct{ store *memStore }

func (r *memReservationRepo) Create(res *entity.Reservation) error {
	if _, ok := r.store.reservations[res.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.reservations[res.ID] = *res
	return nil
}

func (r *memReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *memReservationRepo) GetForUpdate(id string) (*entity.Reservation, error) {
	return r.GetByID(id)
}

func (r *memReservationRepo) Update(res *entity.Reservation) error {
	if _, ok := r.store.reservations[res.ID]; !ok {
		return domain.ErrUnknownReservation
	}
	r.store.reservations[res.ID] = *res
	return nil
}

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.store.movements = append(r.store.movements, *m)
	return nil
}

func (r *memMovementRepo) ListByTransaction(transactionID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.store.movements {
		if r.store.movements[i].TransactionID == transactionID {
			out = append(out, &r.store.movements[i])
		}
	}
	return out, nil
}

// ── Runner de transacciones ──

// memTxRunner ejecuta fn bajo el mutex del store (exclusión mutua análoga al
// SELECT FOR UPDATE) y revierte al snapshot previo si fn falla. failTimes hace
// fallar las primeras N transacciones con failErr para probar reintentos.
type memTxRunner struct {
	store     *memStore
	failTimes int
	failErr   error
	calls     int
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	repository.StockRepository,
	repository.OrderRepository,
	repository.DeliveryRepository,
	repository.ReservationRepository,
	repository.StockMovementRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.calls++
	if r.failTimes > 0 {
		r.failTimes--
		return r.failErr
	}
	snap := r.store.snapshot()
	err := fn(
		&memStockRepo{store: r.store},
		&memOrderRepo{store: r.store},
		&memDeliveryRepo{store: r.store},
		&memReservationRepo{store: r.store},
		&memMovementRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// recordingPublisher acumula los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.FulfillmentEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.FulfillmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var _ fulfillment.TxRunner = (*memTxRunner)(nil)
var _ fulfillment.EventPublisher = (*recordingPublisher)(nil)
