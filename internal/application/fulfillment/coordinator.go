package fulfillment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/event"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/pkg/logger"
)

// Config política del coordinador.
type Config struct {
	// RestockOnFailure repone stock (Quantity y Available) cuando una entrega
	// falla. Apagado por defecto: una entrega fallida queda para re-despacho
	// administrativo y la reposición automática es opcional.
	RestockOnFailure bool
	// StorageRetries reintentos ante fallos de almacenamiento (no de dominio).
	StorageRetries int
	// StorageBackoff espera base entre reintentos (crece linealmente).
	StorageBackoff time.Duration
}

// Coordinator es la fachada del motor: el único punto de entrada de la capa
// externa. Cada operación pública es una transacción lógica única sobre
// pedido/entrega/stock: o se aplican todos sus efectos o ninguno, incluso si
// el caller cancela a mitad de camino (la tx se consolida o revierte como
// unidad). Las operaciones son seguras de reintentar con identidad estable.
type Coordinator struct {
	tx            TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	orderRepo     repository.OrderRepository
	deliveryRepo  repository.DeliveryRepository
	reservations  *ReservationManager
	publisher     EventPublisher
	cfg           Config
	log           *logger.Logger
}

// NewCoordinator construye el coordinador.
func NewCoordinator(
	tx TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	orderRepo repository.OrderRepository,
	deliveryRepo repository.DeliveryRepository,
	reservations *ReservationManager,
	publisher EventPublisher,
	cfg Config,
	log *logger.Logger,
) *Coordinator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if cfg.StorageRetries < 0 {
		cfg.StorageRetries = 0
	}
	return &Coordinator{
		tx:            tx,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		orderRepo:     orderRepo,
		deliveryRepo:  deliveryRepo,
		reservations:  reservations,
		publisher:     publisher,
		cfg:           cfg,
		log:           log,
	}
}

// PlaceOrderInput entrada para colocar un pedido.
// OrderID es opcional: un caller que reintenta puede fijarlo para que la
// operación sea idempotente (repetir devuelve el pedido ya creado).
type PlaceOrderInput struct {
	OrderID          string
	ProductID        string
	WarehouseID      string
	Quantity         decimal.Decimal
	CustomerName     string
	DeliveryLocation entity.GeoPoint
}

// PlaceOrder reserva stock y crea el pedido en pending atado a la reserva.
// Propaga ErrInsufficientStock; ErrNotFound si producto o bodega no existen.
func (c *Coordinator) PlaceOrder(ctx context.Context, in PlaceOrderInput) (string, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.CustomerName == "" {
		return "", domain.ErrInvalidInput
	}
	if in.Quantity.LessThan(decimal.NewFromInt(1)) {
		return "", domain.ErrInvalidInput
	}

	product, err := c.productRepo.GetByID(in.ProductID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", domain.ErrNotFound
	}
	warehouse, err := c.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return "", err
	}
	if warehouse == nil {
		return "", domain.ErrNotFound
	}

	orderID := in.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	}
	now := time.Now()
	replay := false

	err = c.runTx(ctx, func(
		stockRepo repository.StockRepository,
		orderRepo repository.OrderRepository,
		deliveryRepo repository.DeliveryRepository,
		reservationRepo repository.ReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		if in.OrderID != "" {
			existing, err := orderRepo.GetByID(orderID)
			if err != nil {
				return err
			}
			if existing != nil {
				replay = true
				return nil
			}
		}
		order := &entity.Order{
			ID:               orderID,
			ProductID:        in.ProductID,
			WarehouseID:      in.WarehouseID,
			Quantity:         in.Quantity,
			CustomerName:     in.CustomerName,
			DeliveryLocation: in.DeliveryLocation,
			Status:           entity.OrderPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := c.reservations.ReserveForOrder(stockRepo, reservationRepo, movementRepo, order, now); err != nil {
			return err
		}
		return orderRepo.Create(order)
	})
	if err != nil {
		return "", err
	}
	if !replay {
		c.publish(ctx, event.FulfillmentEvent{
			Type:        event.TypeOrderPlaced,
			OrderID:     orderID,
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Quantity:    in.Quantity.String(),
			OccurredAt:  now,
		})
		c.log.Info().
			Str("order_id", orderID).
			Str("product_id", in.ProductID).
			Str("warehouse_id", in.WarehouseID).
			Str("qty", in.Quantity.String()).
			Msg("pedido colocado")
	}
	return orderID, nil
}

// DispatchOrder despacha un pedido pending: consolida la reserva (descuenta
// stock físico) y crea la entrega en in-transit. Reintentar el despacho de un
// pedido ya despachado devuelve su entrega existente.
func (c *Coordinator) DispatchOrder(ctx context.Context, orderID, deliveredBy string) (string, error) {
	if orderID == "" || deliveredBy == "" {
		return "", domain.ErrInvalidInput
	}
	now := time.Now()
	var deliveryID string
	replay := false

	err := c.runTx(ctx, func(
		stockRepo repository.StockRepository,
		orderRepo repository.OrderRepository,
		deliveryRepo repository.DeliveryRepository,
		reservationRepo repository.ReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrUnknownOrder
		}
		if order.Status == entity.OrderDispatched {
			existing, err := deliveryRepo.GetByOrderID(orderID)
			if err != nil {
				return err
			}
			if existing != nil {
				deliveryID = existing.ID
				replay = true
				return nil
			}
		}
		// La transición valida primero: un pedido fuera de pending no debe
		// causar ninguna mutación del libro mayor.
		if err := order.Transition(entity.OrderDispatched, now); err != nil {
			return err
		}
		if err := c.reservations.CommitForOrder(stockRepo, reservationRepo, movementRepo, order, now); err != nil {
			return err
		}
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		delivery := &entity.Delivery{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			DeliveredBy: deliveredBy,
			Status:      entity.DeliveryInTransit,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := deliveryRepo.Create(delivery); err != nil {
			return err
		}
		deliveryID = delivery.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	if !replay {
		c.publish(ctx, event.FulfillmentEvent{
			Type:       event.TypeOrderDispatched,
			OrderID:    orderID,
			DeliveryID: deliveryID,
			OccurredAt: now,
		})
		c.log.Info().
			Str("order_id", orderID).
			Str("delivery_id", deliveryID).
			Str("courier", deliveredBy).
			Msg("pedido despachado")
	}
	return deliveryID, nil
}

// CompleteDelivery marca la entrega como delivered (fija DeliveredAt) y mueve
// el pedido a delivered. La transición del pedido la dirige el coordinador,
// no el caller externo.
func (c *Coordinator) CompleteDelivery(ctx context.Context, deliveryID string) error {
	if deliveryID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	var orderID string

	err := c.runTx(ctx, func(
		stockRepo repository.StockRepository,
		orderRepo repository.OrderRepository,
		deliveryRepo repository.DeliveryRepository,
		reservationRepo repository.ReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		delivery, err := deliveryRepo.GetForUpdate(deliveryID)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrUnknownDelivery
		}
		if err := delivery.Complete(now); err != nil {
			return err
		}
		order, err := orderRepo.GetForUpdate(delivery.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrUnknownOrder
		}
		if err := order.Transition(entity.OrderDelivered, now); err != nil {
			return err
		}
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return err
	}
	c.publish(ctx, event.FulfillmentEvent{
		Type:       event.TypeDeliveryCompleted,
		OrderID:    orderID,
		DeliveryID: deliveryID,
		OccurredAt: now,
	})
	c.log.Info().Str("delivery_id", deliveryID).Str("order_id", orderID).Msg("entrega completada")
	return nil
}

// FailDelivery marca la entrega como failed. El pedido permanece dispatched:
// una entrega fallida queda para re-despacho administrativo y no revierte el
// estado visible del pedido. Con RestockOnFailure activa se repone el stock
// físico consolidado.
func (c *Coordinator) FailDelivery(ctx context.Context, deliveryID string) error {
	if deliveryID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	var orderID string

	err := c.runTx(ctx, func(
		stockRepo repository.StockRepository,
		orderRepo repository.OrderRepository,
		deliveryRepo repository.DeliveryRepository,
		reservationRepo repository.ReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		delivery, err := deliveryRepo.GetForUpdate(deliveryID)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrUnknownDelivery
		}
		if err := delivery.Fail(now); err != nil {
			return err
		}
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		order, err := orderRepo.GetForUpdate(delivery.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrUnknownOrder
		}
		orderID = order.ID
		if c.cfg.RestockOnFailure {
			return c.reservations.RestockForOrder(stockRepo, reservationRepo, movementRepo, order, now)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.publish(ctx, event.FulfillmentEvent{
		Type:       event.TypeDeliveryFailed,
		OrderID:    orderID,
		DeliveryID: deliveryID,
		OccurredAt: now,
	})
	c.log.Warn().Str("delivery_id", deliveryID).Str("order_id", orderID).
		Bool("restocked", c.cfg.RestockOnFailure).Msg("entrega fallida")
	return nil
}

// CancelOrder cancela un pedido pending y libera su reserva: Available vuelve
// a su valor previo sin tocar Quantity. Un pedido despachado no se cancela
// (ErrInvalidTransition): se resuelve por la entrega.
func (c *Coordinator) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()

	err := c.runTx(ctx, func(
		stockRepo repository.StockRepository,
		orderRepo repository.OrderRepository,
		deliveryRepo repository.DeliveryRepository,
		reservationRepo repository.ReservationRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrUnknownOrder
		}
		if order.Status == entity.OrderCancelled {
			return nil
		}
		if err := order.Transition(entity.OrderCancelled, now); err != nil {
			return err
		}
		if err := c.reservations.ReleaseForOrder(stockRepo, reservationRepo, movementRepo, order, now); err != nil {
			return err
		}
		return orderRepo.Update(order)
	})
	if err != nil {
		return err
	}
	c.publish(ctx, event.FulfillmentEvent{
		Type:       event.TypeOrderCancelled,
		OrderID:    orderID,
		OccurredAt: now,
	})
	c.log.Info().Str("order_id", orderID).Msg("pedido cancelado")
	return nil
}

// InventoryLevel nivel de stock de un par (producto, bodega).
type InventoryLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Available   decimal.Decimal
}

// GetInventoryLevel devuelve stock físico y disponible del par.
func (c *Coordinator) GetInventoryLevel(ctx context.Context, productID, warehouseID string) (*InventoryLevel, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	stock, err := c.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &InventoryLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    stock.Quantity,
		Available:   stock.Available,
	}, nil
}

// GetOrder devuelve un pedido por ID (consulta, sin bloqueo).
func (c *Coordinator) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := c.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrUnknownOrder
	}
	return order, nil
}

// GetDelivery devuelve una entrega por ID (consulta, sin bloqueo).
func (c *Coordinator) GetDelivery(ctx context.Context, deliveryID string) (*entity.Delivery, error) {
	if deliveryID == "" {
		return nil, domain.ErrInvalidInput
	}
	delivery, err := c.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.ErrUnknownDelivery
	}
	return delivery, nil
}

// runTx ejecuta fn dentro de una transacción, reintentando fallos de
// almacenamiento un número acotado de veces con backoff lineal. Los errores
// de dominio no se reintentan; agotados los reintentos se envuelve en
// ErrStorageUnavailable.
func (c *Coordinator) runTx(ctx context.Context, fn func(
	repository.StockRepository,
	repository.OrderRepository,
	repository.DeliveryRepository,
	repository.ReservationRepository,
	repository.StockMovementRepository,
) error) error {
	var err error
	for attempt := 0; attempt <= c.cfg.StorageRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * c.cfg.StorageBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = c.tx.Run(ctx, fn)
		if err == nil || isDomainErr(err) {
			return err
		}
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("transacción de almacenamiento falló")
	}
	return errors.Join(domain.ErrStorageUnavailable, err)
}

func (c *Coordinator) publish(ctx context.Context, evt event.FulfillmentEvent) {
	if err := c.publisher.Publish(ctx, evt); err != nil {
		c.log.Error().Err(err).Str("type", evt.Type).Str("order_id", evt.OrderID).
			Msg("publicación de evento fallida")
	}
}

// isDomainErr distingue condiciones de negocio (se devuelven al caller tal
// cual) de fallos de infraestructura (reintentables).
func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrDuplicate,
		domain.ErrInsufficientStock,
		domain.ErrInvalidTransition,
		domain.ErrUnknownOrder,
		domain.ErrUnknownDelivery,
		domain.ErrUnknownReservation,
		domain.ErrAlreadyFinalized,
		domain.ErrCapacityExceeded,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
