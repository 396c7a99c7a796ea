package fulfillment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// ReservationManager opera el libro mayor por identidad de pedido: el
// coordinador nunca manipula handles de reserva directamente. El vínculo
// pedido→reserva vive en Order.ReservationID.
type ReservationManager struct {
	ledger *Ledger
}

// NewReservationManager construye el gestor sobre el libro mayor.
func NewReservationManager(ledger *Ledger) *ReservationManager {
	return &ReservationManager{ledger: ledger}
}

// ReserveForOrder crea la retención de stock del pedido y ata la reserva al
// pedido. Propaga ErrInsufficientStock del libro mayor.
func (m *ReservationManager) ReserveForOrder(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	order *entity.Order,
	now time.Time,
) error {
	res, err := m.ledger.Reserve(stockRepo, reservationRepo, movementRepo,
		order.ID, order.ProductID, order.WarehouseID, order.Quantity, now)
	if err != nil {
		return err
	}
	order.ReservationID = res.ID
	return nil
}

// CommitForOrder consolida la reserva atada al pedido (despacho).
func (m *ReservationManager) CommitForOrder(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	order *entity.Order,
	now time.Time,
) error {
	res, err := m.reservationOf(reservationRepo, order)
	if err != nil {
		return err
	}
	return m.ledger.Commit(stockRepo, reservationRepo, movementRepo, res, now)
}

// ReleaseForOrder libera la reserva atada al pedido (cancelación).
func (m *ReservationManager) ReleaseForOrder(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	order *entity.Order,
	now time.Time,
) error {
	res, err := m.reservationOf(reservationRepo, order)
	if err != nil {
		return err
	}
	return m.ledger.Release(stockRepo, reservationRepo, movementRepo, res, now)
}

// RestockForOrder repone el stock consolidado del pedido (entrega fallida con
// política de reposición activa).
func (m *ReservationManager) RestockForOrder(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	order *entity.Order,
	now time.Time,
) error {
	res, err := m.reservationOf(reservationRepo, order)
	if err != nil {
		return err
	}
	return m.ledger.Restock(stockRepo, movementRepo, res, now)
}

// ReservedQuantity devuelve la cantidad retenida por el pedido (0 si no hay
// reserva atada).
func (m *ReservationManager) ReservedQuantity(
	reservationRepo repository.ReservationRepository,
	order *entity.Order,
) (decimal.Decimal, error) {
	if order.ReservationID == "" {
		return decimal.Zero, nil
	}
	res, err := reservationRepo.GetByID(order.ReservationID)
	if err != nil {
		return decimal.Zero, err
	}
	if res == nil {
		return decimal.Zero, domain.ErrUnknownReservation
	}
	return res.Quantity, nil
}

func (m *ReservationManager) reservationOf(
	reservationRepo repository.ReservationRepository,
	order *entity.Order,
) (*entity.Reservation, error) {
	if order.ReservationID == "" {
		return nil, domain.ErrUnknownReservation
	}
	res, err := reservationRepo.GetForUpdate(order.ReservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrUnknownReservation
	}
	return res, nil
}
