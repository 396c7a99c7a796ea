package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// Ledger implementa las operaciones atómicas sobre la fila de stock:
// reservar, consolidar y liberar. Cada método debe invocarse dentro de una
// transacción (los repos recibidos van atados a la tx) y bloquea la fila de
// stock con GetForUpdate, que es la unidad de exclusión mutua por
// (producto, bodega).
type Ledger struct{}

// NewLedger construye el libro mayor.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve retiene qty unidades: descuenta Available sin tocar Quantity y crea
// la reserva en estado held. Falla con ErrInsufficientStock si Available < qty.
func (l *Ledger) Reserve(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	orderID, productID, warehouseID string,
	qty decimal.Decimal,
	now time.Time,
) (*entity.Reservation, error) {
	stock, err := stockRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock.Available.LessThan(qty) {
		return nil, domain.ErrInsufficientStock
	}
	stock.Available = stock.Available.Sub(qty)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, err
	}
	res := &entity.Reservation{
		ID:          uuid.New().String(),
		OrderID:     orderID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		State:       entity.ReservationHeld,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := reservationRepo.Create(res); err != nil {
		return nil, err
	}
	if err := l.journal(movementRepo, orderID, res, entity.MovementTypeRESERVE, qty.Neg(), now); err != nil {
		return nil, err
	}
	return res, nil
}

// Commit consolida una reserva held: descuenta Quantity (Available ya fue
// descontado al reservar) y marca la reserva como committed. Una reserva ya
// finalizada devuelve ErrAlreadyFinalized.
func (l *Ledger) Commit(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	res *entity.Reservation,
	now time.Time,
) error {
	if res.Finalized() {
		return domain.ErrAlreadyFinalized
	}
	stock, err := stockRepo.GetForUpdate(res.ProductID, res.WarehouseID)
	if err != nil {
		return err
	}
	stock.Quantity = stock.Quantity.Sub(res.Quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	res.State = entity.ReservationCommitted
	res.UpdatedAt = now
	if err := reservationRepo.Update(res); err != nil {
		return err
	}
	return l.journal(movementRepo, res.OrderID, res, entity.MovementTypeCOMMIT, res.Quantity.Neg(), now)
}

// Release devuelve la cantidad retenida a Available sin tocar Quantity.
// Política: liberar una reserva ya liberada es un no-op (idempotente);
// liberar una reserva committed devuelve ErrAlreadyFinalized.
func (l *Ledger) Release(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
	movementRepo repository.StockMovementRepository,
	res *entity.Reservation,
	now time.Time,
) error {
	switch res.State {
	case entity.ReservationReleased:
		return nil
	case entity.ReservationCommitted:
		return domain.ErrAlreadyFinalized
	}
	stock, err := stockRepo.GetForUpdate(res.ProductID, res.WarehouseID)
	if err != nil {
		return err
	}
	stock.Available = stock.Available.Add(res.Quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	res.State = entity.ReservationReleased
	res.UpdatedAt = now
	if err := reservationRepo.Update(res); err != nil {
		return err
	}
	return l.journal(movementRepo, res.OrderID, res, entity.MovementTypeRELEASE, res.Quantity, now)
}

// Restock repone stock físico tras una entrega fallida: suma Quantity y
// Available. Solo aplica sobre una reserva committed (el stock ya salió).
func (l *Ledger) Restock(
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	res *entity.Reservation,
	now time.Time,
) error {
	if res.State != entity.ReservationCommitted {
		return domain.ErrAlreadyFinalized
	}
	stock, err := stockRepo.GetForUpdate(res.ProductID, res.WarehouseID)
	if err != nil {
		return err
	}
	stock.Quantity = stock.Quantity.Add(res.Quantity)
	stock.Available = stock.Available.Add(res.Quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	return l.journal(movementRepo, res.OrderID, res, entity.MovementTypeRESTOCK, res.Quantity, now)
}

func (l *Ledger) journal(
	movementRepo repository.StockMovementRepository,
	transactionID string,
	res *entity.Reservation,
	movType string,
	qty decimal.Decimal,
	now time.Time,
) error {
	return movementRepo.Create(&entity.StockMovement{
		TransactionID: transactionID,
		ProductID:     res.ProductID,
		WarehouseID:   res.WarehouseID,
		Type:          movType,
		Quantity:      qty,
		Date:          now,
		CreatedAt:     now,
	})
}
