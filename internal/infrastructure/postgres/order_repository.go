package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste un nuevo pedido.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, product_id, warehouse_id, quantity, customer_name,
			delivery_lat, delivery_lon, status, reservation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	reservationID := (*string)(nil)
	if order.ReservationID != "" {
		reservationID = &order.ReservationID
	}
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.ProductID, order.WarehouseID, order.Quantity, order.CustomerName,
		order.DeliveryLocation.Lat, order.DeliveryLocation.Lon, order.Status,
		reservationID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el pedido y bloquea la fila (SELECT FOR UPDATE);
// serializa las transiciones de un mismo pedido.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.get(id, true)
}

func (r *OrderRepo) get(id string, forUpdate bool) (*entity.Order, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity, customer_name,
			delivery_lat, delivery_lon, status, reservation_id, created_at, updated_at
		FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var o entity.Order
	var reservationID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.ProductID, &o.WarehouseID, &o.Quantity, &o.CustomerName,
		&o.DeliveryLocation.Lat, &o.DeliveryLocation.Lon, &o.Status,
		&reservationID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if reservationID != nil {
		o.ReservationID = *reservationID
	}
	return &o, nil
}

// Update actualiza estado y reserva del pedido.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, reservation_id = $3, updated_at = $4
		WHERE id = $1`
	reservationID := (*string)(nil)
	if order.ReservationID != "" {
		reservationID = &order.ReservationID
	}
	cmd, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, reservationID, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownOrder
	}
	return nil
}
