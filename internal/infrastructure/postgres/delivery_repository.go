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

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste una nueva entrega.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, order_id, delivered_by, delivered_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.OrderID, delivery.DeliveredBy, delivery.DeliveredAt,
		delivery.Status, delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	return r.get(`WHERE id = $1`, id, false)
}

// GetForUpdate obtiene la entrega y bloquea la fila (SELECT FOR UPDATE).
func (r *DeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) {
	return r.get(`WHERE id = $1`, id, true)
}

// GetByOrderID obtiene la entrega asociada a un pedido (uno a uno).
func (r *DeliveryRepo) GetByOrderID(orderID string) (*entity.Delivery, error) {
	return r.get(`WHERE order_id = $1`, orderID, false)
}

func (r *DeliveryRepo) get(where, arg string, forUpdate bool) (*entity.Delivery, error) {
	query := `
		SELECT id, order_id, delivered_by, delivered_at, status, created_at, updated_at
		FROM deliveries ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&d.ID, &d.OrderID, &d.DeliveredBy, &d.DeliveredAt, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

// Update actualiza estado y marca de tiempo de entrega.
func (r *DeliveryRepo) Update(delivery *entity.Delivery) error {
	query := `
		UPDATE deliveries SET status = $2, delivered_at = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.Status, delivery.DeliveredAt, delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownDelivery
	}
	return nil
}
