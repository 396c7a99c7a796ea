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

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación del puerto ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create persiste una nueva reserva.
func (r *ReservationRepo) Create(reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, order_id, product_id, warehouse_id, quantity, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		reservation.ID, reservation.OrderID, reservation.ProductID, reservation.WarehouseID,
		reservation.Quantity, reservation.State, reservation.CreatedAt, reservation.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la reserva y bloquea la fila (SELECT FOR UPDATE).
func (r *ReservationRepo) GetForUpdate(id string) (*entity.Reservation, error) {
	return r.get(id, true)
}

func (r *ReservationRepo) get(id string, forUpdate bool) (*entity.Reservation, error) {
	query := `
		SELECT id, order_id, product_id, warehouse_id, quantity, state, created_at, updated_at
		FROM reservations WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var res entity.Reservation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&res.ID, &res.OrderID, &res.ProductID, &res.WarehouseID,
		&res.Quantity, &res.State, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// Update actualiza el estado de la reserva.
func (r *ReservationRepo) Update(reservation *entity.Reservation) error {
	query := `
		UPDATE reservations SET state = $2, updated_at = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		reservation.ID, reservation.State, reservation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownReservation
	}
	return nil
}
