package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boxoffice/entity"
	"boxoffice/message"
	"boxoffice/message/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateReservationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS reservations (
		reservation_id UUID PRIMARY KEY,
		show_id BIGINT NOT NULL,
		seat_count INTEGER NOT NULL,
		status VARCHAR(16) NOT NULL
	);`)
	return err
}

type ReservationRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewReservationRepo(db *sqlx.DB, logger watermill.LoggerAdapter) ReservationRepo {
	return ReservationRepo{
		db:     db,
		logger: logger,
	}
}

// Add records the reservation request and publishes ReservationRequested in
// the same transaction, so a stored request always reaches the coordinator.
func (r ReservationRepo) Add(ctx context.Context, reservation entity.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := r.add(ctx, tx, reservation); err != nil {
		return errors.Join(err, tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (r ReservationRepo) add(ctx context.Context, tx *sql.Tx, reservation entity.Reservation) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO reservations
		(reservation_id, show_id, seat_count, status)
		VALUES ($1, $2, $3, $4);`,
		reservation.ReservationID, reservation.ShowID, reservation.SeatCount, reservation.Status)
	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}

	e := event.NewReservationRequested(uuid.NewString(), reservation)

	if err := message.PublishInTx(ctx, e, tx, r.logger); err != nil {
		return fmt.Errorf("publishing event in transaction: %w", err)
	}

	return nil
}

func (r ReservationRepo) UpdateStatus(ctx context.Context, reservationID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = $2
		WHERE reservation_id = $1;`, reservationID, status)
	if err != nil {
		return fmt.Errorf("executing update query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected exec result: %d rows affected", n)
	}

	return nil
}

func (r ReservationRepo) Get(ctx context.Context, reservationID string) (entity.Reservation, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT reservation_id, show_id, seat_count, status
		FROM reservations WHERE reservation_id = $1`, reservationID)

	var reservation entity.Reservation
	if err := row.Scan(&reservation.ReservationID, &reservation.ShowID, &reservation.SeatCount, &reservation.Status); err != nil {
		return entity.Reservation{}, fmt.Errorf("scanning row: %w", err)
	}

	return reservation, nil
}
