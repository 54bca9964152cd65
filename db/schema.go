package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	if err := CreateReservationsTable(ctx, db); err != nil {
		return fmt.Errorf("creating reservations table: %w", err)
	}

	if err := CreateNotificationsTable(ctx, db); err != nil {
		return fmt.Errorf("creating notifications table: %w", err)
	}

	return nil
}
