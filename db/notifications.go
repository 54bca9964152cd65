package db

import (
	"context"
	"time"

	"boxoffice/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateNotificationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS notifications (
		notification_id UUID PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		severity VARCHAR(16) NOT NULL,
		raised_at TIMESTAMPTZ NOT NULL
		);`)
	return err
}

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) NotificationRepo {
	return NotificationRepo{
		db: db,
	}
}

func (r NotificationRepo) Add(ctx context.Context, notificationID string, notification entity.Notification, raisedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications
		(notification_id, title, severity, raised_at)
		VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING;`,
		notificationID, notification.Title, notification.Severity, raisedAt)
	return err
}
