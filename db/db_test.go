package db_test

import (
	"context"
	"os"
	"testing"
	"time"

	"boxoffice/db"
	"boxoffice/entity"
	"boxoffice/message"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getDB(t *testing.T) (*sqlx.DB, watermill.LoggerAdapter) {
	t.Helper()

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set, skipping database tests")
	}

	dbConn, err := sqlx.Open("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbConn.Close()
	})

	logger := watermill.NewStdLogger(false, false)

	ctx := context.Background()
	require.NoError(t, db.InitialiseDB(ctx, dbConn))
	require.NoError(t, message.InitialiseOutbox(dbConn, logger))

	return dbConn, logger
}

func TestReservationRepo(t *testing.T) {
	dbConn, logger := getDB(t)
	repo := db.NewReservationRepo(dbConn, logger)
	ctx := context.Background()

	reservation := entity.Reservation{
		ReservationID: uuid.NewString(),
		ShowID:        42,
		SeatCount:     3,
		Status:        entity.ReservationStatusRequested,
	}
	require.NoError(t, repo.Add(ctx, reservation))

	got, err := repo.Get(ctx, reservation.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, reservation, got)

	require.NoError(t, repo.UpdateStatus(ctx, reservation.ReservationID, entity.ReservationStatusPurchased))

	got, err = repo.Get(ctx, reservation.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusPurchased, got.Status)
}

func TestReservationRepoUpdateStatusUnknownReservation(t *testing.T) {
	dbConn, logger := getDB(t)
	repo := db.NewReservationRepo(dbConn, logger)

	err := repo.UpdateStatus(context.Background(), uuid.NewString(), entity.ReservationStatusFailed)
	assert.Error(t, err)
}

func TestNotificationRepoAddIsIdempotent(t *testing.T) {
	dbConn, _ := getDB(t)
	repo := db.NewNotificationRepo(dbConn)
	ctx := context.Background()

	notificationID := uuid.NewString()
	notification := entity.Notification{Title: "tickets purchased", Severity: entity.SeverityInfo}
	raisedAt := time.Now().UTC()

	require.NoError(t, repo.Add(ctx, notificationID, notification, raisedAt))
	require.NoError(t, repo.Add(ctx, notificationID, notification, raisedAt))

	var count int
	require.NoError(t, dbConn.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE notification_id = $1`, notificationID))
	assert.Equal(t, 1, count)
}
