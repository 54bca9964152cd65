package event_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"boxoffice/entity"
	"boxoffice/message/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockReservationStarter struct {
	lock  sync.Mutex
	holds []entity.Reservation
}

func (m *MockReservationStarter) StartHold(_ context.Context, reservationID string, showID int64, seatCount int) error {
	m.lock.Lock()
	m.holds = append(m.holds, entity.Reservation{
		ReservationID: reservationID,
		ShowID:        showID,
		SeatCount:     seatCount,
	})
	m.lock.Unlock()

	return nil
}

type statusUpdate struct {
	reservationID string
	status        string
}

type MockReservationRepo struct {
	lock    sync.Mutex
	updates []statusUpdate
}

func (m *MockReservationRepo) UpdateStatus(_ context.Context, reservationID, status string) error {
	m.lock.Lock()
	m.updates = append(m.updates, statusUpdate{reservationID: reservationID, status: status})
	m.lock.Unlock()

	return nil
}

type MockNotificationSink struct {
	lock          sync.Mutex
	notifications []entity.Notification
}

func (m *MockNotificationSink) Notify(_ context.Context, notification entity.Notification) error {
	m.lock.Lock()
	m.notifications = append(m.notifications, notification)
	m.lock.Unlock()

	return nil
}

type auditedNotification struct {
	notificationID string
	notification   entity.Notification
	raisedAt       time.Time
}

type MockNotificationRepo struct {
	lock    sync.Mutex
	audited []auditedNotification
}

func (m *MockNotificationRepo) Add(_ context.Context, notificationID string, notification entity.Notification, raisedAt time.Time) error {
	m.lock.Lock()
	m.audited = append(m.audited, auditedNotification{
		notificationID: notificationID,
		notification:   notification,
		raisedAt:       raisedAt,
	})
	m.lock.Unlock()

	return nil
}

func TestStartHold(t *testing.T) {
	starter := &MockReservationStarter{}
	handler := event.NewHandler(starter, &MockReservationRepo{}, &MockNotificationSink{}, &MockNotificationRepo{})

	e := event.NewReservationRequested("key-1", entity.Reservation{
		ReservationID: "res-1",
		ShowID:        42,
		SeatCount:     3,
		Status:        entity.ReservationStatusRequested,
	})
	require.NoError(t, handler.StartHold(context.Background(), &e))

	require.Len(t, starter.holds, 1)
	assert.Equal(t, "res-1", starter.holds[0].ReservationID)
	assert.Equal(t, int64(42), starter.holds[0].ShowID)
	assert.Equal(t, 3, starter.holds[0].SeatCount)
}

func TestSettleReservation(t *testing.T) {
	repo := &MockReservationRepo{}
	handler := event.NewHandler(&MockReservationStarter{}, repo, &MockNotificationSink{}, &MockNotificationRepo{})

	e := event.NewReservationSettled("key-1", "res-1", entity.ReservationStatusPurchased)
	require.NoError(t, handler.SettleReservation(context.Background(), &e))

	assert.Equal(t, []statusUpdate{
		{reservationID: "res-1", status: entity.ReservationStatusPurchased},
	}, repo.updates)
}

func TestForwardNotification(t *testing.T) {
	sink := &MockNotificationSink{}
	handler := event.NewHandler(&MockReservationStarter{}, &MockReservationRepo{}, sink, &MockNotificationRepo{})

	e := event.NewNotificationRaised("key-1", entity.Notification{
		Title:    "tickets purchased",
		Severity: entity.SeverityInfo,
	})
	require.NoError(t, handler.ForwardNotification(context.Background(), &e))

	assert.Equal(t, []entity.Notification{
		{Title: "tickets purchased", Severity: entity.SeverityInfo},
	}, sink.notifications)
}

func TestAuditNotification(t *testing.T) {
	repo := &MockNotificationRepo{}
	handler := event.NewHandler(&MockReservationStarter{}, &MockReservationRepo{}, &MockNotificationSink{}, repo)

	e := event.NewNotificationRaised("key-1", entity.Notification{
		Title:    "purchase canceled",
		Severity: entity.SeverityWarning,
	})
	require.NoError(t, handler.AuditNotification(context.Background(), &e))

	require.Len(t, repo.audited, 1)
	assert.Equal(t, e.Header.ID, repo.audited[0].notificationID)
	assert.Equal(t, entity.Notification{Title: "purchase canceled", Severity: entity.SeverityWarning}, repo.audited[0].notification)
	assert.Equal(t, e.Header.PublishedAt, repo.audited[0].raisedAt)
}
