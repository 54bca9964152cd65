package event

import (
	"time"

	"boxoffice/entity"

	"github.com/ThreeDotsLabs/watermill"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// ReservationRequested starts a reservation transaction. It is published in
// the same database transaction that records the request, so a stored
// reservation always reaches the coordinator.
type ReservationRequested struct {
	Header        header `json:"header"`
	ReservationID string `json:"reservation_id"`
	ShowID        int64  `json:"show_id"`
	SeatCount     int    `json:"seat_count"`
}

func NewReservationRequested(idempotencyKey string, reservation entity.Reservation) ReservationRequested {
	return ReservationRequested{
		Header:        newHeader(idempotencyKey),
		ReservationID: reservation.ReservationID,
		ShowID:        reservation.ShowID,
		SeatCount:     reservation.SeatCount,
	}
}

// ReservationSettled records the terminal outcome of a transaction:
// purchased, released, aborted, or failed.
type ReservationSettled struct {
	Header        header `json:"header"`
	ReservationID string `json:"reservation_id"`
	Outcome       string `json:"outcome"`
}

func NewReservationSettled(idempotencyKey, reservationID, outcome string) ReservationSettled {
	return ReservationSettled{
		Header:        newHeader(idempotencyKey),
		ReservationID: reservationID,
		Outcome:       outcome,
	}
}

type NotificationRaised struct {
	Header   header          `json:"header"`
	Title    string          `json:"title"`
	Severity entity.Severity `json:"severity"`
}

func NewNotificationRaised(idempotencyKey string, notification entity.Notification) NotificationRaised {
	return NotificationRaised{
		Header:   newHeader(idempotencyKey),
		Title:    notification.Title,
		Severity: notification.Severity,
	}
}
