package command

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

type StartPurchase struct {
	Header        header `json:"header"`
	ReservationID string `json:"reservation_id"`
	SeatCount     int    `json:"seat_count"`
}

func NewStartPurchase(idempotencyKey, reservationID string, seatCount int) StartPurchase {
	return StartPurchase{
		Header:        newHeader(idempotencyKey),
		ReservationID: reservationID,
		SeatCount:     seatCount,
	}
}

type ReleaseTickets struct {
	Header        header `json:"header"`
	ReservationID string `json:"reservation_id"`
	Reason        string `json:"reason"`
}

func NewReleaseTickets(idempotencyKey, reservationID, reason string) ReleaseTickets {
	return ReleaseTickets{
		Header:        newHeader(idempotencyKey),
		ReservationID: reservationID,
		Reason:        reason,
	}
}

type AbortReservation struct {
	Header        header `json:"header"`
	ReservationID string `json:"reservation_id"`
	Reason        string `json:"reason"`
}

func NewAbortReservation(idempotencyKey, reservationID, reason string) AbortReservation {
	return AbortReservation{
		Header:        newHeader(idempotencyKey),
		ReservationID: reservationID,
		Reason:        reason,
	}
}

type SignIn struct {
	Header      header             `json:"header"`
	Credentials entity.Credentials `json:"credentials"`
}

func NewSignIn(idempotencyKey string, credentials entity.Credentials) SignIn {
	return SignIn{
		Header:      newHeader(idempotencyKey),
		Credentials: credentials,
	}
}

type CancelSignIn struct {
	Header header `json:"header"`
}

func NewCancelSignIn(idempotencyKey string) CancelSignIn {
	return CancelSignIn{
		Header: newHeader(idempotencyKey),
	}
}

type SignOut struct {
	Header header `json:"header"`
}

func NewSignOut(idempotencyKey string) SignOut {
	return SignOut{
		Header: newHeader(idempotencyKey),
	}
}
