package command

import (
	"context"
	"fmt"

	"boxoffice/entity"
)

// ReservationTrigger is the reservation transaction coordinator's trigger
// surface.
type ReservationTrigger interface {
	StartPurchase(ctx context.Context, reservationID string, seatCount int) error
	StartRelease(ctx context.Context, reservationID, reason string) error
	StartAbort(ctx context.Context, reservationID, reason string) error
}

// SessionTrigger is the authentication session coordinator's trigger
// surface.
type SessionTrigger interface {
	SignIn(ctx context.Context, creds entity.Credentials) error
	CancelSignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
}

type Handler struct {
	reservations ReservationTrigger
	sessions     SessionTrigger
}

func NewHandler(reservations ReservationTrigger, sessions SessionTrigger) Handler {
	return Handler{
		reservations: reservations,
		sessions:     sessions,
	}
}

func (h Handler) StartPurchase(ctx context.Context, cmd *StartPurchase) error {
	if err := h.reservations.StartPurchase(ctx, cmd.ReservationID, cmd.SeatCount); err != nil {
		return fmt.Errorf("starting purchase: %w", err)
	}

	return nil
}

func (h Handler) ReleaseTickets(ctx context.Context, cmd *ReleaseTickets) error {
	if err := h.reservations.StartRelease(ctx, cmd.ReservationID, cmd.Reason); err != nil {
		return fmt.Errorf("releasing tickets: %w", err)
	}

	return nil
}

func (h Handler) AbortReservation(ctx context.Context, cmd *AbortReservation) error {
	if err := h.reservations.StartAbort(ctx, cmd.ReservationID, cmd.Reason); err != nil {
		return fmt.Errorf("aborting reservation: %w", err)
	}

	return nil
}

func (h Handler) SignIn(ctx context.Context, cmd *SignIn) error {
	if err := h.sessions.SignIn(ctx, cmd.Credentials); err != nil {
		return fmt.Errorf("signing in: %w", err)
	}

	return nil
}

func (h Handler) CancelSignIn(ctx context.Context, _ *CancelSignIn) error {
	if err := h.sessions.CancelSignIn(ctx); err != nil {
		return fmt.Errorf("cancelling sign in: %w", err)
	}

	return nil
}

func (h Handler) SignOut(ctx context.Context, _ *SignOut) error {
	if err := h.sessions.SignOut(ctx); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}

	return nil
}
