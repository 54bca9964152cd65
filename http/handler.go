package http

import (
	"context"
	"fmt"
	"net/http"

	"boxoffice/entity"
	"boxoffice/log"
	"boxoffice/message/command"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
)

const headerKeyCorrelationID = "Correlation-ID"

// CommandSender publishes trigger commands for the coordinators.
type CommandSender interface {
	Send(ctx context.Context, cmd any) error
}

// ReservationRepo stores reservation requests; Add also publishes the
// start-hold trigger through the outbox.
type ReservationRepo interface {
	Add(ctx context.Context, reservation entity.Reservation) error
	Get(ctx context.Context, reservationID string) (entity.Reservation, error)
}

// SessionReader exposes the authentication coordinator's current session.
type SessionReader interface {
	Session() (entity.Session, bool)
}

type handler struct {
	commandBus      CommandSender
	reservationRepo ReservationRepo
	sessions        SessionReader
}

func correlatedContext(c echo.Context) context.Context {
	correlationID := c.Request().Header.Get(headerKeyCorrelationID)
	if correlationID == "" {
		correlationID = "gen_" + shortuuid.New()
	}
	return log.ContextWithCorrelationID(c.Request().Context(), correlationID)
}

type createReservationRequest struct {
	ShowID    int64 `json:"show_id"`
	SeatCount int   `json:"seat_count"`
}

type createReservationResponse struct {
	ReservationID string `json:"reservation_id"`
}

func (h handler) CreateReservation(c echo.Context) error {
	var request createReservationRequest
	if err := c.Bind(&request); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  "failed to parse request",
			Internal: fmt.Errorf("failed to bind request: %w", err),
		}
	}

	if request.SeatCount < 1 {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "seat_count must be positive",
		}
	}

	reservation := entity.Reservation{
		ReservationID: uuid.NewString(),
		ShowID:        request.ShowID,
		SeatCount:     request.SeatCount,
		Status:        entity.ReservationStatusRequested,
	}

	if err := h.reservationRepo.Add(correlatedContext(c), reservation); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  http.StatusText(http.StatusInternalServerError),
			Internal: fmt.Errorf("storing reservation: %w", err),
		}
	}

	return c.JSON(http.StatusCreated, createReservationResponse{
		ReservationID: reservation.ReservationID,
	})
}

func (h handler) GetReservation(c echo.Context) error {
	reservation, err := h.reservationRepo.Get(correlatedContext(c), c.Param("reservation_id"))
	if err != nil {
		return &echo.HTTPError{
			Code:     http.StatusNotFound,
			Message:  "reservation not found",
			Internal: fmt.Errorf("getting reservation: %w", err),
		}
	}

	return c.JSON(http.StatusOK, reservation)
}

type purchaseReservationRequest struct {
	SeatCount int `json:"seat_count"`
}

func (h handler) PurchaseReservation(c echo.Context) error {
	var request purchaseReservationRequest
	if err := c.Bind(&request); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  "failed to parse request",
			Internal: fmt.Errorf("failed to bind request: %w", err),
		}
	}

	cmd := command.NewStartPurchase(uuid.NewString(), c.Param("reservation_id"), request.SeatCount)
	return h.send(c, cmd)
}

type settleReservationRequest struct {
	Reason string `json:"reason"`
}

func (h handler) ReleaseReservation(c echo.Context) error {
	var request settleReservationRequest
	if err := c.Bind(&request); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  "failed to parse request",
			Internal: fmt.Errorf("failed to bind request: %w", err),
		}
	}

	cmd := command.NewReleaseTickets(uuid.NewString(), c.Param("reservation_id"), request.Reason)
	return h.send(c, cmd)
}

func (h handler) AbortReservation(c echo.Context) error {
	var request settleReservationRequest
	if err := c.Bind(&request); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  "failed to parse request",
			Internal: fmt.Errorf("failed to bind request: %w", err),
		}
	}

	cmd := command.NewAbortReservation(uuid.NewString(), c.Param("reservation_id"), request.Reason)
	return h.send(c, cmd)
}

func (h handler) SignIn(c echo.Context) error {
	var creds entity.Credentials
	if err := c.Bind(&creds); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusBadRequest,
			Message:  "failed to parse request",
			Internal: fmt.Errorf("failed to bind request: %w", err),
		}
	}

	if creds.Intent == "" {
		creds.Intent = entity.AuthIntentSignIn
	}

	return h.send(c, command.NewSignIn(uuid.NewString(), creds))
}

func (h handler) CancelSignIn(c echo.Context) error {
	return h.send(c, command.NewCancelSignIn(uuid.NewString()))
}

func (h handler) SignOut(c echo.Context) error {
	return h.send(c, command.NewSignOut(uuid.NewString()))
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (h handler) GetSession(c echo.Context) error {
	session, ok := h.sessions.Session()
	if !ok {
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "not signed in",
		}
	}

	return c.JSON(http.StatusOK, sessionResponse{
		UserID: session.UserID,
		Email:  session.Email,
	})
}

func (h handler) send(c echo.Context, cmd any) error {
	if err := h.commandBus.Send(correlatedContext(c), cmd); err != nil {
		return &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  http.StatusText(http.StatusInternalServerError),
			Internal: fmt.Errorf("sending command: %w", err),
		}
	}

	return c.NoContent(http.StatusAccepted)
}
