package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var ErrServerClosed = http.ErrServerClosed

func NewRouter(commandBus CommandSender, reservationRepo ReservationRepo, sessions SessionReader) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	handler := handler{
		commandBus:      commandBus,
		reservationRepo: reservationRepo,
		sessions:        sessions,
	}

	server.POST("/reservations", handler.CreateReservation)
	server.GET("/reservations/:reservation_id", handler.GetReservation)
	server.POST("/reservations/:reservation_id/purchase", handler.PurchaseReservation)
	server.POST("/reservations/:reservation_id/release", handler.ReleaseReservation)
	server.POST("/reservations/:reservation_id/abort", handler.AbortReservation)

	server.POST("/auth/sign-in", handler.SignIn)
	server.POST("/auth/cancel", handler.CancelSignIn)
	server.POST("/auth/sign-out", handler.SignOut)
	server.GET("/auth/session", handler.GetSession)

	return server
}
