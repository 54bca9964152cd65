package clients

import (
	"context"
	"fmt"
	"net/http"

	"boxoffice/entity"
)

// BoxOfficeClient drives the gateway's reservation operations. Reserve and
// Purchase are cancellable mid-flight through their context.
type BoxOfficeClient struct {
	clients *Clients
}

func NewBoxOfficeClient(clients *Clients) BoxOfficeClient {
	return BoxOfficeClient{
		clients: clients,
	}
}

type reserveRequest struct {
	ShowID    int64 `json:"show_id"`
	SeatCount int   `json:"seat_count"`
}

func (c BoxOfficeClient) Reserve(ctx context.Context, showID int64, seatCount int) (entity.Hold, error) {
	body := reserveRequest{
		ShowID:    showID,
		SeatCount: seatCount,
	}

	var hold entity.Hold
	if err := c.clients.do(ctx, http.MethodPost, "/reservations", body, &hold); err != nil {
		return entity.Hold{}, fmt.Errorf("reserving seats: %w", err)
	}

	return hold, nil
}

type purchaseRequest struct {
	HoldID    string `json:"hold_id"`
	SeatCount int    `json:"seat_count"`
}

func (c BoxOfficeClient) Purchase(ctx context.Context, hold entity.Hold, seatCount int) error {
	body := purchaseRequest{
		HoldID:    hold.HoldID,
		SeatCount: seatCount,
	}

	if err := c.clients.do(ctx, http.MethodPost, "/purchases", body, nil); err != nil {
		return fmt.Errorf("purchasing tickets: %w", err)
	}

	return nil
}

func (c BoxOfficeClient) Release(ctx context.Context, hold entity.Hold) error {
	if err := c.clients.do(ctx, http.MethodDelete, "/reservations/"+hold.HoldID, nil, nil); err != nil {
		return fmt.Errorf("releasing hold: %w", err)
	}

	return nil
}

// CancelPurchase voids a purchase attempt server-side. It is called even
// when the purchase call itself was already cancelled, because the purchase
// may have been partially registered before the cancellation fired.
func (c BoxOfficeClient) CancelPurchase(ctx context.Context, hold entity.Hold) error {
	if err := c.clients.do(ctx, http.MethodDelete, "/purchases/"+hold.HoldID, nil, nil); err != nil {
		return fmt.Errorf("cancelling purchase: %w", err)
	}

	return nil
}
