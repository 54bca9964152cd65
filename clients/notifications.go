package clients

import (
	"context"
	"fmt"
	"net/http"

	"boxoffice/entity"
)

// NotificationsClient delivers notifications to the external sink. The core
// treats delivery as fire-and-forget; the return value is only used for
// message redelivery.
type NotificationsClient struct {
	clients *Clients
}

func NewNotificationsClient(clients *Clients) NotificationsClient {
	return NotificationsClient{
		clients: clients,
	}
}

func (c NotificationsClient) Notify(ctx context.Context, notification entity.Notification) error {
	if err := c.clients.do(ctx, http.MethodPost, "/notifications", notification, nil); err != nil {
		return fmt.Errorf("delivering notification: %w", err)
	}

	return nil
}
