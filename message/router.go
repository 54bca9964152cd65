package message

import (
	"fmt"

	"boxoffice/message/command"
	"boxoffice/message/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	CommandHandler command.Handler
	EventHandler   event.Handler
	Logger         watermill.LoggerAdapter
	RedisClient    *redis.Client
}

type Router struct {
	*message.Router
}

func NewRouter(deps RouterDeps) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	addMiddlewares(router, deps.Logger)

	ep, err := cqrs.NewEventProcessorWithConfig(router, event.NewProcessorConfig(deps.Logger, deps.RedisClient))
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	eventHandlers := []cqrs.EventHandler{
		cqrs.NewEventHandler("start-hold", deps.EventHandler.StartHold),
		cqrs.NewEventHandler("settle-reservation", deps.EventHandler.SettleReservation),
		cqrs.NewEventHandler("forward-notification", deps.EventHandler.ForwardNotification),
		cqrs.NewEventHandler("audit-notification", deps.EventHandler.AuditNotification),
	}

	if err := ep.AddHandlers(eventHandlers...); err != nil {
		return nil, fmt.Errorf("adding event handlers: %w", err)
	}

	cp, err := cqrs.NewCommandProcessorWithConfig(router, command.NewProcessorConfig(deps.Logger, deps.RedisClient))
	if err != nil {
		return nil, fmt.Errorf("creating command processor: %w", err)
	}

	commandHandlers := []cqrs.CommandHandler{
		cqrs.NewCommandHandler("start-purchase", deps.CommandHandler.StartPurchase),
		cqrs.NewCommandHandler("release-tickets", deps.CommandHandler.ReleaseTickets),
		cqrs.NewCommandHandler("abort-reservation", deps.CommandHandler.AbortReservation),
		cqrs.NewCommandHandler("sign-in", deps.CommandHandler.SignIn),
		cqrs.NewCommandHandler("cancel-sign-in", deps.CommandHandler.CancelSignIn),
		cqrs.NewCommandHandler("sign-out", deps.CommandHandler.SignOut),
	}

	if err := cp.AddHandlers(commandHandlers...); err != nil {
		return nil, fmt.Errorf("adding command handlers: %w", err)
	}

	return &Router{router}, nil
}
