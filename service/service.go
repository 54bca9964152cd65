package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boxoffice/auth"
	"boxoffice/booking"
	"boxoffice/db"
	"boxoffice/http"
	"boxoffice/log"
	"boxoffice/message"
	"boxoffice/message/command"
	"boxoffice/message/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Deps struct {
	DB               *sqlx.DB
	Gateway          booking.Gateway
	Authenticator    auth.Authenticator
	NotificationSink event.NotificationSink
	HTTPAddr         string
	Logger           watermill.LoggerAdapter
	RedisClient      *redis.Client
}

type Service struct {
	forwarder          *message.Forwarder
	msgRouter          *message.Router
	httpRouter         *echo.Echo
	httpAddr           string
	bookingCoordinator *booking.Coordinator
	authCoordinator    *auth.Coordinator
}

func New(deps Deps) (*Service, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: deps.RedisClient,
	}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	decoratedPublisher := log.CorrelationPublisherDecorator{Publisher: publisher}

	eventBus, err := event.NewBus(decoratedPublisher)
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	commandBus, err := command.NewBus(decoratedPublisher, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating command bus: %w", err)
	}

	bookingCoordinator := booking.NewCoordinator(deps.Gateway, eventBus)
	authCoordinator := auth.NewCoordinator(deps.Authenticator, eventBus)

	reservationRepo := db.NewReservationRepo(deps.DB, deps.Logger)
	notificationRepo := db.NewNotificationRepo(deps.DB)

	msgRouter, err := message.NewRouter(message.RouterDeps{
		CommandHandler: command.NewHandler(bookingCoordinator, authCoordinator),
		EventHandler:   event.NewHandler(bookingCoordinator, reservationRepo, deps.NotificationSink, notificationRepo),
		Logger:         deps.Logger,
		RedisClient:    deps.RedisClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating message router: %w", err)
	}

	forwarder, err := message.NewForwarder(deps.DB, deps.RedisClient, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating forwarder: %w", err)
	}

	httpRouter := http.NewRouter(commandBus, reservationRepo, authCoordinator)

	return &Service{
		forwarder:          forwarder,
		msgRouter:          msgRouter,
		httpRouter:         httpRouter,
		httpAddr:           deps.HTTPAddr,
		bookingCoordinator: bookingCoordinator,
		authCoordinator:    authCoordinator,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.forwarder.Run(runCtx); err != nil {
			return fmt.Errorf("running forwarder: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := s.msgRouter.Run(runCtx); err != nil {
			return fmt.Errorf("running messaging router: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := s.bookingCoordinator.Run(runCtx); err != nil {
			return fmt.Errorf("running reservation coordinator: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := s.authCoordinator.Run(runCtx); err != nil {
			return fmt.Errorf("running auth coordinator: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		// Wait for message router
		<-s.msgRouter.Running()

		logrus.Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.httpAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
