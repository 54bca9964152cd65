package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"boxoffice/clients"
	"boxoffice/config"
	"boxoffice/db"
	"boxoffice/log"
	"boxoffice/service"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log.Init(logrus.InfoLevel)
	logger := watermill.NewStdLogger(false, false)

	if err := run(logger); err != nil {
		logger.Error("failed to run", err, nil)
		os.Exit(1)
	}
}

func run(logger watermill.LoggerAdapter) error {
	cfg := config.Load()

	gatewayClients, err := clients.New(cfg.GatewayAddr)
	if err != nil {
		return fmt.Errorf("creating gateway client: %w", err)
	}

	sinkClients, err := clients.New(cfg.SinkAddr)
	if err != nil {
		return fmt.Errorf("creating notification sink client: %w", err)
	}

	boxOfficeClient := clients.NewBoxOfficeClient(gatewayClients)
	authClient := clients.NewAuthClient(gatewayClients)
	notificationsClient := clients.NewNotificationsClient(sinkClients)

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("failed to close redis connection", err, nil)
		}
	}()

	dbConn, err := sqlx.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close db connection", err, nil)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := db.InitialiseDB(ctx, dbConn); err != nil {
		return fmt.Errorf("initialising db: %w", err)
	}

	svc, err := service.New(service.Deps{
		DB:               dbConn,
		Gateway:          boxOfficeClient,
		Authenticator:    authClient,
		NotificationSink: notificationsClient,
		HTTPAddr:         cfg.HTTPAddr,
		Logger:           logger,
		RedisClient:      rdb,
	})
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}

	return svc.Run(ctx)
}
