package event

import (
	"context"
	"fmt"
	"time"

	"boxoffice/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// ReservationStarter is the reservation transaction coordinator's trigger
// surface consumed by this handler.
type ReservationStarter interface {
	StartHold(ctx context.Context, reservationID string, showID int64, seatCount int) error
}

type ReservationRepo interface {
	UpdateStatus(ctx context.Context, reservationID, status string) error
}

// NotificationSink displays a notification; fire-and-forget from the
// coordinators' perspective.
type NotificationSink interface {
	Notify(ctx context.Context, notification entity.Notification) error
}

type NotificationRepo interface {
	Add(ctx context.Context, notificationID string, notification entity.Notification, raisedAt time.Time) error
}

func NewProcessorConfig(logger watermill.LoggerAdapter, redisClient *redis.Client) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: "svc-boxoffice." + params.HandlerName,
			}, logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: logger,
	}
}

type Handler struct {
	reservations     ReservationStarter
	reservationRepo  ReservationRepo
	notificationSink NotificationSink
	notificationRepo NotificationRepo
}

func NewHandler(
	reservations ReservationStarter,
	reservationRepo ReservationRepo,
	notificationSink NotificationSink,
	notificationRepo NotificationRepo,
) Handler {
	return Handler{
		reservations:     reservations,
		reservationRepo:  reservationRepo,
		notificationSink: notificationSink,
		notificationRepo: notificationRepo,
	}
}

func (h Handler) StartHold(ctx context.Context, e *ReservationRequested) error {
	if err := h.reservations.StartHold(ctx, e.ReservationID, e.ShowID, e.SeatCount); err != nil {
		return fmt.Errorf("starting hold: %w", err)
	}

	return nil
}

func (h Handler) SettleReservation(ctx context.Context, e *ReservationSettled) error {
	if err := h.reservationRepo.UpdateStatus(ctx, e.ReservationID, e.Outcome); err != nil {
		return fmt.Errorf("updating reservation status: %w", err)
	}

	return nil
}

func (h Handler) ForwardNotification(ctx context.Context, e *NotificationRaised) error {
	notification := entity.Notification{
		Title:    e.Title,
		Severity: e.Severity,
	}
	if err := h.notificationSink.Notify(ctx, notification); err != nil {
		return fmt.Errorf("forwarding notification: %w", err)
	}

	return nil
}

func (h Handler) AuditNotification(ctx context.Context, e *NotificationRaised) error {
	notification := entity.Notification{
		Title:    e.Title,
		Severity: e.Severity,
	}
	if err := h.notificationRepo.Add(ctx, e.Header.ID, notification, e.Header.PublishedAt); err != nil {
		return fmt.Errorf("storing notification: %w", err)
	}

	return nil
}
