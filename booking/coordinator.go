package booking

import (
	"context"

	"boxoffice/entity"
	"boxoffice/log"
	"boxoffice/message/event"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Gateway is the box office network gateway consumed by the coordinator.
// Reserve and Purchase are cancelled mid-flight by cancelling their context.
type Gateway interface {
	Reserve(ctx context.Context, showID int64, seatCount int) (entity.Hold, error)
	Purchase(ctx context.Context, hold entity.Hold, seatCount int) error
	Release(ctx context.Context, hold entity.Hold) error
	CancelPurchase(ctx context.Context, hold entity.Hold) error
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type triggerKind int

const (
	triggerStartHold triggerKind = iota
	triggerStartPurchase
	triggerStartRelease
	triggerStartAbort
)

func (k triggerKind) String() string {
	switch k {
	case triggerStartHold:
		return "start-hold"
	case triggerStartPurchase:
		return "start-purchase"
	case triggerStartRelease:
		return "start-release"
	case triggerStartAbort:
		return "start-abort"
	default:
		return "unknown"
	}
}

type trigger struct {
	kind          triggerKind
	reservationID string
	showID        int64
	seatCount     int
	reason        string
}

// Coordinator drives one reservation transaction at a time:
// hold, then purchase or release, then a terminal settle. All transitions
// run on the single Run goroutine; triggers may arrive concurrently but are
// serialized through one channel.
type Coordinator struct {
	gateway   Gateway
	publisher Publisher
	triggers  chan trigger

	// transaction state, owned by the Run goroutine
	reservationID string
	hold          *entity.Hold
	intent        entity.Intent
}

func NewCoordinator(gateway Gateway, publisher Publisher) *Coordinator {
	return &Coordinator{
		gateway:   gateway,
		publisher: publisher,
		triggers:  make(chan trigger, 16),
		intent:    entity.IntentHold,
	}
}

func (c *Coordinator) StartHold(ctx context.Context, reservationID string, showID int64, seatCount int) error {
	return c.send(ctx, trigger{
		kind:          triggerStartHold,
		reservationID: reservationID,
		showID:        showID,
		seatCount:     seatCount,
	})
}

func (c *Coordinator) StartPurchase(ctx context.Context, reservationID string, seatCount int) error {
	return c.send(ctx, trigger{
		kind:          triggerStartPurchase,
		reservationID: reservationID,
		seatCount:     seatCount,
	})
}

func (c *Coordinator) StartRelease(ctx context.Context, reservationID, reason string) error {
	return c.send(ctx, trigger{
		kind:          triggerStartRelease,
		reservationID: reservationID,
		reason:        reason,
	})
}

func (c *Coordinator) StartAbort(ctx context.Context, reservationID, reason string) error {
	return c.send(ctx, trigger{
		kind:          triggerStartAbort,
		reservationID: reservationID,
		reason:        reason,
	})
}

func (c *Coordinator) send(ctx context.Context, t trigger) error {
	select {
	case c.triggers <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes transactions until ctx is cancelled. The coordinator
// returns to idle after every settled transaction and waits for the next
// start-hold trigger. Start-hold triggers that arrive while a transaction is
// active are deferred and run after it settles, so a stored reservation is
// never lost.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case trg := <-c.triggers:
			if trg.kind != triggerStartHold {
				log.FromContext(ctx).
					WithField("trigger", trg.kind.String()).
					Info("No transaction in progress, dropping trigger")
				continue
			}

			queue := []trigger{trg}
			for len(queue) > 0 {
				next := queue[0]
				queue = append(queue[1:], c.runTransaction(ctx, next)...)
				if ctx.Err() != nil {
					return nil
				}
			}
		}
	}
}

type reserveResult struct {
	hold entity.Hold
	err  error
}

// runTransaction drives one transaction to its terminal settle. It returns
// the start-hold triggers for other reservations that arrived while this one
// was active; the caller runs them next.
func (c *Coordinator) runTransaction(ctx context.Context, start trigger) []trigger {
	logger := log.FromContext(ctx).WithField("reservation_id", start.reservationID)

	c.reservationID = start.reservationID
	c.intent = entity.IntentHold

	holdCtx, cancelHold := context.WithCancel(ctx)
	defer cancelHold()

	results := make(chan reserveResult, 1)
	go func() {
		hold, err := c.gateway.Reserve(holdCtx, start.showID, start.seatCount)
		results <- reserveResult{hold: hold, err: err}
	}()

	// Triggers that arrive while the hold call is in flight: cancellation
	// signals take effect immediately, anything else waits its turn.
	var pending []trigger
	var deferred []trigger

	for c.hold == nil {
		select {
		case res := <-results:
			if res.err != nil {
				logger.WithError(res.err).Error("Reserving seats failed")
				c.fail(ctx, res.err)
				return deferred
			}
			hold := res.hold
			c.hold = &hold
			logger.WithField("hold_id", hold.HoldID).Info("Seats held")
		case trg := <-c.triggers:
			if trg.reservationID != c.reservationID {
				deferred = c.deferOrDrop(logger, trg, deferred)
				continue
			}
			switch trg.kind {
			case triggerStartRelease, triggerStartAbort:
				c.intent = intentFor(trg.kind)
				cancelHold()
				res := <-results
				if res.err == nil {
					// the hold call finished before the cancellation took effect
					hold := res.hold
					c.hold = &hold
				}
				c.releaseTickets(ctx, trg)
				return deferred
			case triggerStartPurchase:
				pending = append(pending, trg)
			default:
				logger.WithField("trigger", trg.kind.String()).Info("Hold in flight, dropping trigger")
			}
		case <-ctx.Done():
			cancelHold()
			<-results
			c.cleanup(ctx)
			return nil
		}
	}

	// Held: exactly one of purchase, release, or abort settles the
	// transaction.
	for {
		var trg trigger
		if len(pending) > 0 {
			trg = pending[0]
			pending = pending[1:]
		} else {
			select {
			case trg = <-c.triggers:
			case <-ctx.Done():
				c.cleanup(ctx)
				return nil
			}
		}

		if trg.reservationID != c.reservationID {
			deferred = c.deferOrDrop(logger, trg, deferred)
			continue
		}

		switch trg.kind {
		case triggerStartPurchase:
			c.intent = entity.IntentPurchase
			return append(deferred, c.runPurchase(ctx, trg.seatCount)...)
		case triggerStartRelease, triggerStartAbort:
			c.intent = intentFor(trg.kind)
			c.releaseTickets(ctx, trg)
			return deferred
		default:
			logger.WithField("trigger", trg.kind.String()).Info("Seats already held, dropping trigger")
		}
	}
}

// deferOrDrop handles a trigger addressed to a reservation other than the
// active one. A start-hold is a fresh transaction and is kept for later;
// everything else refers to a transaction this coordinator is not running
// and is dropped.
func (c *Coordinator) deferOrDrop(logger *logrus.Entry, trg trigger, deferred []trigger) []trigger {
	if trg.kind == triggerStartHold {
		logger.WithField("deferred_reservation_id", trg.reservationID).
			Info("Transaction in progress, deferring start-hold trigger")
		return append(deferred, trg)
	}

	logger.WithField("trigger", trg.kind.String()).Info("Trigger for another reservation, dropping")
	return deferred
}

// releaseTickets settles the transaction on the release and abort paths.
// The release call itself happens in cleanup so that every settle path
// collapses to a single release.
func (c *Coordinator) releaseTickets(ctx context.Context, trg trigger) {
	if trg.reason != "" {
		log.FromContext(ctx).
			WithField("reservation_id", c.reservationID).
			WithField("reason", trg.reason).
			Info("Releasing tickets")
	}

	title := "abort"
	outcome := entity.ReservationStatusAborted
	if trg.kind == triggerStartRelease {
		title = "release"
		outcome = entity.ReservationStatusReleased
	}

	c.notify(ctx, entity.Notification{Title: title, Severity: entity.SeverityWarning})
	c.cleanup(ctx)
	c.settle(ctx, outcome)
}

// fail settles a transaction whose hold call failed. The message is chosen
// by the last known intent; the hold never existed, so cleanup has nothing
// to release.
func (c *Coordinator) fail(ctx context.Context, err error) {
	c.notify(ctx, entity.Notification{
		Title:    ErrorMessage(err.Error(), c.intent),
		Severity: entity.SeverityError,
	})
	c.cleanup(ctx)
	c.settle(ctx, entity.ReservationStatusFailed)
}

func (c *Coordinator) notify(ctx context.Context, notification entity.Notification) {
	e := event.NewNotificationRaised(uuid.NewString(), notification)
	if err := c.publisher.Publish(ctx, e); err != nil {
		log.FromContext(ctx).WithError(err).Error("Publishing notification failed")
	}
}

func (c *Coordinator) settle(ctx context.Context, outcome string) {
	e := event.NewReservationSettled(uuid.NewString(), c.reservationID, outcome)
	if err := c.publisher.Publish(ctx, e); err != nil {
		log.FromContext(ctx).WithError(err).Error("Publishing reservation settled event failed")
	}
	c.reservationID = ""
}

func intentFor(kind triggerKind) entity.Intent {
	switch kind {
	case triggerStartPurchase:
		return entity.IntentPurchase
	case triggerStartRelease:
		return entity.IntentRelease
	case triggerStartAbort:
		return entity.IntentAbort
	default:
		return entity.IntentHold
	}
}
