package booking

import (
	"context"

	"boxoffice/entity"
	"boxoffice/log"
)

// purchaseRequest is one purchase attempt: the hold it purchases against
// and the handle that cancels the in-flight network call.
type purchaseRequest struct {
	hold    entity.Hold
	cancel  context.CancelFunc
	results chan error
}

// runPurchase races the purchase call against an abort trigger. Exactly one
// of purchased, canceled, or failed settles the transaction; the losing
// branch is torn down before the coordinator moves on. Start-hold triggers
// for other reservations that arrive mid-race are returned for the caller to
// run after the settle.
func (c *Coordinator) runPurchase(ctx context.Context, seatCount int) []trigger {
	logger := log.FromContext(ctx).
		WithField("reservation_id", c.reservationID).
		WithField("hold_id", c.hold.HoldID)

	purchaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req := purchaseRequest{
		hold:    *c.hold,
		cancel:  cancel,
		results: make(chan error, 1),
	}
	go func() {
		req.results <- c.gateway.Purchase(purchaseCtx, req.hold, seatCount)
	}()

	var deferred []trigger

	for {
		select {
		case err := <-req.results:
			if err != nil {
				logger.WithError(err).Error("Purchase failed")
				c.purchaseFailed(ctx, req, err)
				return deferred
			}
			c.purchased(ctx, req)
			return deferred
		case trg := <-c.triggers:
			if trg.reservationID != c.reservationID {
				deferred = c.deferOrDrop(logger, trg, deferred)
				continue
			}
			if trg.kind != triggerStartAbort {
				logger.WithField("trigger", trg.kind.String()).Info("Purchase in flight, dropping trigger")
				continue
			}
			c.intent = entity.IntentAbort
			c.purchaseAborted(ctx, req)
			return deferred
		case <-ctx.Done():
			req.cancel()
			<-req.results
			c.cleanup(ctx)
			return nil
		}
	}
}

func (c *Coordinator) purchased(ctx context.Context, req purchaseRequest) {
	c.notify(ctx, entity.Notification{Title: "tickets purchased", Severity: entity.SeverityInfo})

	// The hold is superseded by the purchase. Release it directly: this is
	// the success path, not a failure cleanup.
	c.hold = nil
	if err := c.gateway.Release(ctx, req.hold); err != nil {
		log.FromContext(ctx).WithError(err).
			WithField("hold_id", req.hold.HoldID).
			Error("Releasing superseded hold failed")
	}
	c.intent = entity.IntentHold

	c.settle(ctx, entity.ReservationStatusPurchased)
}

func (c *Coordinator) purchaseAborted(ctx context.Context, req purchaseRequest) {
	logger := log.FromContext(ctx).WithField("hold_id", req.hold.HoldID)

	// Two distinct cancellation actions: abort the in-flight call, then
	// void whatever the server may have already registered.
	req.cancel()
	<-req.results

	if err := c.gateway.CancelPurchase(ctx, req.hold); err != nil {
		logger.WithError(err).Error("Voiding canceled purchase failed")
	}

	c.notify(ctx, entity.Notification{Title: "purchase canceled", Severity: entity.SeverityWarning})
	c.cleanup(ctx)
	c.settle(ctx, entity.ReservationStatusAborted)
}

func (c *Coordinator) purchaseFailed(ctx context.Context, req purchaseRequest, err error) {
	logger := log.FromContext(ctx).WithField("hold_id", req.hold.HoldID)

	// The failure is reported against the original hold: the show and seat
	// context the user asked for is what the message describes.
	c.notify(ctx, entity.Notification{
		Title:    ErrorMessage(err.Error(), entity.IntentHold),
		Severity: entity.SeverityError,
	})

	if err := c.gateway.CancelPurchase(ctx, req.hold); err != nil {
		logger.WithError(err).Error("Voiding failed purchase failed")
	}

	c.cleanup(ctx)
	c.settle(ctx, entity.ReservationStatusFailed)
}
