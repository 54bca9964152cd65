package booking

import (
	"context"

	"boxoffice/entity"
	"boxoffice/log"
)

// cleanup releases the active hold and resets the transaction state. It is
// invoked from every failure and cancellation path and is idempotent: once
// the hold is cleared, further calls are no-ops, so concurrent settle
// triggers collapse to one release call. It raises no notification of its
// own; callers decide what to notify.
func (c *Coordinator) cleanup(ctx context.Context) {
	c.intent = entity.IntentHold

	if c.hold == nil {
		return
	}
	hold := *c.hold
	c.hold = nil

	// The release must complete even when the coordinator is shutting down.
	ctx = context.WithoutCancel(ctx)
	if err := c.gateway.Release(ctx, hold); err != nil {
		log.FromContext(ctx).WithError(err).
			WithField("hold_id", hold.HoldID).
			Error("Releasing hold failed")
	}
}
