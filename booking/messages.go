package booking

import (
	"fmt"

	"boxoffice/entity"
)

// ErrorMessage builds the user-facing text for a failed gateway call. The
// intent selects the wording so the user sees the failure in terms of the
// action they asked for; the gateway's reason text is surfaced verbatim.
func ErrorMessage(reason string, intent entity.Intent) string {
	switch intent {
	case entity.IntentPurchase:
		return fmt.Sprintf("could not purchase tickets: %s", reason)
	case entity.IntentRelease:
		return fmt.Sprintf("could not release tickets: %s", reason)
	case entity.IntentAbort:
		return fmt.Sprintf("could not abort reservation: %s", reason)
	default:
		return fmt.Sprintf("could not reserve tickets: %s", reason)
	}
}
