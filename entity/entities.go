package entity

// Hold is a temporary claim on a block of seats. It is created by a
// successful reserve call and owned by the active reservation transaction
// until it is purchased, released, or the transaction aborts.
type Hold struct {
	HoldID    string `json:"hold_id"`
	ShowID    int64  `json:"show_id"`
	SeatCount int    `json:"seat_count"`
}

// Intent is the user-declared action steering a reservation transaction.
// It selects the wording of failure messages and which cleanup path applies.
type Intent string

const (
	IntentHold     Intent = "hold"
	IntentPurchase Intent = "purchase"
	IntentRelease  Intent = "release"
	IntentAbort    Intent = "abort"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
}

const (
	AuthIntentSignIn = "sign-in"
	AuthIntentSignUp = "sign-up"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Intent   string `json:"intent"`
}

type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

const (
	ReservationStatusRequested = "requested"
	ReservationStatusPurchased = "purchased"
	ReservationStatusReleased  = "released"
	ReservationStatusAborted   = "aborted"
	ReservationStatusFailed    = "failed"
)

// Reservation is the persisted record of one reservation transaction.
type Reservation struct {
	ReservationID string `json:"reservation_id"`
	ShowID        int64  `json:"show_id"`
	SeatCount     int    `json:"seat_count"`
	Status        string `json:"status"`
}
