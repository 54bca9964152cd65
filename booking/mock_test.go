package booking_test

import (
	"context"
	"sync"

	"boxoffice/entity"
	"boxoffice/message/event"
)

type ReserveRequest struct {
	showID    int64
	seatCount int
}

type MockGateway struct {
	lock sync.Mutex

	reserveErr error
	// when reserveGate is set, Reserve blocks on it or on its context; a
	// cancelled call closes reserveCancelled (if set) and, with
	// reserveLateSuccess, still waits for the gate and returns the hold as if
	// the response had already arrived
	reserveGate        chan struct{}
	reserveCancelled   chan struct{}
	reserveLateSuccess bool

	purchaseErr  error
	purchaseGate chan error // when set, Purchase blocks on it or on its context

	reserveRequests []ReserveRequest
	purchases       []entity.Hold
	releases        []entity.Hold
	cancelPurchases []entity.Hold
	purchaseCtxErr  error
}

func (m *MockGateway) Reserve(ctx context.Context, showID int64, seatCount int) (entity.Hold, error) {
	m.lock.Lock()
	m.reserveRequests = append(m.reserveRequests, ReserveRequest{showID: showID, seatCount: seatCount})
	err := m.reserveErr
	gate := m.reserveGate
	cancelled := m.reserveCancelled
	lateSuccess := m.reserveLateSuccess
	m.lock.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			if cancelled != nil {
				close(cancelled)
			}
			if !lateSuccess {
				return entity.Hold{}, ctx.Err()
			}
			<-gate
		}
	}

	if err != nil {
		return entity.Hold{}, err
	}

	return entity.Hold{HoldID: "hold-1", ShowID: showID, SeatCount: seatCount}, nil
}

func (m *MockGateway) Purchase(ctx context.Context, hold entity.Hold, _ int) error {
	m.lock.Lock()
	m.purchases = append(m.purchases, hold)
	gate := m.purchaseGate
	err := m.purchaseErr
	m.lock.Unlock()

	if gate != nil {
		select {
		case err = <-gate:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	m.lock.Lock()
	m.purchaseCtxErr = ctx.Err()
	m.lock.Unlock()

	return err
}

func (m *MockGateway) Release(_ context.Context, hold entity.Hold) error {
	m.lock.Lock()
	m.releases = append(m.releases, hold)
	m.lock.Unlock()

	return nil
}

func (m *MockGateway) CancelPurchase(_ context.Context, hold entity.Hold) error {
	m.lock.Lock()
	m.cancelPurchases = append(m.cancelPurchases, hold)
	m.lock.Unlock()

	return nil
}

func (m *MockGateway) ReserveRequests() []ReserveRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]ReserveRequest(nil), m.reserveRequests...)
}

func (m *MockGateway) Purchases() []entity.Hold {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]entity.Hold(nil), m.purchases...)
}

func (m *MockGateway) Releases() []entity.Hold {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]entity.Hold(nil), m.releases...)
}

func (m *MockGateway) CancelPurchases() []entity.Hold {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]entity.Hold(nil), m.cancelPurchases...)
}

func (m *MockGateway) PurchaseCtxErr() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.purchaseCtxErr
}

type MockPublisher struct {
	lock   sync.Mutex
	events []any
}

func (m *MockPublisher) Publish(_ context.Context, e any) error {
	m.lock.Lock()
	m.events = append(m.events, e)
	m.lock.Unlock()

	return nil
}

func (m *MockPublisher) Notifications() []entity.Notification {
	m.lock.Lock()
	defer m.lock.Unlock()

	var notifications []entity.Notification
	for _, e := range m.events {
		if n, ok := e.(event.NotificationRaised); ok {
			notifications = append(notifications, entity.Notification{Title: n.Title, Severity: n.Severity})
		}
	}
	return notifications
}

func (m *MockPublisher) Outcomes() []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	var outcomes []string
	for _, e := range m.events {
		if s, ok := e.(event.ReservationSettled); ok {
			outcomes = append(outcomes, s.Outcome)
		}
	}
	return outcomes
}

func (m *MockPublisher) SettledReservationIDs() []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	var ids []string
	for _, e := range m.events {
		if s, ok := e.(event.ReservationSettled); ok {
			ids = append(ids, s.ReservationID)
		}
	}
	return ids
}
