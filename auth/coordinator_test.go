package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"boxoffice/auth"
	"boxoffice/entity"
	"boxoffice/message/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockAuthenticator struct {
	lock sync.Mutex

	session entity.Session
	err     error

	// when gate is set, Authenticate blocks until it is closed; cancelled is
	// closed as soon as the blocked call observes context cancellation
	gate      chan struct{}
	cancelled chan struct{}

	calls  int
	ctxErr error
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, _ entity.Credentials) (entity.Session, error) {
	m.lock.Lock()
	m.calls++
	gate := m.gate
	cancelled := m.cancelled
	session := m.session
	err := m.err
	m.lock.Unlock()

	if gate != nil {
		select {
		case <-ctx.Done():
			if cancelled != nil {
				close(cancelled)
			}
			// keep blocking: the result is deliberately late
			<-gate
		case <-gate:
		}
	}

	m.lock.Lock()
	m.ctxErr = ctx.Err()
	m.lock.Unlock()

	return session, err
}

func (m *MockAuthenticator) Calls() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.calls
}

func (m *MockAuthenticator) CtxErr() error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.ctxErr
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

func startCoordinator(t *testing.T, authenticator *MockAuthenticator, publisher *MockPublisher) (*auth.Coordinator, context.Context) {
	t.Helper()

	c := auth.NewCoordinator(authenticator, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return c, ctx
}

func waitForNotifications(t *testing.T, publisher *MockPublisher, notifications ...entity.Notification) {
	t.Helper()

	assert.EventuallyWithT(
		t,
		func(collectT *assert.CollectT) {
			assert.Equal(collectT, notifications, publisher.Notifications())
		},
		time.Second,
		10*time.Millisecond,
	)
}

func TestSignInSucceeds(t *testing.T) {
	authenticator := &MockAuthenticator{
		session: entity.Session{UserID: "user-1", Email: "someone@example.com", Token: "token-1"},
	}
	publisher := &MockPublisher{}
	c, ctx := startCoordinator(t, authenticator, publisher)

	creds := entity.Credentials{Email: "someone@example.com", Password: "pw", Intent: entity.AuthIntentSignIn}
	require.NoError(t, c.SignIn(ctx, creds))

	waitForNotifications(t, publisher, entity.Notification{
		Title:    "Signed in as someone@example.com",
		Severity: entity.SeverityInfo,
	})

	session, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "someone@example.com", session.Email)
}

func TestSignInFails(t *testing.T) {
	authenticator := &MockAuthenticator{err: errors.New("invalid credentials")}
	publisher := &MockPublisher{}
	c, ctx := startCoordinator(t, authenticator, publisher)

	require.NoError(t, c.SignIn(ctx, entity.Credentials{Email: "someone@example.com", Password: "nope"}))

	waitForNotifications(t, publisher, entity.Notification{
		Title:    "Sign in failed: invalid credentials",
		Severity: entity.SeverityWarning,
	})

	_, ok := c.Session()
	assert.False(t, ok)
}

func TestCancelSignInDiscardsLateResult(t *testing.T) {
	gate := make(chan struct{})
	authenticator := &MockAuthenticator{
		session:   entity.Session{UserID: "user-1", Email: "someone@example.com", Token: "token-1"},
		gate:      gate,
		cancelled: make(chan struct{}),
	}
	publisher := &MockPublisher{}
	c, ctx := startCoordinator(t, authenticator, publisher)

	require.NoError(t, c.SignIn(ctx, entity.Credentials{Email: "someone@example.com", Password: "pw"}))

	assert.EventuallyWithT(
		t,
		func(collectT *assert.CollectT) {
			assert.Equal(collectT, 1, authenticator.Calls())
		},
		time.Second,
		10*time.Millisecond,
	)

	require.NoError(t, c.CancelSignIn(ctx))

	// wait for the in-flight attempt to observe the cancellation, then let it
	// complete with a successful result that must be discarded
	select {
	case <-authenticator.cancelled:
	case <-time.After(time.Second):
		t.Fatal("sign in attempt was never cancelled")
	}
	close(gate)

	waitForNotifications(t, publisher, entity.Notification{
		Title:    "Sign in canceled",
		Severity: entity.SeverityWarning,
	})

	assert.ErrorIs(t, authenticator.CtxErr(), context.Canceled)

	_, ok := c.Session()
	assert.False(t, ok)
}

func TestSignOutClearsSession(t *testing.T) {
	authenticator := &MockAuthenticator{
		session: entity.Session{UserID: "user-1", Email: "someone@example.com", Token: "token-1"},
	}
	publisher := &MockPublisher{}
	c, ctx := startCoordinator(t, authenticator, publisher)

	require.NoError(t, c.SignIn(ctx, entity.Credentials{Email: "someone@example.com", Password: "pw"}))

	assert.EventuallyWithT(
		t,
		func(collectT *assert.CollectT) {
			_, ok := c.Session()
			assert.True(collectT, ok)
		},
		time.Second,
		10*time.Millisecond,
	)

	require.NoError(t, c.SignOut(ctx))

	assert.EventuallyWithT(
		t,
		func(collectT *assert.CollectT) {
			_, ok := c.Session()
			assert.False(collectT, ok)
		},
		time.Second,
		10*time.Millisecond,
	)
}

func TestSignOutWhileSignedOutIsIgnored(t *testing.T) {
	authenticator := &MockAuthenticator{
		session: entity.Session{UserID: "user-1", Email: "someone@example.com", Token: "token-1"},
	}
	publisher := &MockPublisher{}
	c, ctx := startCoordinator(t, authenticator, publisher)

	// dropped: no attempt is in flight
	require.NoError(t, c.SignOut(ctx))
	require.NoError(t, c.CancelSignIn(ctx))

	// the coordinator still accepts a fresh sign in afterwards
	require.NoError(t, c.SignIn(ctx, entity.Credentials{Email: "someone@example.com", Password: "pw"}))

	assert.EventuallyWithT(
		t,
		func(collectT *assert.CollectT) {
			_, ok := c.Session()
			assert.True(collectT, ok)
		},
		time.Second,
		10*time.Millisecond,
	)
}
