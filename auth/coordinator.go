package auth

import (
	"context"
	"fmt"
	"sync"

	"boxoffice/entity"
	"boxoffice/log"
	"boxoffice/message/event"

	"github.com/google/uuid"
)

// Authenticator is the network gateway's auth operation. The call is
// abandoned when its context is cancelled.
type Authenticator interface {
	Authenticate(ctx context.Context, creds entity.Credentials) (entity.Session, error)
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type triggerKind int

const (
	triggerSignIn triggerKind = iota
	triggerCancelSignIn
	triggerSignOut
)

func (k triggerKind) String() string {
	switch k {
	case triggerSignIn:
		return "sign-in"
	case triggerCancelSignIn:
		return "cancel-sign-in"
	case triggerSignOut:
		return "sign-out"
	default:
		return "unknown"
	}
}

type trigger struct {
	kind  triggerKind
	creds entity.Credentials
}

// Coordinator supervises sign-in attempts for the lifetime of the process.
// Each attempt runs as a child task that can be cancelled without touching
// the supervising loop; after every settled attempt the coordinator waits
// for the next trigger.
type Coordinator struct {
	authenticator Authenticator
	publisher     Publisher
	triggers      chan trigger

	mu      sync.RWMutex
	session *entity.Session
}

func NewCoordinator(authenticator Authenticator, publisher Publisher) *Coordinator {
	return &Coordinator{
		authenticator: authenticator,
		publisher:     publisher,
		triggers:      make(chan trigger, 16),
	}
}

func (c *Coordinator) SignIn(ctx context.Context, creds entity.Credentials) error {
	return c.send(ctx, trigger{kind: triggerSignIn, creds: creds})
}

func (c *Coordinator) CancelSignIn(ctx context.Context) error {
	return c.send(ctx, trigger{kind: triggerCancelSignIn})
}

func (c *Coordinator) SignOut(ctx context.Context) error {
	return c.send(ctx, trigger{kind: triggerSignOut})
}

func (c *Coordinator) send(ctx context.Context, t trigger) error {
	select {
	case c.triggers <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Session returns the current session. A session exists if and only if the
// coordinator is signed in.
func (c *Coordinator) Session() (entity.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return entity.Session{}, false
	}
	return *c.session, true
}

func (c *Coordinator) setSession(session *entity.Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.setSession(nil)
			return nil
		case trg := <-c.triggers:
			if trg.kind != triggerSignIn {
				log.FromContext(ctx).
					WithField("trigger", trg.kind.String()).
					Info("Not signed in, dropping trigger")
				continue
			}
			c.authenticate(ctx, trg.creds)
		}
	}
}

type authResult struct {
	session entity.Session
	err     error
}

func (c *Coordinator) authenticate(ctx context.Context, creds entity.Credentials) {
	logger := log.FromContext(ctx).WithField("email", creds.Email)
	logger.Info("Authenticating")

	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan authResult, 1)
	go func() {
		session, err := c.authenticator.Authenticate(childCtx, creds)
		results <- authResult{session: session, err: err}
	}()

	for {
		select {
		case res := <-results:
			if res.err != nil {
				logger.WithError(res.err).Warn("Sign in failed")
				c.notify(ctx, entity.Notification{
					Title:    fmt.Sprintf("Sign in failed: %s", res.err),
					Severity: entity.SeverityWarning,
				})
				return
			}
			session := res.session
			c.setSession(&session)
			c.notify(ctx, entity.Notification{
				Title:    fmt.Sprintf("Signed in as %s", session.Email),
				Severity: entity.SeverityInfo,
			})
			c.signedIn(ctx)
			return
		case trg := <-c.triggers:
			if trg.kind != triggerCancelSignIn {
				logger.WithField("trigger", trg.kind.String()).Info("Sign in in flight, dropping trigger")
				continue
			}
			cancel()
			// Tear down the attempt: a result that still arrives is
			// discarded, never applied.
			<-results
			// Sign-out side effect so no partial session state survives.
			c.setSession(nil)
			c.notify(ctx, entity.Notification{Title: "Sign in canceled", Severity: entity.SeverityWarning})
			logger.Info("Sign in canceled")
			return
		case <-ctx.Done():
			cancel()
			<-results
			return
		}
	}
}

func (c *Coordinator) signedIn(ctx context.Context) {
	logger := log.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			c.setSession(nil)
			return
		case trg := <-c.triggers:
			if trg.kind != triggerSignOut {
				logger.WithField("trigger", trg.kind.String()).Info("Already signed in, dropping trigger")
				continue
			}
			c.setSession(nil)
			logger.Info("Signed out")
			return
		}
	}
}

func (c *Coordinator) notify(ctx context.Context, notification entity.Notification) {
	e := event.NewNotificationRaised(uuid.NewString(), notification)
	if err := c.publisher.Publish(ctx, e); err != nil {
		log.FromContext(ctx).WithError(err).Error("Publishing notification failed")
	}
}
