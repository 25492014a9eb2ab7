// Package session owns the process-wide session lifecycle: it is the only
// writer of the credential store and the only authority over SessionState.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hiredesk-session/internal/authclient"
	"github.com/spec-kit/hiredesk-session/internal/domain"
	"github.com/spec-kit/hiredesk-session/internal/store"
	"github.com/spec-kit/hiredesk-session/internal/token"
)

// Authenticator is the slice of the remote authentication service the
// manager needs. Implemented by authclient.Client.
type Authenticator interface {
	SignUp(ctx context.Context, req authclient.SignUpRequest) (authclient.Envelope, error)
	SignIn(ctx context.Context, creds authclient.Credentials) (authclient.Envelope, error)
	SignOut(ctx context.Context, tokenStr string) (string, error)
}

// Subscriber receives every session state transition.
type Subscriber func(domain.SessionState)

// Dependencies encapsulates what the manager needs to operate.
type Dependencies struct {
	Store  store.Store
	Auth   Authenticator
	Logger *zap.Logger
}

// Manager mediates all credential mutation. Construct exactly one per
// process and inject it into consumers; there is no package-level state.
type Manager struct {
	store  store.Store
	auth   Authenticator
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       domain.SessionState
	inFlight    bool
	subscribers map[int]Subscriber
	nextSubID   int
}

// NewManager builds the manager. The initial state is Unauthenticated
// until Bootstrap runs.
func NewManager(deps Dependencies) *Manager {
	return &Manager{
		store:       deps.Store,
		auth:        deps.Auth,
		logger:      deps.Logger,
		now:         time.Now,
		state:       domain.Unauthenticated(),
		subscribers: make(map[int]Subscriber),
	}
}

// Bootstrap establishes the initial session state from the persisted
// credential. Every failure path lands in Unauthenticated with the store
// cleared; it never returns an error.
func (m *Manager) Bootstrap(ctx context.Context) domain.SessionState {
	credential, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("credential load failed", zap.Error(err))
		m.setState(domain.Unauthenticated())
		return m.Current()
	}
	if !ok {
		m.setState(domain.Unauthenticated())
		return m.Current()
	}

	claims, err := token.Decode(credential)
	if err != nil {
		m.logger.Info("discarding undecodable credential", zap.Error(err))
		m.clearStore(ctx)
		m.setState(domain.Unauthenticated())
		return m.Current()
	}

	if token.IsExpired(claims, m.now()) {
		m.logger.Info("discarding expired credential",
			zap.Time("expired_at", claims.ExpiresAt.Time))
		m.clearStore(ctx)
		m.setState(domain.Unauthenticated())
		return m.Current()
	}

	m.setState(domain.Authenticated(claims.Identity()))
	return m.Current()
}

// SignIn exchanges credentials for a session. State and store remain
// untouched on every error path: a rejection, an unreachable service, or
// an undecodable token never evicts an existing session.
func (m *Manager) SignIn(ctx context.Context, username, password string) (domain.Identity, error) {
	if err := m.beginCall(); err != nil {
		return domain.Identity{}, err
	}
	defer m.endCall()

	return m.signIn(ctx, username, password)
}

// signIn is SignIn without the in-flight guard, shared with SignUp's
// implicit second step.
func (m *Manager) signIn(ctx context.Context, username, password string) (domain.Identity, error) {
	env, err := m.auth.SignIn(ctx, authclient.Credentials{Username: username, Password: password})
	if err != nil {
		return domain.Identity{}, &AuthError{Kind: KindUnreachable, Err: err}
	}
	if !env.Success {
		return domain.Identity{}, &AuthError{Kind: KindRejected, Description: env.Description}
	}

	claims, err := token.Decode(env.Token)
	if err != nil {
		// Fail closed: never adopt a credential we cannot decode.
		m.logger.Error("service returned undecodable token", zap.Error(err))
		return domain.Identity{}, &AuthError{Kind: KindCorruptCredential, Err: err}
	}

	if err := m.store.Save(ctx, env.Token); err != nil {
		// The session is valid in memory; persistence failure only costs
		// the next restart.
		m.logger.Warn("credential not persisted", zap.Error(err))
	}

	identity := claims.Identity()
	m.setState(domain.Authenticated(identity))
	return identity, nil
}

// SignUp registers an account, then signs in with the same credentials to
// establish a session; the service does not hand out a usable token from
// signup itself. A successful signup whose implicit signin fails is a
// partial success, not an error: state stays Unauthenticated and the
// caller routes the user to the signin page.
func (m *Manager) SignUp(ctx context.Context, req authclient.SignUpRequest) (SignUpResult, error) {
	if err := m.beginCall(); err != nil {
		return SignUpResult{}, err
	}
	defer m.endCall()

	env, err := m.auth.SignUp(ctx, req)
	if err != nil {
		return SignUpResult{}, &AuthError{Kind: KindUnreachable, Err: err}
	}
	if !env.Success {
		return SignUpResult{}, &AuthError{Kind: KindRejected, Description: env.Description}
	}

	identity, err := m.signIn(ctx, req.Username, req.Password)
	if err != nil {
		m.logger.Info("signup succeeded but implicit signin failed", zap.Error(err))
		return SignUpResult{Outcome: SignUpPartial, Description: env.Description}, nil
	}

	return SignUpResult{Outcome: SignUpFull, Identity: identity, Description: env.Description}, nil
}

// Logout ends the session. The remote notification is best effort; local
// state clearing is never gated on its acknowledgment. The only possible
// error is KindBusy.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.beginCall(); err != nil {
		return err
	}
	defer m.endCall()

	credential, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("credential load failed during logout", zap.Error(err))
	}
	if ok {
		if _, err := m.auth.SignOut(ctx, credential); err != nil {
			m.logger.Warn("remote logout failed", zap.Error(err))
		}
	}

	m.clearStore(ctx)
	m.setState(domain.Unauthenticated())
	return nil
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to run on every state transition and returns a
// deregistration handle.
func (m *Manager) Subscribe(fn Subscriber) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// setState publishes a transition. Subscribers only see actual changes
// and run outside the lock on a snapshot of the listener set.
func (m *Manager) setState(state domain.SessionState) {
	m.mu.Lock()
	if stateEqual(m.state, state) {
		m.mu.Unlock()
		return
	}
	m.state = state
	subscribers := make([]Subscriber, 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subscribers = append(subscribers, fn)
	}
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

func stateEqual(a, b domain.SessionState) bool {
	if a.Identity == nil || b.Identity == nil {
		return a.Identity == nil && b.Identity == nil
	}
	return *a.Identity == *b.Identity
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("credential clear failed", zap.Error(err))
	}
}

func (m *Manager) beginCall() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return &AuthError{Kind: KindBusy}
	}
	m.inFlight = true
	return nil
}

func (m *Manager) endCall() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}
