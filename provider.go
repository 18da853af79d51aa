package session

import (
	"context"
	"sync"
)

// IdentityPublisher is implemented by streams that accept local events, like
// IdentityFeed. When the provider's stream also publishes, login and logout
// go through the stream so every observer sees the same ordered history.
type IdentityPublisher interface {
	Publish(identity *Session)
}

// Provider owns the process-wide AuthState. It mirrors every identity event
// from the stream in emission order; Loading stays true until the first event
// arrives so callers never render an unauthenticated flash at startup.
type Provider struct {
	stream    IdentityStream
	publisher IdentityPublisher
	store     CredentialStore
	client    AuthClient
	verifier  TokenVerifier
	logger    Logger

	mu      sync.RWMutex
	state   AuthState
	started bool
	stop    func()

	subMu sync.Mutex
	subs  []chan AuthState
}

// ProviderOption customizes provider construction.
type ProviderOption func(*Provider)

// WithProviderStore sets the credential store used for restore and logout.
func WithProviderStore(store CredentialStore) ProviderOption {
	return func(p *Provider) {
		p.store = store
	}
}

// WithProviderClient sets the backend client used by Login.
func WithProviderClient(client AuthClient) ProviderOption {
	return func(p *Provider) {
		p.client = client
	}
}

// WithProviderVerifier enables background verification of restored sessions.
func WithProviderVerifier(verifier TokenVerifier) ProviderOption {
	return func(p *Provider) {
		p.verifier = verifier
	}
}

// WithProviderLogger overrides the logger.
func WithProviderLogger(logger Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider returns a provider consuming the given identity stream.
func NewProvider(stream IdentityStream, opts ...ProviderOption) *Provider {
	p := &Provider{
		stream: stream,
		state:  AuthState{Loading: true},
		logger: defLogger{},
	}

	if pub, ok := stream.(IdentityPublisher); ok {
		p.publisher = pub
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Start subscribes to the identity stream and, when a store is configured,
// restores the persisted session. The restored identity is published before
// its verification round-trip completes; a failed verification then degrades
// back to signed out. Cancelling ctx (or calling Stop) unsubscribes and stops
// all state updates.
func (p *Provider) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	events, unsubscribe := p.stream.Subscribe()

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}

	p.mu.Lock()
	p.stop = stop
	p.mu.Unlock()

	go func() {
		for {
			select {
			case identity, ok := <-events:
				if !ok {
					return
				}
				p.apply(identity)
			case <-ctx.Done():
				stop()
				return
			case <-done:
				return
			}
		}
	}()

	p.restore(ctx, done)
}

// Stop unsubscribes from the identity stream. Idempotent.
func (p *Provider) Stop() {
	p.mu.RLock()
	stop := p.stop
	p.mu.RUnlock()

	if stop != nil {
		stop()
	}
}

// State returns a snapshot of the current auth state.
func (p *Provider) State() AuthState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// CurrentUser returns the current session, or nil when signed out or still
// loading.
func (p *Provider) CurrentUser() *Session {
	return p.State().User
}

// Subscribe registers a state observer. Observers always see the latest
// state; intermediate states may be coalesced for slow readers.
func (p *Provider) Subscribe() (<-chan AuthState, func()) {
	ch := make(chan AuthState, 1)

	p.subMu.Lock()
	p.subs = append(p.subs, ch)
	p.subMu.Unlock()

	return ch, func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		for i, sub := range p.subs {
			if sub == ch {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
}

// Login authenticates against the backend, persists the session, and feeds
// it back through the identity stream.
func (p *Provider) Login(ctx context.Context, payload LoginRequest) (*Session, error) {
	if p.client == nil {
		return nil, ErrNetworkFailure
	}

	result, err := p.client.Login(ctx, payload)
	if err != nil {
		p.logger.Debug("login failed: %v", err)
		return nil, err
	}

	session := SessionFromToken(result.Token)
	if session == nil {
		return nil, ErrMalformedResponse
	}
	if session.Role == "" {
		session.Role = payload.Role
	}

	if p.store != nil {
		p.store.Save(ctx, session)
	}

	p.announce(session)
	return session, nil
}

// Logout clears both the auth state and the credential store. Safe to call
// repeatedly; a second call is a no-op that leaves the same signed-out state.
func (p *Provider) Logout() {
	if p.store != nil {
		p.store.Clear(context.Background())
	}
	p.announce(nil)
}

func (p *Provider) restore(ctx context.Context, done <-chan struct{}) {
	if p.store == nil {
		p.announce(nil)
		return
	}

	stored := p.store.Load(ctx)
	if stored == nil {
		p.announce(nil)
		return
	}

	p.announce(stored)

	if p.verifier == nil {
		return
	}

	// fire-and-forget: rendering proceeds on the restored identity and only
	// degrades if the backend rejects the token
	go func() {
		result := p.verifier.Verify(ctx, stored.Token)

		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		default:
		}

		if result == VerifyInvalid {
			p.logger.Info("restored session rejected, signing out")
			p.announce(nil)
		}
	}()
}

// announce routes the identity through the stream when possible so ordering
// is preserved for every subscriber, and applies it directly otherwise.
func (p *Provider) announce(identity *Session) {
	if p.publisher != nil && p.isStarted() {
		p.publisher.Publish(identity)
		return
	}
	p.apply(identity)
}

func (p *Provider) isStarted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

func (p *Provider) apply(identity *Session) {
	p.mu.Lock()
	p.state = AuthState{User: identity, Loading: false}
	state := p.state
	p.mu.Unlock()

	p.notify(state)
}

func (p *Provider) notify(state AuthState) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- state:
		default:
			// coalesce: replace the stale pending state with the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}
