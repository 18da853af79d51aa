package session

import (
	"sync"
	"time"
)

// IdleState is the session timeout monitor's state
type IdleState string

const (
	// IdleActive means recent interaction was observed
	IdleActive IdleState = "active"
	// IdleWarningPending means the warn threshold elapsed without interaction
	IdleWarningPending IdleState = "warning_pending"
	// IdleExpired means the session timed out and the expiry hook ran
	IdleExpired IdleState = "expired"
)

// IdleOption customizes monitor construction.
type IdleOption func(*IdleMonitor)

// WithIdleWarningHook runs when the monitor enters WarningPending.
func WithIdleWarningHook(h func()) IdleOption {
	return func(m *IdleMonitor) {
		if h != nil {
			m.onWarning = h
		}
	}
}

// WithIdleExpireHook runs exactly once per activation when the monitor
// expires. This is where callers sign the user out.
func WithIdleExpireHook(h func()) IdleOption {
	return func(m *IdleMonitor) {
		if h != nil {
			m.onExpire = h
		}
	}
}

// WithIdleLogger overrides the logger.
func WithIdleLogger(logger Logger) IdleOption {
	return func(m *IdleMonitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// IdleMonitor signs the user out after a period of inactivity. After
// warnAfter without interaction it surfaces a warning; after a further
// expireAfter without interaction it expires and runs the expiry hook.
// Interact resets it to Active from either non-terminal state. Stop cancels
// all pending timers so no hook fires after the owner is gone.
type IdleMonitor struct {
	warnAfter   time.Duration
	expireAfter time.Duration
	onWarning   func()
	onExpire    func()
	logger      Logger

	mu          sync.Mutex
	state       IdleState
	transitions map[IdleState]map[IdleState]struct{}
	warnTimer   *time.Timer
	expireTimer *time.Timer
	generation  uint64
	running     bool
}

// NewIdleMonitor builds a stopped monitor; call Start to arm it.
func NewIdleMonitor(warnAfter, expireAfter time.Duration, opts ...IdleOption) *IdleMonitor {
	m := &IdleMonitor{
		warnAfter:   warnAfter,
		expireAfter: expireAfter,
		onWarning:   func() {},
		onExpire:    func() {},
		logger:      defLogger{},
		state:       IdleActive,
		transitions: map[IdleState]map[IdleState]struct{}{
			IdleActive: {
				IdleActive:         {},
				IdleWarningPending: {},
			},
			IdleWarningPending: {
				IdleActive:  {},
				IdleExpired: {},
			},
			IdleExpired: {
				IdleActive: {},
			},
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Start arms the monitor in the Active state. Restartable after Stop or
// expiry (e.g. after re-login).
func (m *IdleMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = true
	m.resetLocked()
}

// Interact records genuine user activity and returns the monitor to Active.
// Ignored once expired or stopped; network activity must not call this.
func (m *IdleMonitor) Interact() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || m.state == IdleExpired {
		return
	}

	m.resetLocked()
}

// State returns the current monitor state.
func (m *IdleMonitor) State() IdleState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stop cancels all pending timers. No hook fires after Stop returns a
// consistent state; safe to call repeatedly.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	m.generation++
	m.cancelTimersLocked()
}

func (m *IdleMonitor) resetLocked() {
	m.generation++
	m.cancelTimersLocked()
	m.state = IdleActive

	gen := m.generation
	m.warnTimer = time.AfterFunc(m.warnAfter, func() { m.warn(gen) })
}

func (m *IdleMonitor) cancelTimersLocked() {
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.expireTimer != nil {
		m.expireTimer.Stop()
		m.expireTimer = nil
	}
}

func (m *IdleMonitor) warn(gen uint64) {
	m.mu.Lock()
	if !m.running || gen != m.generation || !m.canTransitionLocked(m.state, IdleWarningPending) {
		m.mu.Unlock()
		return
	}

	m.state = IdleWarningPending
	m.expireTimer = time.AfterFunc(m.expireAfter, func() { m.expire(gen) })
	onWarning := m.onWarning
	m.mu.Unlock()

	m.logger.Debug("idle monitor entered warning state")
	onWarning()
}

func (m *IdleMonitor) expire(gen uint64) {
	m.mu.Lock()
	if !m.running || gen != m.generation || !m.canTransitionLocked(m.state, IdleExpired) {
		m.mu.Unlock()
		return
	}

	m.state = IdleExpired
	m.cancelTimersLocked()
	onExpire := m.onExpire
	m.mu.Unlock()

	m.logger.Info("idle session expired, signing out")
	onExpire()
}

func (m *IdleMonitor) canTransitionLocked(from, to IdleState) bool {
	if allowed, ok := m.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}
