// Package session implements the client-side session lifecycle for the
// CivicFix issue-reporting service: credential persistence, token
// verification, process-wide auth state, route guarding, idle timeout, and
// form validation.
//
// Auth state:
//   - Provider owns a single AuthState and mirrors an ordered IdentityStream
//     (sign-in, sign-out, session-restore events). Loading stays true until
//     the stream's first event so callers never flash an unauthenticated view
//     at startup. Readers observe updates through Subscribe channels.
//
// Route guarding:
//   - RouteGuard.Decide is a pure function from (state, route, required role)
//     to a tagged decision: wait, allow, or redirect. Rendering interprets
//     the decision; the middleware subpackages do this for fiber and net/http.
//
// Credentials:
//   - CredentialStore persists the token and role label across restarts and
//     fails silently: a broken store degrades to signed out, it never errors.
//     BunCredentialStore is the durable sqlite-backed implementation.
//
// Idle timeout:
//   - IdleMonitor is an explicit state machine (Active, WarningPending,
//     Expired) over cancellable timers. Stopping the monitor guarantees no
//     sign-out fires after its owner is gone.
package session
