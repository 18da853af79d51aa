// Package fiberguard applies the session route guard to fiber routes. It
// interprets the guard's decision: Wait renders a retryable loading response,
// a redirect becomes an HTTP redirect carrying the originally requested path,
// and Allow falls through to the handler.
package fiberguard

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	session "github.com/civicfix/go-session"
)

// StateFunc yields the auth state for the current request.
type StateFunc func(c *fiber.Ctx) session.AuthState

// Config holds guard middleware options.
type Config struct {
	// Guard decides; required.
	Guard *session.RouteGuard
	// State yields the current auth state; required.
	State StateFunc
	// RequiredRole restricts the route to one role. Empty means any
	// authenticated user.
	RequiredRole session.UserRole
	// Filter skips the guard when it returns true.
	Filter func(c *fiber.Ctx) bool
	// WaitHandler renders the loading state. Defaults to 503 with a
	// Retry-After hint so clients re-evaluate instead of redirecting.
	WaitHandler fiber.Handler
	// FromQueryParam carries the originally requested path on login
	// redirects. Defaults to "from".
	FromQueryParam string
}

func defaultWaitHandler(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	return c.Status(http.StatusServiceUnavailable).SendString("Verifying authentication...")
}

// New builds the guard middleware.
func New(cfg Config) fiber.Handler {
	if cfg.WaitHandler == nil {
		cfg.WaitHandler = defaultWaitHandler
	}
	if cfg.FromQueryParam == "" {
		cfg.FromQueryParam = "from"
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		decision := cfg.Guard.Decide(cfg.State(c), c.Path(), cfg.RequiredRole)

		switch decision.Kind {
		case session.DecisionWait:
			return cfg.WaitHandler(c)
		case session.DecisionRedirect:
			target := decision.Target
			if decision.From != "" {
				target += "?" + cfg.FromQueryParam + "=" + url.QueryEscape(decision.From)
			}

			status := http.StatusSeeOther
			if c.Method() == fiber.MethodGet {
				status = http.StatusFound
			}
			return c.Redirect(target, status)
		default:
			return c.Next()
		}
	}
}
