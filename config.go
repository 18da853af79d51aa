package session

import "strings"

// Route targets the guard redirects to, and the guarded dashboard prefix.
const (
	DefaultLoginRoute        = "/login"
	DefaultUnauthorizedRoute = "/unauthorized"
	DefaultVerifyEmailRoute  = "/verify-email"
	DefaultDashboardPrefix   = "/dashboard"
)

// Backend endpoint paths.
const (
	DefaultLoginPath       = "/auth/login"
	DefaultRegisterPath    = "/auth/register"
	DefaultVerifyTokenPath = "/auth/verify-token"
	DefaultIssuesPath      = "/issues"
)

var _ Config = &SimpleConfig{}

// SimpleConfig is a plain value implementation of Config. Zero fields fall
// back to the defaults above, so the empty value is usable against a
// same-origin backend.
type SimpleConfig struct {
	BaseURL           string
	LoginPath         string
	RegisterPath      string
	VerifyTokenPath   string
	IssuesPath        string
	LoginRoute        string
	UnauthorizedRoute string
	VerifyEmailRoute  string
	DashboardPrefix   string
	StoreScope        string
}

func (c *SimpleConfig) GetBaseURL() string {
	return strings.TrimSuffix(c.BaseURL, "/")
}

func (c *SimpleConfig) GetLoginPath() string {
	return orDefault(c.LoginPath, DefaultLoginPath)
}

func (c *SimpleConfig) GetRegisterPath() string {
	return orDefault(c.RegisterPath, DefaultRegisterPath)
}

func (c *SimpleConfig) GetVerifyTokenPath() string {
	return orDefault(c.VerifyTokenPath, DefaultVerifyTokenPath)
}

func (c *SimpleConfig) GetIssuesPath() string {
	return orDefault(c.IssuesPath, DefaultIssuesPath)
}

func (c *SimpleConfig) GetLoginRoute() string {
	return orDefault(c.LoginRoute, DefaultLoginRoute)
}

func (c *SimpleConfig) GetUnauthorizedRoute() string {
	return orDefault(c.UnauthorizedRoute, DefaultUnauthorizedRoute)
}

func (c *SimpleConfig) GetVerifyEmailRoute() string {
	return orDefault(c.VerifyEmailRoute, DefaultVerifyEmailRoute)
}

func (c *SimpleConfig) GetDashboardPrefix() string {
	return orDefault(c.DashboardPrefix, DefaultDashboardPrefix)
}

func (c *SimpleConfig) GetStoreScope() string {
	return orDefault(c.StoreScope, "default")
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
