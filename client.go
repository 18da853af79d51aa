package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

var _ AuthClient = &Client{}

// Client talks to the CivicFix backend auth endpoints. Every failure comes
// back as a categorized error the caller converts to user-facing state;
// nothing escapes as a panic or an uncategorized error.
type Client struct {
	config Config
	client *http.Client
	logger Logger
	debug  bool
}

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithClientHTTPClient overrides the HTTP client, including its timeout.
func WithClientHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithClientLogger overrides the logger.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClientDebug dumps request payloads to the debug log.
func WithClientDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Login posts the credentials and returns the issued token. A non-2xx
// response surfaces the backend's message field when the body is JSON and a
// generic authentication failure otherwise.
func (c *Client) Login(ctx context.Context, payload LoginRequest) (*LoginResult, error) {
	if c.debug {
		c.logger.Debug("login payload: %s", print.MaybePrettyJSON(payload))
	}

	res, err := c.postJSON(ctx, c.config.GetLoginPath(), payload)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		message := ErrAuthenticationFailed.Message
		errBody := struct {
			Message string `json:"message"`
		}{}
		if jsonErr := json.Unmarshal(body, &errBody); jsonErr == nil && errBody.Message != "" {
			message = errBody.Message
		}

		return nil, goerrors.New(message, goerrors.CategoryAuth).
			WithTextCode(ErrAuthenticationFailed.TextCode).
			WithCode(goerrors.CodeUnauthorized).
			WithMetadata(map[string]any{"status": res.StatusCode})
	}

	result := &LoginResult{}
	if err := json.Unmarshal(body, result); err != nil || result.Token == "" {
		c.logger.Debug("login response not usable: %v", err)
		return nil, ErrMalformedResponse
	}

	return result, nil
}

// Register posts the full signup payload; any 2xx is success.
func (c *Client) Register(ctx context.Context, payload SignupRequest) error {
	if c.debug {
		c.logger.Debug("register payload: %s", print.MaybePrettyJSON(payload))
	}

	res, err := c.postJSON(ctx, c.config.GetRegisterPath(), payload)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return goerrors.New(ErrRegistrationFailed.Message, goerrors.CategoryAuth).
			WithTextCode(ErrRegistrationFailed.TextCode).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"status": res.StatusCode})
	}

	return nil
}

// VerifyToken checks the token against the verify-token endpoint. Callers
// treat any error as an invalid session.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	url := c.config.GetBaseURL() + c.config.GetVerifyTokenPath()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.client.Do(req)
	if err != nil {
		return goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return ErrTokenInvalid
	}

	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not encode payload")
	}

	url := c.config.GetBaseURL() + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}

	return res, nil
}
