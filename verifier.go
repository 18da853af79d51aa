package session

import (
	"context"
	"net/http"
	"time"
)

// VerificationCache stores positive verification results so repeated guard
// evaluations do not hammer the backend. Invalid results are never cached.
type VerificationCache interface {
	IsValid(ctx context.Context, token string) bool
	MarkValid(ctx context.Context, token string)
}

var _ TokenVerifier = &HTTPVerifier{}

// HTTPVerifier validates a stored token against the backend verify-token
// endpoint. Any 2xx response is Valid; any other status, transport failure,
// or timeout is Invalid and clears the credential store. It never returns an
// error: a failed verification silently degrades to unauthenticated.
type HTTPVerifier struct {
	config Config
	store  CredentialStore
	client *http.Client
	cache  VerificationCache
	logger Logger
}

// VerifierOption customizes verifier construction.
type VerifierOption func(*HTTPVerifier)

// WithVerifierHTTPClient overrides the HTTP client, including its timeout.
func WithVerifierHTTPClient(client *http.Client) VerifierOption {
	return func(v *HTTPVerifier) {
		if client != nil {
			v.client = client
		}
	}
}

// WithVerifierCache enables positive-result caching.
func WithVerifierCache(cache VerificationCache) VerifierOption {
	return func(v *HTTPVerifier) {
		v.cache = cache
	}
}

// WithVerifierLogger overrides the logger.
func WithVerifierLogger(logger Logger) VerifierOption {
	return func(v *HTTPVerifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewHTTPVerifier returns a verifier bound to cfg's verify-token endpoint.
// store may be nil when the caller manages credentials itself.
func NewHTTPVerifier(cfg Config, store CredentialStore, opts ...VerifierOption) *HTTPVerifier {
	v := &HTTPVerifier{
		config: cfg,
		store:  store,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	return v
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) VerifyResult {
	if token == "" {
		return VerifyInvalid
	}

	if v.cache != nil && v.cache.IsValid(ctx, token) {
		return VerifyValid
	}

	url := v.config.GetBaseURL() + v.config.GetVerifyTokenPath()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		v.logger.Error("verify request build failed: %v", err)
		return v.invalidate(ctx)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("token verification failed: %v", err)
		return v.invalidate(ctx)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		v.logger.Debug("token rejected with status %d", res.StatusCode)
		return v.invalidate(ctx)
	}

	if v.cache != nil {
		v.cache.MarkValid(ctx, token)
	}

	return VerifyValid
}

func (v *HTTPVerifier) invalidate(ctx context.Context) VerifyResult {
	if v.store != nil {
		v.store.Clear(ctx)
	}
	return VerifyInvalid
}
