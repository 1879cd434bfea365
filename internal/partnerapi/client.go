package partnerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
	"github.com/velomax/partner-client/pkg/logger"
	"github.com/velomax/partner-client/pkg/metrics"
	"github.com/velomax/partner-client/pkg/retry"
	"github.com/velomax/partner-client/pkg/session"
)

// Endpoint paths, relative to the configured base URL.
const (
	pathLogin          = "/auth/partner/login"
	pathRegister       = "/auth/partner/register"
	pathLogout         = "/auth/partner/logout"
	pathProfile        = "/delivery/profile"
	pathBankDetails    = "/delivery/profile/bank-details"
	pathAvailability   = "/delivery/availability"
	pathDashboard      = "/delivery/dashboard"
	pathEarnings       = "/delivery/earnings"
	pathOrders         = "/delivery/orders"
	pathUploadDocument = "/upload/documents"
	pathUploadAvatar   = "/upload/avatar"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultUploadTimeout = 2 * time.Minute
)

// Client talks to the partner REST API. Every facade method builds the
// request envelope, optionally retries, normalizes the response, and performs
// the session side effects the operation requires. Methods return (value,
// error); the error, when non-nil, is always a *pkgerrors.Error.
type Client struct {
	httpClient   *http.Client
	uploadClient *http.Client
	baseURL      string
	session      *session.Session
	logg         *logger.Logger
	metrics      *metrics.APIMetrics
	retryPolicy  retry.Policy

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUploadHTTPClient overrides the client used for multipart uploads.
func WithUploadHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.uploadClient = client
		}
	}
}

// WithRetryPolicy overrides the retry attempt cap and backoff base.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Client) {
		c.retryPolicy = policy.Normalize()
	}
}

// WithMetrics attaches a prometheus collector for per-operation outcomes.
func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger attaches the structured logger.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// New builds a client for the given base URL and session. The session is
// required: it supplies the bearer token and receives login/logout side
// effects.
func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}

	client := &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		uploadClient: &http.Client{Timeout: defaultUploadTimeout},
		baseURL:      trimmed,
		session:      sess,
		retryPolicy:  retry.Policy{}.Normalize(),
		inflight:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Session exposes the injected session for callers that need auth state.
func (c *Client) Session() *session.Session {
	return c.session
}

type call struct {
	op     string
	method string
	path   string
	query  string
	body   any
	authed bool
	// retryable marks calls safe to re-send: reads and idempotent state sets.
	retryable bool
}

// do runs one API call end to end and returns the normalized envelope.
func (c *Client) do(ctx context.Context, call call) (*envelope, error) {
	if c.logg != nil {
		ctx = c.logg.WithOperation(ctx, call.op)
	}

	if call.authed && c.session.Token(ctx) == "" {
		return nil, pkgerrors.New(pkgerrors.KindUnauthorized, "no active session")
	}

	policy := c.retryPolicy
	if !call.retryable {
		policy.MaxAttempts = 1
	}

	start := time.Now()
	attempts := 0
	var env *envelope
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			c.metrics.IncRetry(call.op)
			if c.logg != nil {
				c.logg.Warn(ctx, fmt.Sprintf("retrying %s (attempt %d)", call.op, attempts))
			}
		}
		var attemptErr error
		env, attemptErr = c.attempt(ctx, call)
		return attemptErr
	})
	c.observe(ctx, call.op, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// attempt performs a single request/response cycle.
func (c *Client) attempt(ctx context.Context, call call) (*envelope, error) {
	req, err := c.newRequest(ctx, call)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.KindNetwork, err, call.op+" request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	return c.normalize(ctx, call.op, resp)
}

// newRequest assembles the envelope: URL, JSON body, content type, bearer
// token when present, and a request ID for correlation.
func (c *Client) newRequest(ctx context.Context, call call) (*http.Request, error) {
	var body *bytes.Reader
	if call.body != nil {
		payload, err := json.Marshal(call.body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.KindInternal, err, "marshal "+call.op+" request")
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	url := c.buildURL(call.path)
	if call.query != "" {
		url += "?" + call.query
	}

	req, err := http.NewRequestWithContext(ctx, call.method, url, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.KindInternal, err, "build "+call.op+" request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.session.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) observe(ctx context.Context, op string, elapsed time.Duration, err error) {
	c.metrics.ObserveDuration(op, elapsed)
	if err == nil {
		c.metrics.IncSuccess(op)
		if c.logg != nil {
			c.logg.Debug(ctx, op+" succeeded")
		}
		return
	}
	kind := string(pkgerrors.As(err).Kind())
	c.metrics.IncFailure(op, kind)
	if c.logg != nil {
		c.logg.Error(ctx, op+" failed", err)
	}
}

// beginExclusive registers a mutating operation as in flight. The second
// return is false when an identical operation is already running, which
// guards against duplicate side effects from rapid repeated triggers.
func (c *Client) beginExclusive(key string) (func(), bool) {
	c.inflightMu.Lock()
	defer c.inflightMu.Unlock()
	if _, exists := c.inflight[key]; exists {
		return nil, false
	}
	c.inflight[key] = struct{}{}
	return func() {
		c.inflightMu.Lock()
		delete(c.inflight, key)
		c.inflightMu.Unlock()
	}, true
}

func errDuplicateInFlight(op string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.KindConflict, op+" already in progress")
}
