// Package api provides a client for the conversational runtime service. Each
// operation takes a request entity from package lexruntime, sends it in the
// operation's wire form and decodes the matching result entity.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tansive/lexruntime/internal/common/apperrors"
	"github.com/tansive/lexruntime/internal/common/httpclient"
	"github.com/tansive/lexruntime/internal/common/logtrace"
	"github.com/tansive/lexruntime/internal/common/uuid"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tansive/lexruntime/pkg/sessionstore"
)

var ErrInvalidConfig = apperrors.New("invalid client configuration").SetStatusCode(http.StatusBadRequest)

// Client sends runtime operations to a configured endpoint.
type Client struct {
	transport httpclient.Doer
	config    clientConfig
}

// ClientOption is a function type for configuring client behavior.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	transport  httpclient.Doer
	timeout    time.Duration
	insecure   bool
	maxRetries int
	retryDelay time.Duration
	signer     httpclient.Signer
	validate   bool
	logger     zerolog.Logger
	store      sessionstore.Store
}

// WithHTTPClient sets the http.Client used to reach the endpoint.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithInsecureSkipVerify disables TLS certificate validation of the endpoint.
// It has no effect together with WithHTTPClient.
func WithInsecureSkipVerify(insecure bool) ClientOption {
	return func(c *clientConfig) {
		c.insecure = insecure
	}
}

// WithTransport replaces the HTTP transport entirely, e.g. with an
// httpclient.TestHTTPClient.
func WithTransport(transport httpclient.Doer) ClientOption {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithTimeout bounds each request, including reading a returned audio stream.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets how many times a throttled or failed request is retried.
// Requests with a streamed body are never retried.
func WithMaxRetries(maxRetries int) ClientOption {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// WithRetryDelay sets the initial delay between retries. It doubles with each
// attempt.
func WithRetryDelay(delay time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.retryDelay = delay
	}
}

// WithSigner signs every request with signer instead of the Configurator's key.
func WithSigner(signer httpclient.Signer) ClientOption {
	return func(c *clientConfig) {
		c.signer = signer
	}
}

// WithRequestValidation makes every operation validate its request before
// sending it. Validation is off by default and the service has the last word.
func WithRequestValidation(enabled bool) ClientOption {
	return func(c *clientConfig) {
		c.validate = enabled
	}
}

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithSessionStore records the session view of every successful result in
// store and drops it when the session is deleted.
func WithSessionStore(store sessionstore.Store) ClientOption {
	return func(c *clientConfig) {
		c.store = store
	}
}

// NewClient creates a client for the endpoint described by config.
func NewClient(config httpclient.Configurator, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{
		maxRetries: 3,
		retryDelay: 100 * time.Millisecond,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxRetries < 0 {
		return nil, ErrInvalidConfig.Msg("max retries must not be negative")
	}

	transport := cfg.transport
	if transport == nil {
		if config == nil || config.GetServerURL() == "" {
			return nil, ErrInvalidConfig.Msg("endpoint is required")
		}
		transport = httpclient.NewClient(config, httpclient.ClientOptions{
			HTTPClient:            cfg.httpClient,
			Timeout:               cfg.timeout,
			Signer:                cfg.signer,
			DisableCertValidation: cfg.insecure,
		})
	}
	return &Client{
		transport: transport,
		config:    cfg,
	}, nil
}

// Close releases the session store, if one is configured.
func (c *Client) Close() error {
	if c.config.store != nil {
		return c.config.store.Close()
	}
	return nil
}

type operationRequest interface {
	WireRequest() (*lexruntime.WireRequest, error)
	Validate() error
}

type operationResult interface {
	ReadWire(resp *lexruntime.WireResponse) error
}

// invoke sends req and decodes the response into res. Throttling and server
// errors are retried with exponential backoff unless the body is a stream.
func (c *Client) invoke(ctx context.Context, req operationRequest, res operationResult) error {
	if c.config.validate {
		if err := req.Validate(); err != nil {
			return err
		}
	}
	wr, err := req.WireRequest()
	if err != nil {
		return err
	}

	if logtrace.RequestIDFromContext(ctx) == "" {
		ctx = logtrace.WithRequestID(ctx, uuid.NewRequestID())
	}
	logger := logtrace.Ctx(ctx, c.config.logger).With().Str("op", wr.Operation).Logger()

	opts := httpclient.RequestOptions{
		Method: wr.Method,
		Path:   wr.Path,
		Query:  wr.Query,
		Header: wr.Header,
		Body:   wr.Body,
	}
	attempts := uint(c.config.maxRetries) + 1
	if wr.Stream != nil {
		attempts = 1
	}

	attempt := 0
	resp, err := retry.DoWithData(func() (*httpclient.Response, error) {
		attempt++
		logger.Debug().Int("attempt", attempt).Str("method", wr.Method).Str("path", wr.Path).Msg("sending request")
		o := opts
		if wr.Stream != nil {
			body, err := wr.Stream.Take()
			if err != nil {
				return nil, err
			}
			defer body.Close()
			o.BodyStream = body
		}
		return c.transport.Do(ctx, o)
	},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.config.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn().Err(err).Uint("attempt", n+1).Msg("retrying request")
		}),
	)
	if err != nil {
		ev := logger.Error().Err(err).Int("attempt", attempt)
		var herr *httpclient.HTTPError
		if errors.As(err, &herr) {
			ev = ev.Int("status", herr.StatusCode).Str("error_type", herr.Type)
		}
		ev.Msg("request failed")
		return err
	}
	logger.Debug().Int("status", resp.StatusCode).Msg("request succeeded")

	return res.ReadWire(&lexruntime.WireResponse{
		Header:        resp.Header,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	})
}

func retryable(err error) bool {
	var herr *httpclient.HTTPError
	return errors.As(err, &herr) && herr.Retryable()
}

// record stores the session view of a result. Store failures are logged and
// never fail the operation.
func (c *Client) record(ctx context.Context, snap func() (*sessionstore.Snapshot, error)) {
	if c.config.store == nil {
		return
	}
	logger := logtrace.Ctx(ctx, c.config.logger)
	s, err := snap()
	if err != nil {
		logger.Warn().Err(err).Msg("unable to build session snapshot")
		return
	}
	changed, err := c.config.store.Put(ctx, s)
	if err != nil {
		logger.Warn().Err(err).Str("session", s.Key.String()).Msg("unable to store session snapshot")
		return
	}
	logger.Debug().Str("session", s.Key.String()).Bool("changed", changed).Msg("session snapshot stored")
}
