// Package apiclient is the typed HTTP client the shopper uses to talk to
// the Guia Mercado API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/types"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 4096
	tokenHeader                = "X-GM-Token"
	idempotencyKeyHeader       = "Idempotency-Key"

	idempotentAttempts  = 2
	defaultRetryBackoff = 300 * time.Millisecond
)

var errBaseURLRequired = errors.New("api base url is required")

// Client calls the REST API. The session token, once known, is sent as a
// bearer token on every request.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	retryBackoff time.Duration

	mu    sync.RWMutex
	token string
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

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithToken seeds the session token, e.g. one saved by a previous login.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	client := &Client{
		baseURL:      trimmed,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type call struct {
	method     string
	path       string
	query      url.Values
	body       any
	idempotent bool
}

// do executes the call and decodes the success envelope into out. Error
// envelopes come back as *pkgerrors.Error carrying the server's code, and
// transport failures as CodeDependency.
//
// Idempotent calls carry one Idempotency-Key for all their attempts and are
// sent a second time when the first attempt never got an answer or hit a
// gateway error, so the server replays instead of recording twice.
func (c *Client) do(ctx context.Context, req call, out any) (*http.Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.path, "/")
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var payload []byte
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request")
		}
		payload = encoded
	}

	attempts := 1
	var key string
	if req.idempotent {
		attempts = idempotentAttempts
		key = uuid.NewString()
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if waitErr := sleepCtx(ctx, c.retryBackoff); waitErr != nil {
				return resp, err
			}
		}
		resp, err = c.send(ctx, req.method, target, payload, key, out)
		if !retryable(resp, err) {
			break
		}
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte, key string, out any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if key != "" {
		httpReq.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "api unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}

	envelope := types.SuccessEnvelope{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return resp, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return resp, nil
}

// retryable reports a lost request: no response at all, or a gateway in
// front of the API failing.
func retryable(resp *http.Response, err error) bool {
	if err == nil {
		return false
	}
	if resp == nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || !envelope.Coded() {
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
			"unexpected api response")
	}
	return pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message).
		WithDetails(envelope.Error.Details)
}
