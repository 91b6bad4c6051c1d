// Package rest implements the service.Service interface against the board's REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"

	"taskboard/internal/config"
	"taskboard/internal/fetch"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

var (
	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("backend unavailable")
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	sess    *session.Session
	authed  *http.Client
	plain   *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
}

var _ service.Service = (*Client)(nil)

// New creates a client for cfg's backend. Authenticated calls carry the
// session token as a bearer credential.
func New(cfg *config.Config, sess *session.Session) (*Client, error) {
	return newClient(cfg.BaseURL(), http.DefaultTransport, sess, cfg.RequestTimeout(), cfg.Breaker), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, sess *session.Session) *Client {
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return newClient(baseURL, base, sess, config.DefaultTimeout, config.BreakerSettings{
		MaxFailures: config.DefaultBreakerFailures,
		Cooldown:    config.DefaultBreakerCooldown,
	})
}

func newClient(baseURL string, base http.RoundTripper, sess *session.Session, timeout time.Duration, bs config.BreakerSettings) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sess:    sess,
		authed: &http.Client{Transport: &oauth2.Transport{
			Source: session.TokenSource(sess),
			Base:   base,
		}},
		plain:   &http.Client{Transport: base},
		timeout: timeout,
		breaker: newBreaker(bs),
	}
}

func newBreaker(bs config.BreakerSettings) *gobreaker.CircuitBreaker {
	maxFailures := bs.MaxFailures
	if maxFailures == 0 {
		maxFailures = config.DefaultBreakerFailures
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "board-api",
		MaxRequests: 1,
		Timeout:     bs.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// 4xx responses and a missing session do not count as failures.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, session.ErrNoToken) {
				return true
			}
			code := fetch.StatusCode(err)
			return code >= 400 && code < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}

func (c *Client) url(format string, args ...interface{}) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}

// do sends an authenticated request and returns the raw body.
func (c *Client) do(ctx context.Context, req fetch.Request) ([]byte, error) {
	// No token means no network call.
	if err := c.sess.Require(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return fetch.Send(ctx, c.authed, req)
	})
	if err != nil {
		logging.Logger.WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL,
		}).WithError(err).Debug("request failed")
		return nil, wrapError(err)
	}
	logging.Logger.WithFields(logrus.Fields{"method": req.Method, "url": req.URL}).Debug("request ok")
	return out.([]byte), nil
}

// get fetches an envelope with status 200 into dst.
func (c *Client) get(ctx context.Context, url string, dst interface{}) error {
	body, err := c.do(ctx, fetch.Request{Method: http.MethodGet, URL: url})
	if err != nil {
		return err
	}
	return wrapError(fetch.DecodeEnvelope(body, http.StatusOK, dst))
}

// send writes v as JSON and decodes the envelope (expecting want) into dst.
func (c *Client) send(ctx context.Context, method, url string, v interface{}, want int, dst interface{}) error {
	req, err := fetch.JSON(method, url, v)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	return wrapError(fetch.DecodeEnvelope(body, want, dst))
}

// acknowledge sends a body-less write whose response may be empty or an
// envelope with any success status.
func (c *Client) acknowledge(ctx context.Context, method, url string) error {
	body, err := c.do(ctx, fetch.Request{Method: method, URL: url})
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var env struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	switch env.Status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	}
	return wrapError(&fetch.EnvelopeError{Want: http.StatusOK, Got: env.Status})
}

// wrapError maps transport and status failures to user-facing errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, session.ErrNoToken):
		return session.ErrNoToken
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("request blocked: %w", ErrUnavailable)
	}

	switch fetch.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (run: taskboard login)", service.ErrUnauthorized)
	case http.StatusNotFound:
		return service.ErrNotFound
	}
	return err
}
