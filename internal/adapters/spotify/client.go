// Package spotify implements the catalog ports against the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
)

const (
	DefaultBaseURL    = "https://api.spotify.com/v1"
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond
	maxRetryWait      = 10 * time.Second
)

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	// RequestsPerSecond and Burst shape outgoing traffic across all sessions.
	// A non-positive rate disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Connector opens per-token Spotify sessions that share one rate limiter.
type Connector struct {
	opts    Options
	limiter *rate.Limiter
}

var _ ports.CatalogConnector = (*Connector)(nil)

func NewConnector(opts Options) *Connector {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultBackoff
	}
	c := &Connector{opts: opts}
	if opts.RequestsPerSecond > 0 {
		burst := max(opts.Burst, 1)
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// Connect returns a catalog session authenticated with accessToken.
func (c *Connector) Connect(accessToken string) ports.Catalog {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.Background(), src)

	rc := resty.NewWithClient(httpClient).
		SetBaseURL(c.opts.BaseURL).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetLogger(restyLogger{}).
		SetRetryCount(c.opts.MaxRetries).
		SetRetryWaitTime(c.opts.RetryBackoff).
		SetRetryMaxWaitTime(maxRetryWait).
		SetRetryAfter(retryAfter).
		AddRetryCondition(shouldRetry).
		AddRetryHook(logRetry)
	if c.opts.Timeout > 0 {
		rc.SetTimeout(c.opts.Timeout)
	}
	if c.limiter != nil {
		limiter := c.limiter
		rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return limiter.Wait(r.Context())
		})
	}
	return &Client{http: rc}
}

// Client is one caller's Spotify session.
type Client struct {
	http *resty.Client
}

var _ ports.Catalog = (*Client)(nil)

// checkResponse maps transport failures and non-2xx statuses to errors.
// HTTP 401 wraps ports.ErrUnauthorized.
func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("spotify adapter: %s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	msg := ""
	if e, ok := resp.Error().(*errorResponse); ok && e != nil {
		msg = e.Error.Message
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return fmt.Errorf("spotify adapter: %s: %w: %s", op, ports.ErrUnauthorized, msg)
	}
	if msg != "" {
		return fmt.Errorf("spotify adapter: %s: status %d: %s", op, resp.StatusCode(), msg)
	}
	return fmt.Errorf("spotify adapter: %s: status %d", op, resp.StatusCode())
}

// restyLogger routes resty's internal logging through zerolog.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logging.Error().Str("component", "spotify").Msgf(format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn().Str("component", "spotify").Msgf(format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug().Str("component", "spotify").Msgf(format, v...)
}
