// Package client implements the engine's backend over the HTTP JSON API.
// It builds for native targets and for js/wasm, where net/http rides on
// the browser's fetch.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/model"
)

// ErrBackend reports a non-2xx response or an error payload.
var ErrBackend = errors.New("backend error")

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
	defaultTimeout  = 15 * time.Second
)

// Client talks to an orrery API server.
type Client struct {
	base *url.URL
	http *http.Client
	log  logging.Logger
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New constructs a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := &Client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
		log:  logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Positions fetches the position snapshot for date.
func (c *Client) Positions(ctx context.Context, date string) (model.PositionSnapshot, error) {
	var snap model.PositionSnapshot
	err := c.get(ctx, "/api/positions", url.Values{"date": {date}}, &snap)
	return snap, err
}

// PlanetInfo fetches the descriptive record of body on date.
func (c *Client) PlanetInfo(ctx context.Context, body model.BodyID, date string) (model.PlanetInfo, error) {
	var info model.PlanetInfo
	err := c.get(ctx, "/api/planet-info", url.Values{"planet": {string(body)}, "date": {date}}, &info)
	return info, err
}

// SpaceWeather fetches the solar forecast for date.
func (c *Client) SpaceWeather(ctx context.Context, date string) (model.SpaceWeather, error) {
	var sw model.SpaceWeather
	err := c.get(ctx, "/api/space-weather", url.Values{"date": {date}}, &sw)
	return sw, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	ctx, reqID := logging.EnsureRequestID(ctx)
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var probe struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &probe)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := probe.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.Debug(ctx, "backend rejected request",
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
			logging.String("request_id", reqID))
		return fmt.Errorf("%w: %s: %s (%d)", ErrBackend, path, msg, resp.StatusCode)
	}
	if probe.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrBackend, path, probe.Error)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
