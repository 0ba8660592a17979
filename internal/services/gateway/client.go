package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

const (
	identityMediaType = "application/vnd.ni-identity.v1+json"
	paymentMediaType  = "application/vnd.ni-payment.v2+json"

	maxErrorBody = 512
)

// Variant selects how settlement calls authenticate. The standard gateway
// takes a bearer token; the paypage host takes Access-Token/Payment-Token.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantPayPage  Variant = "paypage"
)

type Config struct {
	APIKey        string
	Realm         string
	OutletID      string
	IdentityURL   string
	GatewayURL    string
	PayPageAPIURL string
	Currency      string
	HierarchyRef  string
	MerchantName  string
	Variant       Variant
	Timeout       time.Duration
}

// Client talks to the N-Genius identity, transaction and paypage APIs. It
// never retries; retry policy belongs to the caller.
type Client struct {
	cfg    Config
	client *http.Client
	device DeviceInfoSource
	logger zerolog.Logger
}

// DeviceInfoSource supplies the device metadata attached to every gateway
// request. Implementations are expected to memoize the lookup.
type DeviceInfoSource interface {
	DeviceInfo() (models.DeviceInfo, error)
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Variant == "" {
		cfg.Variant = VariantStandard
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

func (c *Client) WithDeviceInfo(src DeviceInfoSource) *Client {
	c.device = src
	return c
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) Config() Config {
	return c.cfg
}

type request struct {
	op      string
	method  string
	url     string
	body    any
	headers map[string]string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", r.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	c.setDeviceHeaders(req)

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", r.op).Str("request_id", requestID).Msg("gateway request failed")
		return fmt.Errorf("%w: %s: %w", ErrTransport, r.op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("op", r.op).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("gateway request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: r.op, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(excerpt))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %s: failed to decode response: %w", ErrGateway, r.op, err)
	}
	return nil
}

func (c *Client) setDeviceHeaders(req *http.Request) {
	if c.device == nil {
		return
	}
	info, err := c.device.DeviceInfo()
	if err != nil {
		c.logger.Debug().Err(err).Msg("device info unavailable, sending request without it")
		return
	}
	headers := map[string]string{
		"X-Device-Id":       info.DeviceID,
		"X-Device-Platform": string(info.Platform),
		"X-Device-Model":    info.Model,
		"X-Os-Version":      info.OSVersion,
		"X-Sdk-Version":     info.SDKVersion,
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
}

func bearer(token string) string {
	return "Bearer " + token
}
