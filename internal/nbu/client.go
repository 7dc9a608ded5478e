// Package nbu talks to the National Bank of Ukraine open data API: it builds
// requests, sends them, and validates the returned exchange rates.
package nbu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://bank.gov.ua"

	defaultTimeout = 30 * time.Second
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// Client sends requests to the API and decodes JSON responses.
// Every failure is returned to the caller; nothing is swallowed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logrus.FieldLogger
}

// NewClient creates a Client. A zero RequestsPerSecond disables rate limiting.
func NewClient(cfg ClientConfig, logger logrus.FieldLogger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger.WithField("component", "nbu-client"),
	}
}

// URL returns the full request URL including the encoded payload.
func (c *Client) URL(req Request) string {
	return c.baseURL + "/" + strings.TrimLeft(req.Path(), "/") + "?" + req.Payload().Encode()
}

// Send performs the request and returns the decoded JSON body. Numbers are
// decoded as json.Number. Errors are *HTTPError, *DecodeError,
// *EmptyResponseError, or a wrapped transport error.
func (c *Client) Send(ctx context.Context, req Request) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nbu: rate limiter: %w", err)
	}

	url := c.URL(req)
	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), url, nil)
	if err != nil {
		return nil, fmt.Errorf("nbu: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Error("Request failed")
		return nil, fmt.Errorf("nbu: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nbu: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WithFields(logrus.Fields{
			"url":    url,
			"status": resp.StatusCode,
			"body":   truncate(body),
		}).Error("HTTP error")
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}

	data, err := decodeJSON(body)
	if err != nil {
		decodeErr := &DecodeError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        truncate(body),
			Err:         err,
		}
		c.logger.WithFields(logrus.Fields{
			"url":          url,
			"status":       decodeErr.StatusCode,
			"content_type": decodeErr.ContentType,
			"body":         decodeErr.Body,
		}).Error("Response is not JSON")
		return nil, decodeErr
	}

	if isEmpty(data) {
		c.logger.WithField("url", url).Error("Empty response data")
		return nil, &EmptyResponseError{URL: url}
	}

	return data, nil
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return data, nil
}

// isEmpty reports whether a decoded value carries no data.
func isEmpty(v any) bool {
	switch d := v.(type) {
	case nil:
		return true
	case []any:
		return len(d) == 0
	case map[string]any:
		return len(d) == 0
	case string:
		return d == ""
	case bool:
		return !d
	case json.Number:
		f, err := d.Float64()
		return err == nil && f == 0
	}
	return false
}
