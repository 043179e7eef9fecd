package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultMaxBytes  = 32 << 20
	defaultUserAgent = "mortality-atlas/1.0 (+weekly deaths dashboard)"
)

// Fetcher downloads a resource and returns its body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Settings struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// Client is a single-attempt HTTP fetcher. Every failure is a *domain.FetchError.
type Client struct {
	http     *http.Client
	settings Settings
}

func NewClient(settings Settings) *Client {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if settings.MaxBytes <= 0 {
		settings.MaxBytes = DefaultMaxBytes
	}
	if settings.UserAgent == "" {
		settings.UserAgent = defaultUserAgent
	}
	return &Client{
		http:     &http.Client{Timeout: settings.Timeout},
		settings: settings,
	}
}

func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.settings.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.settings.UserAgent)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: err}
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.settings.MaxBytes+1))
	if err != nil {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > c.settings.MaxBytes {
		return nil, &domain.FetchError{URL: url, Err: fmt.Errorf("body exceeds %d bytes", c.settings.MaxBytes)}
	}

	logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(started)).
		Msg("fetched")
	return body, nil
}
