// Package apod fetches image-of-the-day records from the remote archive.
package apod

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"apodgallery/internal/logger"
	"apodgallery/internal/metrics"
	"apodgallery/internal/model"

	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1 << 20

// Fetcher returns the record for one date and never fails.
type Fetcher interface {
	Fetch(ctx context.Context, date string) model.ImageRecord
}

type Options struct {
	BaseURL        string
	APIKey         string
	PlaceholderURL string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *logger.Logger
	Metrics        *metrics.Collector
}

// Client talks to the image-of-the-day endpoint.
type Client struct {
	baseURL        string
	apiKey         string
	placeholderURL string
	httpClient     *http.Client
	logger         *logger.Logger
	metrics        *metrics.Collector
	validate       *validator.Validate
}

// payload mirrors the fields of the remote JSON response we use.
type payload struct {
	Date        string `json:"date"`
	Title       string `json:"title" validate:"required"`
	Explanation string `json:"explanation"`
	URL         string `json:"url" validate:"required"`
	HDURL       string `json:"hdurl"`
	MediaType   string `json:"media_type"`
	Copyright   string `json:"copyright"`
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Client{
		baseURL:        opts.BaseURL,
		apiKey:         opts.APIKey,
		placeholderURL: opts.PlaceholderURL,
		httpClient:     opts.HTTPClient,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		validate:       validator.New(),
	}
}

// Fetch issues one request for date. Any failure (transport, status, decoding,
// incomplete payload) is logged and replaced by the fallback record; a
// cancelled ctx also yields the fallback but is only counted.
func (c *Client) Fetch(ctx context.Context, date string) model.ImageRecord {
	start := time.Now()

	rec, err := c.fetch(ctx, date)
	if err != nil && ctx.Err() != nil {
		// The run was superseded or its viewer left; the record is never shown.
		c.metrics.ObserveFetch(metrics.OutcomeCanceled, time.Since(start))
		return model.Fallback(date, c.placeholderURL)
	}
	if err != nil {
		c.metrics.ObserveFetch(metrics.OutcomeFallback, time.Since(start))
		c.logger.Warning("Error fetching image of the day for %s: %v", date, err)
		return model.Fallback(date, c.placeholderURL)
	}

	c.metrics.ObserveFetch(metrics.OutcomeSuccess, time.Since(start))
	return rec
}

func (c *Client) fetch(ctx context.Context, date string) (model.ImageRecord, error) {
	endpoint, err := c.endpoint(date)
	if err != nil {
		return model.ImageRecord{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.ImageRecord{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ImageRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return model.ImageRecord{}, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var p payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&p); err != nil {
		return model.ImageRecord{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := c.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return model.ImageRecord{}, fmt.Errorf("incomplete response: %w", verrs)
		}
		return model.ImageRecord{}, err
	}

	return model.ImageRecord{
		Date:        date,
		Title:       p.Title,
		Explanation: p.Explanation,
		URL:         p.URL,
		MediaKind:   model.ParseMediaKind(p.MediaType),
		HDURL:       p.HDURL,
		Copyright:   p.Copyright,
	}, nil
}

func (c *Client) endpoint(date string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("date", date)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
