package sis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/pkg/apperrors"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
)

// Config holds the client settings taken from application config.
type Config struct {
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
}

// Client fetches class records from the registrar's class search API,
// one page at a time. Requests are rate limited; the registrar bans
// callers that hammer it. Transient failures are retried with capped
// exponential backoff before a page is declared failed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a registrar client from config.
func NewClient(cfg Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries: retries,
	}
}

// FetchPage retrieves one page of class records for (term, subject).
// Pages are 1-based. An empty slice means the registrar has no more
// records for the subject; callers treat that as the end of paging.
func (c *Client) FetchPage(ctx context.Context, termCode, subject string, page int) ([]models.ClassRecord, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("registrar base URL is not configured")
	}

	query := url.Values{}
	query.Set("term", termCode)
	query.Set("subject", subject)
	query.Set("page", strconv.Itoa(page))
	requestURL := c.baseURL + "/classes?" + query.Encode()

	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn().
				Err(lastErr).
				Str("subject", subject).
				Int("page", page).
				Int("attempt", attempt).
				Msg("Retrying class page fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 8*time.Second {
				backoff = 8 * time.Second
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.doRequest(ctx, requestURL)
		if err == nil {
			return decodePage(body, termCode)
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: fetching %s %s page %d: %v", apperrors.ErrFetchFailed, termCode, subject, page, lastErr)
}

// doRequest performs one HTTP round trip. The second return value
// reports whether the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, requestURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("registrar returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
