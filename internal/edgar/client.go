// Package edgar is a client for SEC EDGAR's public endpoints: the
// submissions index on data.sec.gov and filing documents under
// Archives/edgar/data.
package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSubmissionsBase = "https://data.sec.gov"
	defaultArchivesBase    = "https://www.sec.gov"
	defaultTimeout         = 30 * time.Second
	defaultMaxRetries      = 3
	defaultBaseBackoff     = 500 * time.Millisecond

	// secMaxRate is SEC's published fair-access ceiling.
	secMaxRate = 10
)

// ErrNotFound indicates the requested CIK, accession, or document does not
// exist on EDGAR.
var ErrNotFound = errors.New("edgar: not found")

// retryableError marks transient failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Config configures the EDGAR client.
type Config struct {
	// UserAgent is required by SEC policy: a descriptive product string
	// with a contact address, e.g. "edgarsift/1.0 admin@example.com".
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxRetries        int

	// SubmissionsBase and ArchivesBase override the SEC hosts in tests.
	SubmissionsBase string
	ArchivesBase    string
}

// Client fetches filing metadata and documents. All requests share one rate
// limiter so concurrent callers stay inside the SEC ceiling together.
type Client struct {
	userAgent       string
	submissionsBase string
	archivesBase    string
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxRetries      int
}

// NewClient creates an EDGAR client. The user agent is mandatory; rates
// above the SEC ceiling are rejected rather than clamped.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, fmt.Errorf("edgar: user agent required (SEC fair-access policy)")
	}

	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = secMaxRate
	}
	if rps < 0 || rps > secMaxRate {
		return nil, fmt.Errorf("edgar: requests_per_second %v outside (0, %d]", rps, secMaxRate)
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	submissionsBase := cfg.SubmissionsBase
	if submissionsBase == "" {
		submissionsBase = defaultSubmissionsBase
	}
	archivesBase := cfg.ArchivesBase
	if archivesBase == "" {
		archivesBase = defaultArchivesBase
	}

	return &Client{
		userAgent:       cfg.UserAgent,
		submissionsBase: strings.TrimSuffix(submissionsBase, "/"),
		archivesBase:    strings.TrimSuffix(archivesBase, "/"),
		httpClient:      &http.Client{Timeout: timeout},
		limiter:         rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries:      maxRetries,
	}, nil
}

// PadCIK zero-pads a CIK to the 10 digits the submissions endpoint expects.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(strings.TrimPrefix(cik, "CIK"))
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// accessionPath strips the hyphens from an accession number for use in
// archive paths: 0001234567-24-000001 -> 000123456724000001.
func accessionPath(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// Submissions fetches the filing index for a company.
func (c *Client) Submissions(ctx context.Context, cik string) (*Submissions, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.submissionsBase, PadCIK(cik))
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var subs Submissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("edgar: failed to parse submissions for CIK %s: %w", cik, err)
	}
	return &subs, nil
}

// FilingIndex fetches the JSON directory listing of one filing.
func (c *Client) FilingIndex(ctx context.Context, cik, accession string) (*FilingIndex, error) {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/index.json",
		c.archivesBase, strings.TrimLeft(PadCIK(cik), "0"), accessionPath(accession))
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var idx FilingIndex
	if err := json.Unmarshal(body, &idx); err != nil {
		return nil, fmt.Errorf("edgar: failed to parse filing index: %w", err)
	}
	return &idx, nil
}

// FilingDocument fetches one document from a filing, typically the primary
// HTML file fed to the extractors.
func (c *Client) FilingDocument(ctx context.Context, cik, accession, doc string) ([]byte, error) {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		c.archivesBase, strings.TrimLeft(PadCIK(cik), "0"), accessionPath(accession), doc)
	return c.get(ctx, url)
}

// get performs a rate-limited GET with bounded retries and exponential
// backoff on transient failures.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.doGet(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("edgar: max retries exceeded: %w", lastErr)
}

func (c *Client) doGet(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("edgar: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("edgar: failed to create request: %w", err)
	}
	// No explicit Accept-Encoding: net/http only decompresses gzip
	// transparently when it negotiated the encoding itself.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("edgar: request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("edgar: failed to read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &retryableError{err: fmt.Errorf("edgar: rate limited (429)")}
	case resp.StatusCode >= 500:
		return nil, &retryableError{err: fmt.Errorf("edgar: server error (%d)", resp.StatusCode)}
	default:
		return nil, fmt.Errorf("edgar: unexpected status %d for %s", resp.StatusCode, url)
	}
}
