package browser

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/atomic"
)

const (
	defaultTimeout   = 20 * time.Second
	maxBodySize      = 8 * 1024 * 1024 // 8 MB
	defaultUserAgent = "tnav/0.1 (terminal browser; +https://github.com/vidyasagar/tnav)"
)

// SharedTransport is a tuned HTTP transport shared across all clients so
// connections are pooled application-wide.
var SharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: 15 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
}

// FetchResult holds the raw response for one URL.
type FetchResult struct {
	URL         string
	FinalURL    string // after redirects
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// Fetcher issues page requests. Loads run on their own goroutines while the
// UI keeps drawing, so the in-flight count is the one piece of state read
// across goroutines and it lives behind an atomic.
type Fetcher struct {
	client    *http.Client
	userAgent string
	inflight  atomic.Int64
}

// NewFetcher creates a Fetcher with sensible defaults on the shared
// transport.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Transport: SharedTransport,
			Timeout:   defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects (>10)")
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
	}
}

// Client returns the underlying HTTP client for use by other packages.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// InFlight reports how many fetches are running right now.
func (f *Fetcher) InFlight() int64 {
	return f.inflight.Load()
}

// Fetch retrieves the content at the given URL. The URL is normalized first,
// so address-bar input like "golang.org" works directly.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	f.inflight.Inc()
	defer f.inflight.Dec()

	rawURL = NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &FetchResult{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Duration:    time.Since(start),
	}, nil
}

// NormalizeURL turns address-bar input into a fetchable URL: a missing
// scheme becomes https, and anything that doesn't look like a host becomes
// a search on the default engine.
func NormalizeURL(raw string) string {
	return NormalizeURLWith(raw, "")
}

// NormalizeURLWith is NormalizeURL with the search fallback routed to the
// given engine template.
func NormalizeURLWith(raw, engine string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	// A dot and no spaces reads like a domain.
	if strings.Contains(raw, ".") && !strings.Contains(raw, " ") {
		return "https://" + raw
	}

	return SearchURL(engine, raw)
}

// IsHTML checks if the content type indicates HTML.
func IsHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
