package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weeklyschedule/internal/logging"
)

const defaultUserAgent = "weeklyschedule/dev"

// redactedParams are query parameters never written to logs.
var redactedParams = []string{"api_key", "apikey", "token"}

// Observer receives one notification per completed fetch.
type Observer interface {
	ObserveFetch(upstream string, kind Kind)
}

// Fetcher performs JSON GET requests, throttling registered hosts.
type Fetcher struct {
	client    *http.Client
	limiter   *RateLimiter
	throttled map[string]struct{}
	userAgent string
	logger    *slog.Logger
	observer  Observer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithRateLimiter throttles requests to the given hosts through limiter.
// Hosts are matched case-insensitively against the request URL hostname.
func WithRateLimiter(limiter *RateLimiter, hosts ...string) Option {
	return func(f *Fetcher) {
		f.limiter = limiter
		for _, host := range hosts {
			host = strings.ToLower(strings.TrimSpace(host))
			if host != "" {
				f.throttled[host] = struct{}{}
			}
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua = strings.TrimSpace(ua); ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLogger attaches a logger; failures are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithObserver registers a metrics observer.
func WithObserver(observer Observer) Option {
	return func(f *Fetcher) {
		f.observer = observer
	}
}

// New constructs a Fetcher. Without WithHTTPClient the transport defaults
// apply and no overall request timeout is set.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		throttled: make(map[string]struct{}),
		userAgent: defaultUserAgent,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "fetch")
	return f
}

// Throttles reports whether requests to host pass through the rate limiter.
func (f *Fetcher) Throttles(host string) bool {
	if f.limiter == nil {
		return false
	}
	_, ok := f.throttled[strings.ToLower(host)]
	return ok
}

// FetchJSON returns the JSON body at rawURL, or nil when the fetch failed for
// any reason. Callers treat nil as "no data".
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string) json.RawMessage {
	res := f.Fetch(ctx, rawURL)
	if !res.OK() {
		return nil
	}
	return res.Body
}

// Fetch performs the request and reports the typed outcome. It never panics
// and never retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Result {
	res := f.do(ctx, rawURL)
	f.finish(res)
	return res
}

// Decode fetches rawURL and unmarshals the body into v. Failures are returned
// as *Error so callers can inspect the Kind.
func (f *Fetcher) Decode(ctx context.Context, rawURL string, v any) error {
	res := f.do(ctx, rawURL)
	if res.OK() {
		if err := json.Unmarshal(res.Body, v); err != nil {
			res.Kind = KindDecode
			res.Err = fmt.Errorf("unmarshal %T: %w", v, err)
			res.Body = nil
		}
	}
	f.finish(res)
	return res.Error()
}

func (f *Fetcher) do(ctx context.Context, rawURL string) Result {
	res := Result{URL: redactURL(rawURL)}
	if ctx == nil {
		ctx = context.Background()
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		res.Kind = KindTransport
		res.Err = fmt.Errorf("parse url: %w", err)
		return res
	}
	if host := parsed.Hostname(); f.Throttles(host) {
		if err := f.limiter.Wait(ctx, strings.ToLower(host)); err != nil {
			res.Kind = KindTransport
			res.Err = fmt.Errorf("wait for rate limit slot: %w", err)
			return res
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		res.Kind = KindTransport
		res.Err = fmt.Errorf("build request: %w", err)
		return res
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Kind = KindTransport
		res.Err = fmt.Errorf("execute request: %w", err)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		res.Kind = KindStatus
		res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return res
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Kind = KindTransport
		res.Err = fmt.Errorf("read body: %w", err)
		return res
	}
	if !json.Valid(body) {
		res.Kind = KindDecode
		res.Err = errors.New("response body is not valid JSON")
		return res
	}
	res.Kind = KindOK
	res.Body = body
	return res
}

func (f *Fetcher) finish(res Result) {
	if f.observer != nil {
		f.observer.ObserveFetch(upstreamOf(res.URL), res.Kind)
	}
	if res.OK() {
		f.logger.Debug("fetch complete",
			logging.String("url", res.URL),
			logging.Int("status", res.StatusCode),
			logging.Duration("latency", res.Latency))
		return
	}
	f.logger.Debug("fetch failed",
		logging.String(logging.FieldEventType, "fetch_failed"),
		logging.String("url", res.URL),
		logging.String("failure_kind", res.Kind.String()),
		logging.Int("status", res.StatusCode),
		logging.Duration("latency", res.Latency),
		logging.Error(res.Err),
		logging.String(logging.FieldImpact, "query treated as returning no data"))
}

func upstreamOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(parsed.Hostname())
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	changed := false
	for _, key := range redactedParams {
		if query.Has(key) {
			query.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
