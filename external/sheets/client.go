package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/resilience"
	"github.com/riskibarqy/nba-lineup-model/internal/usecase"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultMaxBodyBytes = 8 << 20
	maxRedirects        = 5
)

var errSheetsTransient = crerr.New("sheets transient failure")
var sheetKeyRegex = regexp.MustCompile(`/d/e/[^/]+`)

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	Timeout        time.Duration
	MaxRetries     int
	MaxBodyBytes   int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client downloads published spreadsheet CSVs. Sources are http(s) URLs or
// file:// paths for offline snapshots.
type Client struct {
	httpClient     *fasthttp.Client
	timeout        time.Duration
	maxRetries     int
	maxBodyBytes   int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "nba-lineup-model",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBody,
		}
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		maxBodyBytes:   maxBody,
		retryBackoff:   backoff,
		logger:         logger.Component("sheets"),
		breaker:        resilience.NewCircuitBreaker("sheets", breakerCfg).WithFailureFilter(isSheetsCircuitFailure),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchCSV returns every row of source, header included. An empty source
// yields no rows.
func (c *Client) FetchCSV(ctx context.Context, source string) ([][]string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse sheet source: %w", err)
	}

	var raw []byte
	switch parsed.Scheme {
	case "file":
		raw, err = c.readFile(parsed)
	case "http", "https":
		raw, err = c.fetchRemote(ctx, source)
	default:
		return nil, fmt.Errorf("unsupported sheet source scheme %q", parsed.Scheme)
	}
	if err != nil {
		return nil, err
	}

	return parseCSV(raw)
}

// CircuitStats exposes the breaker state for health checks.
func (c *Client) CircuitStats() resilience.Stats {
	return c.breaker.Stats()
}

// fetchRemote shares one download per URL between concurrent callers. The
// shared download runs detached from any single caller, bounded by the retry
// budget, so one caller giving up never fails the others.
func (c *Client) fetchRemote(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flight := c.flight.DoChan(source, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightBudget())
		defer cancel()

		if !c.circuitEnabled {
			return c.executeRequest(flightCtx, source)
		}

		var raw []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(flightCtx, source)
			return reqErr
		})
		if stderrors.Is(execErr, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(flightCtx, "sheets circuit breaker rejected request", "state", c.breaker.State(), "source", redactSheetURL(source))
			return nil, fmt.Errorf("%w: sheet source is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return raw, execErr
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-flight:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	raw, ok := res.Val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", res.Val)
	}
	return raw, nil
}

// flightBudget covers every attempt at the full timeout plus the linear
// backoff between them.
func (c *Client) flightBudget() time.Duration {
	attempts := time.Duration(c.maxRetries + 1)
	backoff := c.retryBackoff * time.Duration(c.maxRetries*(c.maxRetries+1)/2)
	return attempts*c.timeout + backoff
}

func (c *Client) executeRequest(ctx context.Context, source string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.do(ctx, source)
		switch {
		case err != nil && stderrors.Is(err, fasthttp.ErrBodyTooLarge):
			return nil, fmt.Errorf("sheet body exceeds %d bytes", c.maxBodyBytes)
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %v", errSheetsTransient, err)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: sheet status=%d body=%s", errSheetsTransient, status, abbreviateBody(raw))
		default:
			lastErr = fmt.Errorf("%w: sheet status=%d body=%s", usecase.ErrDependencyUnavailable, status, abbreviateBody(raw))
			c.logger.WarnContext(ctx, "sheet request rejected", "source", redactSheetURL(source), "status", status)
			return nil, lastErr
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("sheet request failed")
	}
	c.logger.WarnContext(ctx, "sheet request failed", "source", redactSheetURL(source), "attempts", c.maxRetries+1, "error", lastErr)
	return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
}

func (c *Client) do(ctx context.Context, source string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(source)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv")

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, 0, context.DeadlineExceeded
	}
	req.SetTimeout(timeout)

	if err := c.httpClient.DoRedirects(req, resp, maxRedirects); err != nil {
		return nil, 0, err
	}

	// resp is recycled on return.
	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func (c *Client) readFile(source *url.URL) ([]byte, error) {
	path := source.Path
	if path == "" {
		path = source.Opaque
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, int64(c.maxBodyBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("read sheet file: %w", err)
	}
	if len(raw) > c.maxBodyBytes {
		return nil, fmt.Errorf("sheet file exceeds %d bytes", c.maxBodyBytes)
	}
	return raw, nil
}

func parseCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}
	return rows, nil
}

func isSheetsCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errSheetsTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

// redactSheetURL keeps published sheet keys out of logs.
func redactSheetURL(raw string) string {
	return sheetKeyRegex.ReplaceAllString(raw, "/d/e/REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
