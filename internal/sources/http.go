package sources

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"ukrlit/internal/config"
	"ukrlit/internal/logging"
)

// HTTPOptions configures the shared HTTP client.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	// PageDelay is the minimum spacing between consecutive requests.
	PageDelay time.Duration
	Logger    *slog.Logger
}

// HTTPOptionsFrom maps harvest settings onto client options.
func HTTPOptionsFrom(h config.Harvest, logger *slog.Logger) HTTPOptions {
	return HTTPOptions{
		UserAgent: h.UserAgent,
		Timeout:   h.Timeout(),
		Retries:   h.Retries,
		RetryWait: h.RetryBackoff(),
		PageDelay: h.PageDelay(),
		Logger:    logger,
	}
}

// NewHTTPClient builds a resty client that identifies itself, paces requests
// and retries transport errors, 429 and 5xx responses with backoff.
func NewHTTPClient(opts HTTPOptions) *resty.Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	client := resty.New()
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetRetryCount(opts.Retries)
	if opts.RetryWait > 0 {
		client.SetRetryWaitTime(opts.RetryWait)
		client.SetRetryMaxWaitTime(opts.RetryWait * 8)
	}
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return retryableStatus(res.StatusCode())
	})
	client.AddRetryHook(func(res *resty.Response, err error) {
		attrs := []logging.Attr{logging.String(logging.FieldEventType, "http_retry")}
		if res != nil && res.Request != nil {
			attrs = append(attrs, logging.String("url", res.Request.URL), logging.Int("status", res.StatusCode()))
		}
		if err != nil {
			attrs = append(attrs, logging.Error(err))
		}
		logger.Debug("retrying request", logging.Args(attrs...)...)
	})

	if opts.PageDelay > 0 {
		limiter := rate.NewLimiter(rate.Every(opts.PageDelay), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}
	return client
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// CheckResponse turns a transport error or non-2xx response into an
// ErrUpstream-tagged error.
func CheckResponse(source, operation string, res *resty.Response, err error) error {
	if err != nil {
		return Wrap(source, operation, "request failed", err)
	}
	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return Wrap(source, operation, fmt.Sprintf("unexpected status %d", res.StatusCode()), nil)
	}
	return nil
}
