package common

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// HTTPClientOptions tune the retryable http client shared by the Mayanode and Midgard clients
type HTTPClientOptions struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// NewRetryableHTTPClient create a retryablehttp client that log through the given zerolog logger
func NewRetryableHTTPClient(logger zerolog.Logger, opts HTTPClientOptions) *retryablehttp.Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = NewRetryableHTTPLogger(logger.With().Str("component", "retryableHTTPClient").Logger())
	if opts.Timeout > 0 {
		httpClient.HTTPClient.Timeout = opts.Timeout
	}
	if opts.RetryMax >= 0 {
		httpClient.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		httpClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		httpClient.RetryWaitMax = opts.RetryWaitMax
	}
	return httpClient
}
