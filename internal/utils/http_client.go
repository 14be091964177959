package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultRetryWaitTime    = 200 * time.Millisecond
	defaultRetryMaxWaitTime = 2 * time.Second
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance
// with a default-configured underlying resty.Client.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}

// WithRetries makes idempotent requests retry up to count times on network
// errors and 5xx responses, with exponential backoff between attempts.
// A count of zero disables retries.
func (c *HTTPClient) WithRetries(count int) *HTTPClient {
	if count <= 0 {
		c.SetRetryCount(0)
		return c
	}

	c.SetRetryCount(count).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode() >= 500
		})
	return c
}
