package client

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/zfogg/picfeed/pkg/config"
	"github.com/zfogg/picfeed/pkg/logger"
)

// Version is reported in the User-Agent header
var Version = "0.1.0"

var httpClient *resty.Client

// Init initializes the HTTP client from config
func Init() {
	timeout := time.Duration(config.GetInt("api.timeout")) * time.Second
	httpClient = New(config.GetString("api.base_url"), timeout)
}

// New builds a client for baseURL. No retries are configured: a failed
// request is reported to the caller once.
func New(baseURL string, timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetRetryCount(0)
	c.SetHeader("User-Agent", "picfeed-cli/"+Version)
	c.SetHeader("Accept", "application/json")

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})
	return c
}

// GetClient returns the HTTP client
func GetClient() *resty.Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}

// SetClient replaces the shared client
func SetClient(c *resty.Client) {
	httpClient = c
}

// SetAuthToken sets the bearer token sent with every request
func SetAuthToken(token string) {
	GetClient().SetAuthToken(token)
}

// ClearAuthToken stops sending a bearer token
func ClearAuthToken() {
	c := GetClient()
	c.Token = ""
	c.Header.Del("Authorization")
}
