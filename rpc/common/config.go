package common

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	// BaseURLEnv is the environment variable overriding the default base URL
	BaseURLEnv = "CLOUDKV_BASE_URL"

	defaultBaseURL = "https://cloudkv.samuelcolvin.workers.dev"
)

// DefaultBaseURL is the base URL used when none is configured.
// It is read from CLOUDKV_BASE_URL once at process start.
var DefaultBaseURL = func() string {
	if v := os.Getenv(BaseURLEnv); v != "" {
		return v
	}
	return defaultBaseURL
}()

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	// BaseURL of the cloudkv service, trailing slashes are ignored
	BaseURL string

	// TimeoutSecond is the default deadline of a single call, 0 disables it
	TimeoutSecond int
	// RetryCount is how often a request is retried after a transport error.
	// Requests that received a response are never retried.
	RetryCount int

	// Connection pool settings (for opened clients)
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeoutSecond int

	// TypeCacheSize bounds the codec registry, 0 means unbounded
	TypeCacheSize int

	// RequireOpen disables the one-shot fallback of unopened sync clients
	RequireOpen bool
}

// DefaultClientConfig returns the configuration used when nothing else is set
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:               DefaultBaseURL,
		TimeoutSecond:         10,
		RetryCount:            0,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeoutSecond: 90,
	}
}

// Validate checks the configuration and returns ErrInvalidConfig if it is unusable
func (c *ClientConfig) Validate() error {
	if _, err := c.ParseBaseURL(); err != nil {
		return err
	}
	if c.TimeoutSecond < 0 || c.RetryCount < 0 || c.TypeCacheSize < 0 {
		return fmt.Errorf("%w: timeout, retries and type cache size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ParseBaseURL returns the parsed base URL without trailing slashes
func (c *ClientConfig) ParseBaseURL() (*url.URL, error) {
	raw := TrimBaseURL(c.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: base url %q must use http or https", ErrInvalidConfig, raw)
	}
	return u, nil
}

// TrimBaseURL strips all trailing slashes from a base URL
func TrimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Base URL", TrimBaseURL(c.BaseURL))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Require Open", strconv.FormatBool(c.RequireOpen))

	addSection("Connection Pool")
	addField("Max Idle Conns", strconv.Itoa(c.MaxIdleConns))
	addField("Max Idle Per Host", strconv.Itoa(c.MaxIdleConnsPerHost))
	addField("Idle Timeout", fmt.Sprintf("%d sec", c.IdleConnTimeoutSecond))

	addSection("Codec")
	if c.TypeCacheSize == 0 {
		addField("Type Cache Size", "unbounded")
	} else {
		addField("Type Cache Size", strconv.Itoa(c.TypeCacheSize))
	}

	return sb.String()
}
