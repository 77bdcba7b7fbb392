package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/ValentinKolb/cloudkv/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger(common.LoggerTransport)

// NewHttpClientTransport creates a transport backed by a pooled http.Client.
// Connections are reused until Close is called.
func NewHttpClientTransport() transport.IClientTransport {
	return &httpClientTransport{}
}

// NewOneShotTransport creates a transport that does not keep connections
// alive, every request opens (and closes) its own connection.
func NewOneShotTransport() transport.IClientTransport {
	return &httpClientTransport{oneShot: true}
}

type httpClientTransport struct {
	mu         sync.RWMutex
	baseURL    *url.URL
	client     *http.Client
	retryCount int
	oneShot    bool
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	baseURL, err := config.ParseBaseURL()
	if err != nil {
		return err
	}

	// Create client with its own transport so Close only affects this client
	httpTransport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if t.oneShot {
		httpTransport.DisableKeepAlives = true
	} else {
		httpTransport.MaxIdleConns = config.MaxIdleConns
		httpTransport.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		httpTransport.IdleConnTimeout = time.Duration(config.IdleConnTimeoutSecond) * time.Second
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.client = &http.Client{Transport: httpTransport}
	t.baseURL = baseURL
	t.retryCount = config.RetryCount

	return nil
}

func (t *httpClientTransport) Send(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	t.mu.RLock()
	client, baseURL, retryCount := t.client, t.baseURL, t.retryCount
	t.mu.RUnlock()

	// Check if the transport is initialized
	if client == nil {
		return nil, common.ErrNotInitialized
	}

	requestURL := buildURL(baseURL, req)
	start := time.Now()

	// Send the request (with retries on transport errors)
	var (
		httpResponse *http.Response
		err          error
	)
	for attempt := 0; attempt <= retryCount; attempt++ {
		var httpRequest *http.Request
		httpRequest, err = http.NewRequestWithContext(ctx, req.Method, requestURL, bytes.NewReader(req.Body))
		if err != nil {
			return nil, err
		}
		for name, values := range req.Header {
			httpRequest.Header[name] = values
		}

		httpResponse, err = client.Do(httpRequest)
		if err == nil || ctx.Err() != nil {
			break
		}
		if attempt < retryCount {
			Logger.Warningf("%s %s failed (attempt %d/%d): %v", req.Method, redact(requestURL), attempt+1, retryCount+1, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("cloudkv: %s request failed: %w", req.Method, err)
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	// Read the response body
	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudkv: failed to read response body: %w", err)
	}

	Logger.Debugf("%s %s => %d took %s", req.Method, redact(requestURL), httpResponse.StatusCode, time.Since(start))

	return &transport.Response{
		StatusCode: httpResponse.StatusCode,
		Header:     httpResponse.Header,
		Body:       body,
	}, nil
}

func (t *httpClientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Close the client
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	// Reset the client and base URL
	t.client = nil
	t.baseURL = nil

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// buildURL appends the request path and query to the base URL
func buildURL(baseURL *url.URL, req *transport.Request) string {
	u := *baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(req.Path, "/")
	u.RawPath = ""
	u.RawQuery = req.Query.Encode()
	return u.String()
}

// redact removes the namespace token (first path segment) from a URL for logging
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	segments := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(segments) > 0 && len(segments[0]) >= 16 {
		segments[0] = segments[0][:4] + "..."
	}
	u.Path = "/" + strings.Join(segments, "/")
	u.RawPath = ""
	return u.String()
}
