package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ValentinKolb/cloudkv/rpc/common"
)

// --------------------------------------------------------------------------
// Request / Response
// --------------------------------------------------------------------------

// Request is a single HTTP request relative to the configured base URL
type Request struct {
	Method string
	// Path segments joined with "/" and appended to the base URL. A "/" inside
	// a segment is not escaped and splits it.
	Path   []string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IClientTransport is the interface for the client transport
type IClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response.
	// Responses are returned for every status code, only transport
	// failures produce an error.
	Send(ctx context.Context, req *Request) (*Response, error)
	// Close releases all resources held by the transport
	Close() error
}
