package client

import (
	"context"
	"errors"

	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/lib/query"
	"github.com/ValentinKolb/cloudkv/rpc/common"
)

// New creates a new blocking client for the namespace identified by readToken.
// writeToken may be empty for read-only access.
//
// The client starts unopened. Until Open is called every request uses its own
// unpooled connection (unless config.RequireOpen is set), after Open requests
// share a connection pool that is released by Close.
func New(readToken, writeToken string, config common.ClientConfig, opts ...Option) (*Client, error) {
	a, err := newNamespaceAdapter(readToken, writeToken, config, true, opts)
	if err != nil {
		return nil, err
	}
	return &Client{namespaceAdapter: a}, nil
}

// Client is the blocking cloudkv client. Each call sends exactly one request
// and waits for its response, it is safe for concurrent use.
type Client struct {
	*namespaceAdapter
}

// Getter is implemented by clients that can look up values with their content type
type Getter interface {
	GetWithContentType(ctx context.Context, key string) (Item, error)
	Registry() *codec.Registry
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Open acquires the pooled transport. Opening an open client is a no-op,
// opening a closed client fails with common.ErrNotInitialized.
func (c *Client) Open() error {
	return c.open()
}

// Close releases the pooled transport. The client can not be opened again.
func (c *Client) Close() error {
	return c.close()
}

// Use opens the client, runs fn and closes the client again, also when fn
// returns an error or panics.
func (c *Client) Use(fn func(*Client) error) (err error) {
	if err := c.Open(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Close())
	}()
	return fn(c)
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// ReadToken returns the read token of the namespace
func (c *Client) ReadToken() string { return c.readToken }

// WriteToken returns the write token of the namespace, empty for read-only clients
func (c *Client) WriteToken() string { return c.writeToken }

// BaseURL returns the base URL without trailing slashes
func (c *Client) BaseURL() string { return c.config.BaseURL }

// Registry returns the codec registry of the client
func (c *Client) Registry() *codec.Registry { return c.options.registry }

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// Get returns the value for key. found is false if the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	item, err := c.get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return item.Value, item.Found, nil
}

// GetWithContentType returns the value for key together with its content type
func (c *Client) GetWithContentType(ctx context.Context, key string) (Item, error) {
	return c.get(ctx, key)
}

// Set stores value under key and returns the URL of the value.
// The content type is inferred from the value unless WithContentType is given.
func (c *Client) Set(ctx context.Context, key string, value codec.Value, opts ...SetOption) (string, error) {
	record, err := c.set(ctx, key, value, opts)
	if err != nil {
		return "", err
	}
	return record.URL, nil
}

// SetWithDetails stores value under key and returns the record of the stored value
func (c *Client) SetWithDetails(ctx context.Context, key string, value codec.Value, opts ...SetOption) (*common.KeyRecord, error) {
	return c.set(ctx, key, value, opts)
}

// Delete deletes key and reports whether it existed
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	return c.delete(ctx, key)
}

// ListKeys lists the keys of the namespace matching q
func (c *Client) ListKeys(ctx context.Context, q query.Query) ([]common.KeyRecord, error) {
	return c.listKeys(ctx, q)
}

// GetAs looks up key and decodes the value as T. def is returned if the key does not exist.
// Values stored as structured data (or all values if forceValidate is set) are
// validated against T, see codec.Decode.
func GetAs[T any](ctx context.Context, g Getter, key string, def T, forceValidate bool) (T, error) {
	item, err := g.GetWithContentType(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}

	var data []byte
	if item.Found {
		data = item.Value
	}
	return codec.Decode(g.Registry(), data, item.ContentType, def, forceValidate)
}
