package client

import (
	"context"
	"errors"

	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/lib/query"
	"github.com/ValentinKolb/cloudkv/rpc/common"
)

// --------------------------------------------------------------------------
// Future
// --------------------------------------------------------------------------

// Future is the pending result of an asynchronous operation
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// goFuture runs fn on a new goroutine and returns its future
func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done returns a channel that is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the result or until ctx is done. Giving up on a future does
// not cancel the operation, pass a cancelable context to the operation for that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// --------------------------------------------------------------------------
// Async Client
// --------------------------------------------------------------------------

// NewAsync creates a new asynchronous client. Unlike Client it must be opened
// before use, operations on an unopened or closed client fail with
// common.ErrNotInitialized.
func NewAsync(readToken, writeToken string, config common.ClientConfig, opts ...Option) (*AsyncClient, error) {
	a, err := newNamespaceAdapter(readToken, writeToken, config, false, opts)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{namespaceAdapter: a}, nil
}

// AsyncClient runs every operation on its own goroutine and returns a Future.
// No ordering is guaranteed between operations that are in flight at the same time.
type AsyncClient struct {
	*namespaceAdapter
}

// Open acquires the pooled transport
func (c *AsyncClient) Open() error {
	return c.open()
}

// Close releases the pooled transport. Operations still in flight fail with
// common.ErrNotInitialized or a transport error.
func (c *AsyncClient) Close() error {
	return c.close()
}

// Use opens the client, runs fn and closes the client again, also when fn
// returns an error or panics.
func (c *AsyncClient) Use(fn func(*AsyncClient) error) (err error) {
	if err := c.Open(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Close())
	}()
	return fn(c)
}

// ReadToken returns the read token of the namespace
func (c *AsyncClient) ReadToken() string { return c.readToken }

// WriteToken returns the write token of the namespace, empty for read-only clients
func (c *AsyncClient) WriteToken() string { return c.writeToken }

// BaseURL returns the base URL without trailing slashes
func (c *AsyncClient) BaseURL() string { return c.config.BaseURL }

// Registry returns the codec registry of the client
func (c *AsyncClient) Registry() *codec.Registry { return c.options.registry }

// Get looks up key. Unlike Client.Get the future resolves to an Item,
// Item.Value and Item.Found hold what Client.Get returns.
func (c *AsyncClient) Get(ctx context.Context, key string) *Future[Item] {
	return goFuture(func() (Item, error) {
		return c.get(ctx, key)
	})
}

// GetWithContentType blocks until the lookup of key finished, it makes
// AsyncClient a Getter for GetAs.
func (c *AsyncClient) GetWithContentType(ctx context.Context, key string) (Item, error) {
	return c.Get(ctx, key).Await(ctx)
}

// Set stores value under key, the future resolves to the URL of the value
func (c *AsyncClient) Set(ctx context.Context, key string, value codec.Value, opts ...SetOption) *Future[string] {
	return goFuture(func() (string, error) {
		record, err := c.set(ctx, key, value, opts)
		if err != nil {
			return "", err
		}
		return record.URL, nil
	})
}

// SetWithDetails stores value under key, the future resolves to the record of the value
func (c *AsyncClient) SetWithDetails(ctx context.Context, key string, value codec.Value, opts ...SetOption) *Future[*common.KeyRecord] {
	return goFuture(func() (*common.KeyRecord, error) {
		return c.set(ctx, key, value, opts)
	})
}

// Delete deletes key, the future resolves to whether the key existed
func (c *AsyncClient) Delete(ctx context.Context, key string) *Future[bool] {
	return goFuture(func() (bool, error) {
		return c.delete(ctx, key)
	})
}

// ListKeys lists the keys of the namespace matching q
func (c *AsyncClient) ListKeys(ctx context.Context, q query.Query) *Future[[]common.KeyRecord] {
	return goFuture(func() ([]common.KeyRecord, error) {
		return c.listKeys(ctx, q)
	})
}

// GetAsAsync is the asynchronous form of GetAs
func GetAsAsync[T any](ctx context.Context, c *AsyncClient, key string, def T, forceValidate bool) *Future[T] {
	return goFuture(func() (T, error) {
		item, err := c.get(ctx, key)
		if err != nil {
			var zero T
			return zero, err
		}
		var data []byte
		if item.Found {
			data = item.Value
		}
		return codec.Decode(c.options.registry, data, item.ContentType, def, forceValidate)
	})
}
