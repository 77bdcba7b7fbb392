package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/lib/query"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/ValentinKolb/cloudkv/rpc/transport"
	httptransport "github.com/ValentinKolb/cloudkv/rpc/transport/http"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger(common.LoggerClient)
)

// Item is the result of a lookup
type Item struct {
	// Value is the stored value, nil if the key was not found
	Value []byte
	// ContentType of the value, empty if the key was not found or has no content type
	ContentType string
	// Found reports whether the key exists
	Found bool
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Option customizes a client or a CreateNamespace call
type Option func(*options)

type options struct {
	newTransport func() transport.IClientTransport
	newOneShot   func() transport.IClientTransport
	registry     *codec.Registry
}

// WithTransport sets the factory of the transport acquired by Open.
// Defaults to the pooled HTTP transport.
func WithTransport(factory func() transport.IClientTransport) Option {
	return func(o *options) {
		if factory != nil {
			o.newTransport = factory
		}
	}
}

// WithOneShotTransport sets the factory of the transports used for single
// requests (CreateNamespace and unopened sync clients).
func WithOneShotTransport(factory func() transport.IClientTransport) Option {
	return func(o *options) {
		if factory != nil {
			o.newOneShot = factory
		}
	}
}

// WithRegistry sets the codec registry of the client.
// By default every client owns a registry sized by ClientConfig.TypeCacheSize.
func WithRegistry(registry *codec.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

func buildOptions(config common.ClientConfig, opts []Option) options {
	o := options{
		newTransport: httptransport.NewHttpClientTransport,
		newOneShot:   httptransport.NewOneShotTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = codec.NewRegistry(config.TypeCacheSize)
	}
	return o
}

// --------------------------------------------------------------------------
// Namespace Adapter
// --------------------------------------------------------------------------

// lifecycle state of a client: unopened -> open -> closed
type state uint8

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

// namespaceAdapter is a struct that stores all data needed to talk to one namespace.
// Used by the Client and AsyncClient with composition pattern
type namespaceAdapter struct {
	readToken  string
	writeToken string
	config     common.ClientConfig
	options    options

	// fallback to one-shot transports while not open
	allowOneShot bool

	mu        sync.RWMutex
	state     state
	transport transport.IClientTransport
}

func newNamespaceAdapter(readToken, writeToken string, config common.ClientConfig, allowOneShot bool, opts []Option) (*namespaceAdapter, error) {
	if readToken == "" {
		return nil, fmt.Errorf("%w: read token must not be empty", common.ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.BaseURL = common.TrimBaseURL(config.BaseURL)

	return &namespaceAdapter{
		readToken:    readToken,
		writeToken:   writeToken,
		config:       config,
		options:      buildOptions(config, opts),
		allowOneShot: allowOneShot && !config.RequireOpen,
	}, nil
}

// open acquires the pooled transport
func (a *namespaceAdapter) open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case stateOpen:
		return nil
	case stateClosed:
		return fmt.Errorf("%w: client was closed", common.ErrNotInitialized)
	}

	t := a.options.newTransport()
	if err := t.Connect(a.config); err != nil {
		return err
	}
	a.transport = t
	a.state = stateOpen
	Logger.Debugf("opened client for %s", a.config.BaseURL)
	return nil
}

// close releases the pooled transport, calling close more than once is a no-op
func (a *namespaceAdapter) close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.transport != nil {
		err = a.transport.Close()
	}
	a.transport = nil
	a.state = stateClosed
	return err
}

// acquire returns the transport for one request and a function releasing it
func (a *namespaceAdapter) acquire() (transport.IClientTransport, func(), error) {
	a.mu.RLock()
	st, t := a.state, a.transport
	a.mu.RUnlock()

	switch {
	case st == stateOpen:
		return t, func() {}, nil
	case st == stateClosed:
		return nil, nil, fmt.Errorf("%w: client was closed", common.ErrNotInitialized)
	case !a.allowOneShot:
		return nil, nil, common.ErrNotInitialized
	}

	t = a.options.newOneShot()
	if err := t.Connect(a.config); err != nil {
		return nil, nil, err
	}
	return t, func() {
		if err := t.Close(); err != nil {
			Logger.Warningf("failed to close one-shot transport: %v", err)
		}
	}, nil
}

// invokeRequest is a helper function used for all operations to send requests
// It applies the call deadline, records metrics and converts every non 2xx
// response into a *common.ResponseError
func (a *namespaceAdapter) invokeRequest(ctx context.Context, op string, req *transport.Request) (*transport.Response, error) {
	t, release, err := a.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	return invokeRequest(ctx, op, a.config, t, req)
}

func invokeRequest(ctx context.Context, op string, config common.ClientConfig, t transport.IClientTransport, req *transport.Request) (*transport.Response, error) {
	if config.TimeoutSecond > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.TimeoutSecond)*time.Second)
		defer cancel()
	}

	start := time.Now()
	resp, err := t.Send(ctx, req)
	if err != nil {
		observe(op, start, false)
		return nil, err
	}

	if err := common.CheckStatus(resp.StatusCode, resp.Body); err != nil {
		observe(op, start, false)
		return nil, err
	}
	observe(op, start, true)
	return resp, nil
}

// --------------------------------------------------------------------------
// Operations (shared by Client and AsyncClient)
// --------------------------------------------------------------------------

func (a *namespaceAdapter) get(ctx context.Context, key string) (Item, error) {
	if key == "" {
		return Item{}, common.ErrEmptyKey
	}

	resp, err := a.invokeRequest(ctx, opGet, &transport.Request{
		Method: http.MethodGet,
		Path:   []string{a.readToken, key},
	})
	if err != nil {
		return Item{}, err
	}

	if resp.StatusCode == common.StatusNotFound {
		return Item{}, nil
	}

	value := resp.Body
	if value == nil {
		value = []byte{}
	}
	return Item{
		Value:       value,
		ContentType: resp.Header.Get(common.HeaderContentType),
		Found:       true,
	}, nil
}

func (a *namespaceAdapter) set(ctx context.Context, key string, value codec.Value, opts []SetOption) (*common.KeyRecord, error) {
	if a.writeToken == "" {
		return nil, fmt.Errorf("%w, can't set", common.ErrNoWriteToken)
	}
	if key == "" {
		return nil, common.ErrEmptyKey
	}

	o := setOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ttl != nil && *o.ttl < time.Second {
		return nil, fmt.Errorf("%w, got %s", common.ErrInvalidTTL, *o.ttl)
	}

	// Encode the value, an explicit content type wins over the inferred one
	data, contentType, err := codec.Encode(a.options.registry, value)
	if err != nil {
		return nil, err
	}
	if o.contentType != nil && *o.contentType != "" {
		contentType = *o.contentType
	}

	header := http.Header{}
	header.Set(common.HeaderAuthorization, a.writeToken)
	if contentType != "" {
		header.Set(common.HeaderContentType, contentType)
	}
	if o.ttl != nil {
		header.Set(common.HeaderTTL, strconv.FormatInt(int64(*o.ttl/time.Second), 10))
	}

	resp, err := a.invokeRequest(ctx, opSet, &transport.Request{
		Method: http.MethodPost,
		Path:   []string{a.readToken, key},
		Header: header,
		Body:   data,
	})
	if err != nil {
		return nil, err
	}

	record, err := codec.DecodeJSON[common.KeyRecord](a.options.registry, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudkv: invalid set response: %w", err)
	}
	return &record, nil
}

func (a *namespaceAdapter) delete(ctx context.Context, key string) (bool, error) {
	if a.writeToken == "" {
		return false, fmt.Errorf("%w, can't delete", common.ErrNoWriteToken)
	}
	if key == "" {
		return false, common.ErrEmptyKey
	}

	header := http.Header{}
	header.Set(common.HeaderAuthorization, a.writeToken)

	resp, err := a.invokeRequest(ctx, opDelete, &transport.Request{
		Method: http.MethodDelete,
		Path:   []string{a.readToken, key},
		Header: header,
	})
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

func (a *namespaceAdapter) listKeys(ctx context.Context, q query.Query) ([]common.KeyRecord, error) {
	params, err := q.Params()
	if err != nil {
		return nil, err
	}

	resp, err := a.invokeRequest(ctx, opList, &transport.Request{
		Method: http.MethodGet,
		Path:   []string{a.readToken},
		Query:  params,
	})
	if err != nil {
		return nil, err
	}

	keys, err := codec.DecodeJSON[common.KeysResponse](a.options.registry, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudkv: invalid keys response: %w", err)
	}
	if keys.Keys == nil {
		return []common.KeyRecord{}, nil
	}
	return keys.Keys, nil
}
