package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/ValentinKolb/cloudkv/rpc/transport"
)

// CreateNamespace creates a new namespace at config.BaseURL and returns its
// tokens. No token is needed and no opened client is required, the request
// uses its own one-shot transport.
func CreateNamespace(ctx context.Context, config common.ClientConfig, opts ...Option) (*common.NamespaceDetails, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.BaseURL = common.TrimBaseURL(config.BaseURL)
	o := buildOptions(config, opts)

	// Connect the transport
	t := o.newOneShot()
	if err := t.Connect(config); err != nil {
		return nil, err
	}
	defer func() {
		if err := t.Close(); err != nil {
			Logger.Warningf("failed to close transport: %v", err)
		}
	}()

	resp, err := invokeRequest(ctx, opCreate, config, t, &transport.Request{
		Method: http.MethodPost,
		Path:   []string{common.PathCreate},
	})
	if err != nil {
		return nil, err
	}

	details, err := codec.DecodeJSON[common.NamespaceDetails](o.registry, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudkv: invalid create response: %w", err)
	}
	if details.BaseURL == "" {
		details.BaseURL = config.BaseURL
	}

	Logger.Infof("created namespace at %s", details.BaseURL)
	return &details, nil
}

// ForNamespace creates a Client for a namespace returned by CreateNamespace.
// The base URL of the namespace replaces config.BaseURL.
func ForNamespace(details *common.NamespaceDetails, config common.ClientConfig, opts ...Option) (*Client, error) {
	config.BaseURL = details.BaseURL
	return New(details.ReadToken, details.WriteToken, config, opts...)
}

// AsyncForNamespace creates an AsyncClient for a namespace returned by CreateNamespace
func AsyncForNamespace(details *common.NamespaceDetails, config common.ClientConfig, opts ...Option) (*AsyncClient, error) {
	config.BaseURL = details.BaseURL
	return NewAsync(details.ReadToken, details.WriteToken, config, opts...)
}
