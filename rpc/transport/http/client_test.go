package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/ValentinKolb/cloudkv/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) common.ClientConfig {
	conf := common.DefaultClientConfig()
	conf.BaseURL = baseURL
	return conf
}

// TestSend tests that requests reach the server unchanged
func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/prefix/token/some key", r.URL.Path)
		assert.Equal(t, "a%", r.URL.Query().Get("like"))
		assert.Equal(t, "secret", r.Header.Get(common.HeaderAuthorization))
		assert.Equal(t, "payload", string(body))

		w.Header().Set(common.HeaderContentType, "text/plain")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	for name, factory := range map[string]func() transport.IClientTransport{
		"pooled":   NewHttpClientTransport,
		"one-shot": NewOneShotTransport,
	} {
		t.Run(name, func(t *testing.T) {
			tr := factory()
			require.NoError(t, tr.Connect(testConfig(server.URL+"/prefix/")))
			defer tr.Close()

			resp, err := tr.Send(context.Background(), &transport.Request{
				Method: http.MethodPost,
				Path:   []string{"token", "some key"},
				Query:  url.Values{"like": {"a%"}},
				Header: http.Header{common.HeaderAuthorization: {"secret"}},
				Body:   []byte("payload"),
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, "ok", string(resp.Body))
			assert.Equal(t, "text/plain", resp.Header.Get(common.HeaderContentType))
		})
	}
}

// TestSendNonSuccess tests that error statuses are returned as responses
func TestSendNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	tr := NewHttpClientTransport()
	require.NoError(t, tr.Connect(testConfig(server.URL)))
	defer tr.Close()

	resp, err := tr.Send(context.Background(), &transport.Request{Method: http.MethodGet, Path: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "nope\n", string(resp.Body))
}

// TestNotConnected tests the lifecycle of the transport
func TestNotConnected(t *testing.T) {
	tr := NewHttpClientTransport()
	_, err := tr.Send(context.Background(), &transport.Request{Method: http.MethodGet})
	assert.ErrorIs(t, err, common.ErrNotInitialized)

	assert.ErrorIs(t, tr.Connect(testConfig("not a url")), common.ErrInvalidConfig)

	require.NoError(t, tr.Connect(testConfig("http://localhost")))
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	_, err = tr.Send(context.Background(), &transport.Request{Method: http.MethodGet})
	assert.ErrorIs(t, err, common.ErrNotInitialized)
}

// TestRetry tests that transport errors are retried
func TestRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	conf := testConfig(serverURL)
	conf.RetryCount = 2

	tr := NewOneShotTransport()
	require.NoError(t, tr.Connect(conf))
	defer tr.Close()

	_, err := tr.Send(context.Background(), &transport.Request{Method: http.MethodGet})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUsage)
}

// TestBuildURL tests how path segments and the query are appended
func TestBuildURL(t *testing.T) {
	base, err := url.Parse("https://example.com/prefix/")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/prefix/token/key?offset=2", buildURL(base, &transport.Request{
		Path:  []string{"token", "key"},
		Query: url.Values{"offset": {"2"}},
	}))
	// a slash inside a segment is kept as a path separator
	assert.Equal(t, "https://example.com/prefix/token/a/b", buildURL(base, &transport.Request{
		Path: []string{"token", "a/b"},
	}))
}

// TestRedact tests that tokens are not logged
func TestRedact(t *testing.T) {
	assert.Equal(t, "https://example.com/abcd.../key", redact("https://example.com/abcdefghijklmnopqrstuvwx/key"))
	assert.Equal(t, "https://example.com/create", redact("https://example.com/create"))
}
