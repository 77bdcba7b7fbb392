package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/ValentinKolb/cloudkv/rpc/transport"
	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Fake Server
// --------------------------------------------------------------------------

const (
	defaultTTL = 30 * 24 * time.Hour
	minTTL     = time.Minute
)

type fakeEntry struct {
	value       []byte
	contentType string
	createdAt   time.Time
	expiration  time.Time
}

type fakeNamespace struct {
	writeToken string
	entries    map[string]fakeEntry
}

// fakeServer behaves like the cloudkv service for the endpoints used by the client
type fakeServer struct {
	*httptest.Server

	// omitBaseURL drops base_url from create responses
	omitBaseURL atomic.Bool
	requests    atomic.Int64

	mu         sync.Mutex
	namespaces map[string]*fakeNamespace
}

func newFakeServer(t *testing.T) *fakeServer {
	s := &fakeServer{namespaces: map[string]*fakeNamespace{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) config() common.ClientConfig {
	conf := common.DefaultClientConfig()
	conf.BaseURL = s.URL
	return conf
}

func token(n int) string {
	return strings.Repeat(strings.ReplaceAll(uuid.NewString(), "-", ""), 2)[:n]
}

func (s *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)

	if len(parts) == 1 && parts[0] == common.PathCreate && r.Method == http.MethodPost {
		s.create(w)
		return
	}

	ns, ok := s.namespaces[parts[0]]
	if !ok {
		http.Error(w, "namespace not found", http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.list(w, r, parts[0], ns)
		return
	}

	key := parts[1]
	switch r.Method {
	case http.MethodGet:
		entry, ok := ns.entries[key]
		if !ok {
			w.WriteHeader(common.StatusNotFound)
			return
		}
		if entry.contentType != "" {
			w.Header().Set(common.HeaderContentType, entry.contentType)
		} else {
			// suppress content sniffing
			w.Header()[common.HeaderContentType] = nil
		}
		_, _ = w.Write(entry.value)
	case http.MethodPost:
		if r.Header.Get(common.HeaderAuthorization) != ns.writeToken {
			http.Error(w, "invalid write token", http.StatusForbidden)
			return
		}
		s.set(w, r, parts[0], key, ns)
	case http.MethodDelete:
		if r.Header.Get(common.HeaderAuthorization) != ns.writeToken {
			http.Error(w, "invalid write token", http.StatusForbidden)
			return
		}
		if _, ok := ns.entries[key]; !ok {
			w.WriteHeader(common.StatusNotFound)
			return
		}
		delete(ns.entries, key)
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *fakeServer) create(w http.ResponseWriter) {
	details := common.NamespaceDetails{
		BaseURL:    s.URL,
		ReadToken:  token(24),
		WriteToken: token(48),
		CreatedAt:  time.Now().UTC(),
	}
	s.namespaces[details.ReadToken] = &fakeNamespace{
		writeToken: details.WriteToken,
		entries:    map[string]fakeEntry{},
	}

	body := map[string]any{
		"read_token":  details.ReadToken,
		"write_token": details.WriteToken,
		"created_at":  details.CreatedAt,
	}
	if !s.omitBaseURL.Load() {
		body["base_url"] = details.BaseURL
	}
	writeJSON(w, body)
}

func (s *fakeServer) set(w http.ResponseWriter, r *http.Request, readToken, key string, ns *fakeNamespace) {
	value, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ttl := defaultTTL
	if header := r.Header.Get(common.HeaderTTL); header != "" {
		seconds, err := strconv.Atoi(header)
		if err != nil {
			http.Error(w, "invalid TTL", http.StatusBadRequest)
			return
		}
		ttl = max(time.Duration(seconds)*time.Second, minTTL)
	}

	now := time.Now().UTC().Truncate(time.Second)
	entry := fakeEntry{
		value:       value,
		contentType: r.Header.Get(common.HeaderContentType),
		createdAt:   now,
		expiration:  now.Add(ttl),
	}
	ns.entries[key] = entry
	writeJSON(w, s.record(readToken, key, entry))
}

func (s *fakeServer) list(w http.ResponseWriter, r *http.Request, readToken string, ns *fakeNamespace) {
	var match *regexp.Regexp
	if like, ok := r.URL.Query()["like"]; ok {
		match = likeRegexp(like[0])
	}

	keys := make([]string, 0, len(ns.entries))
	for key := range ns.entries {
		if match == nil || match.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		keys = keys[min(n, len(keys)):]
	}

	records := make([]common.KeyRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, s.record(readToken, key, ns.entries[key]))
	}
	writeJSON(w, common.KeysResponse{Keys: records})
}

func (s *fakeServer) record(readToken, key string, entry fakeEntry) common.KeyRecord {
	return common.KeyRecord{
		URL:         s.URL + "/" + readToken + "/" + key,
		Key:         key,
		ContentType: entry.contentType,
		Size:        int64(len(entry.value)),
		CreatedAt:   entry.createdAt,
		Expiration:  entry.expiration,
	}
}

// likeRegexp translates a LIKE pattern with backslash escapes into a regexp
func likeRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set(common.HeaderContentType, "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// --------------------------------------------------------------------------
// Recording Transport
// --------------------------------------------------------------------------

// recordingTransport answers every request with a canned response and
// remembers what was sent
type recordingTransport struct {
	response transport.Response

	mu        sync.Mutex
	requests  []*transport.Request
	connected int
	closed    int
}

func (t *recordingTransport) Connect(common.ClientConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected++
	return nil
}

func (t *recordingTransport) Send(_ context.Context, req *transport.Request) (*transport.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	resp := t.response
	return &resp, nil
}

func (t *recordingTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed++
	return nil
}

func (t *recordingTransport) sent() []*transport.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*transport.Request(nil), t.requests...)
}

func (t *recordingTransport) factory() func() transport.IClientTransport {
	return func() transport.IClientTransport { return t }
}
