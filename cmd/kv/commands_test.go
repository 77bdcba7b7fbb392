package kv

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testKeys() []common.KeyRecord {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []common.KeyRecord{
		{URL: "https://example.com/read/a", Key: "a", ContentType: "text/plain", Size: 3, CreatedAt: created, Expiration: created.Add(time.Hour)},
		{URL: "https://example.com/read/b", Key: "b", Size: 10, CreatedAt: created, Expiration: created.Add(time.Minute)},
	}
}

func TestWriteKeys(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteKeys(&buf, testKeys(), "json"))

		var decoded []common.KeyRecord
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testKeys(), decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteKeys(&buf, testKeys(), "yaml"))
		assert.Contains(t, buf.String(), "content_type: text/plain")

		var decoded []common.KeyRecord
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testKeys(), decoded)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteKeys(&buf, testKeys(), "table"))
		assert.Contains(t, buf.String(), "KEY")
		assert.Contains(t, buf.String(), "text/plain")
		assert.Contains(t, buf.String(), "2025-01-01T00:01:00Z")
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Error(t, WriteKeys(&bytes.Buffer{}, testKeys(), "xml"))
	})
}

func TestParseValue(t *testing.T) {
	value, err := parseValue("hello", false)
	require.NoError(t, err)
	assert.Equal(t, codec.Text("hello"), value)

	value, err = parseValue(`{"a": [1, 2]}`, true)
	require.NoError(t, err)
	data, contentType, err := codec.Encode(nil, value)
	require.NoError(t, err)
	assert.Equal(t, codec.StructuredContentType, contentType)
	assert.JSONEq(t, `{"a": [1, 2]}`, string(data))

	_, err = parseValue("not json", true)
	assert.Error(t, err)
}
