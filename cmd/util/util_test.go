package util

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := "The timeout in seconds of a single request (0 disables the timeout)"
	wrapped := WrapString(text)

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(wrapped))
	assert.Equal(t, "", WrapString(""))
}

func TestGetClientConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	SetupClientFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--base-url", "http://localhost:8787/", "--timeout", "3", "--retries", "2"}))
	require.NoError(t, viper.BindPFlags(cmd.PersistentFlags()))

	conf := GetClientConfig()
	assert.Equal(t, "http://localhost:8787/", conf.BaseURL)
	assert.Equal(t, 3, conf.TimeoutSecond)
	assert.Equal(t, 2, conf.RetryCount)
	assert.Equal(t, 100, conf.MaxIdleConns)
	assert.Equal(t, 0, conf.TypeCacheSize)
	assert.NoError(t, conf.Validate())
	assert.Equal(t, "warning", GetLogLevel())
}

func TestEnvConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("CLOUDKV_TIMEOUT", "7")
	t.Setenv("CLOUDKV_TYPE_CACHE_SIZE", "16")

	InitClientConfig()
	cmd := &cobra.Command{Use: "test"}
	SetupClientFlags(cmd)
	require.NoError(t, viper.BindPFlags(cmd.PersistentFlags()))

	conf := GetClientConfig()
	assert.Equal(t, 7, conf.TimeoutSecond)
	assert.Equal(t, 16, conf.TypeCacheSize)
}
