package util

import (
	"strings"

	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables read by the cli
	EnvPrefix = "cloudkv"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds the connection flags shared by all commands
func SetupClientFlags(cmd *cobra.Command) {
	defaults := common.DefaultClientConfig()

	key := "base-url"
	cmd.PersistentFlags().String(key, defaults.BaseURL, WrapString("Base URL of the cloudkv service"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, defaults.TimeoutSecond, WrapString("The timeout in seconds of a single request (0 disables the timeout)"))

	key = "retries"
	cmd.PersistentFlags().Int(key, defaults.RetryCount, WrapString("How many times to retry a request after a transport error"))

	key = "max-idle-conns"
	cmd.PersistentFlags().Int(key, defaults.MaxIdleConns, WrapString("Maximum number of idle connections kept in the pool"))

	key = "max-idle-conns-per-host"
	cmd.PersistentFlags().Int(key, defaults.MaxIdleConnsPerHost, WrapString("Maximum number of idle connections kept per host"))

	key = "idle-conn-timeout"
	cmd.PersistentFlags().Int(key, defaults.IdleConnTimeoutSecond, WrapString("How long an idle connection is kept (in seconds)"))

	key = "type-cache-size"
	cmd.PersistentFlags().Int(key, defaults.TypeCacheSize, WrapString("How many decoded types are cached (0 means unbounded)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warning", WrapString("Log level (debug, info, warning, error)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	conf := &common.ClientConfig{
		BaseURL:               viper.GetString("base-url"),
		TimeoutSecond:         viper.GetInt("timeout"),
		RetryCount:            viper.GetInt("retries"),
		MaxIdleConns:          viper.GetInt("max-idle-conns"),
		MaxIdleConnsPerHost:   viper.GetInt("max-idle-conns-per-host"),
		IdleConnTimeoutSecond: viper.GetInt("idle-conn-timeout"),
		TypeCacheSize:         viper.GetInt("type-cache-size"),
	}

	return conf
}

// GetLogLevel returns the configured log level
func GetLogLevel() string {
	return viper.GetString("log-level")
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// PrepareCommand binds the flags of cmd and configures the loggers.
// It is used as the persistent pre-run hook of every command group.
func PrepareCommand(cmd *cobra.Command) error {
	if err := BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(GetLogLevel())
}
