package common

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// Names of the loggers used by this module
const (
	LoggerClient    = "client"
	LoggerTransport = "transport/http"
	LoggerCLI       = "cli"
)

// --------------------------------------------------------------------------
// Logger
// --------------------------------------------------------------------------

// cloudkvLogger writes one line per message: level, logger name, message.
// Messages more verbose than its level are dropped.
type cloudkvLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *cloudkvLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *cloudkvLogger) Debugf(format string, args ...interface{}) {
	l.logf(logger.DEBUG, "DEBUG", format, args)
}

func (l *cloudkvLogger) Infof(format string, args ...interface{}) {
	l.logf(logger.INFO, "INFO", format, args)
}

func (l *cloudkvLogger) Warningf(format string, args ...interface{}) {
	l.logf(logger.WARNING, "WARN", format, args)
}

func (l *cloudkvLogger) Errorf(format string, args ...interface{}) {
	l.logf(logger.ERROR, "ERROR", format, args)
}

// Panicf panics regardless of the level
func (l *cloudkvLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logf(logger.CRITICAL, "PANIC", "%s", []interface{}{msg})
	panic(msg)
}

func (l *cloudkvLogger) logf(threshold logger.LogLevel, tag, format string, args []interface{}) {
	if l.level < threshold {
		return
	}
	l.logger.Printf("%-5s | %-15s | %s", tag, l.name, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Setup
// --------------------------------------------------------------------------

// CreateLogger is the logger.Factory of this module. It logs to stderr at
// WARNING until InitLoggers changes the level.
func CreateLogger(pkgName string) logger.ILogger {
	stdLogger := log.New(os.Stderr, "", log.Ldate|log.Ltime)

	return &cloudkvLogger{
		name:   pkgName,
		level:  logger.WARNING,
		logger: stdLogger,
	}
}

// ParseLogLevel accepts debug, info, warn (or warning) and error in any case
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("%w: invalid log level %q, must be one of debug, info, warn, error", ErrInvalidConfig, level)
	}
}

var factoryOnce sync.Once

// InitLoggers installs the custom logger factory and sets the level of all
// loggers used by this module
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	factoryOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range []string{LoggerClient, LoggerTransport, LoggerCLI} {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
