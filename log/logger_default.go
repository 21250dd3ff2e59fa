package log

import (
	"io"
	"os"

	"github.com/nanovms/hvctl/types"
)

var defaultLogger = New(os.Stderr)

// InitDefault creates default logger for package-level logging access.
func InitDefault(output io.Writer, config *types.Config) {
	defaultLogger = New(output)

	if config == nil {
		return
	}

	if config.RunConfig.ShowDebug {
		defaultLogger.SetDebug(true)
		defaultLogger.SetWarn(true)
		defaultLogger.SetError(true)
		defaultLogger.SetInfo(true)
	}

	if config.RunConfig.ShowWarnings {
		defaultLogger.SetWarn(true)
	}

	if config.RunConfig.ShowErrors {
		defaultLogger.SetError(true)
	}

	if config.RunConfig.Verbose {
		defaultLogger.SetInfo(true)
	}

	if config.RunConfig.JSON {
		defaultLogger.SetPlain(true)
	}
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// Info logs info-level message using default logger.
func Info(message string, a ...interface{}) {
	defaultLogger.Infof(message, a...)
}

// Warn logs warning-level message using default logger.
func Warn(message string, a ...interface{}) {
	defaultLogger.Warnf(message, a...)
}

// Debug logs debug-level message using default logger.
func Debug(message string, a ...interface{}) {
	defaultLogger.Debugf(message, a...)
}
