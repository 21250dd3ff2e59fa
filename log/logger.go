package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Level is a set of enabled message levels
type Level uint8

// Message levels
const (
	LevelError Level = 1 << iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger filters and prints messages to a destination. It is safe for
// concurrent use.
type Logger struct {
	mu     sync.Mutex
	output io.Writer
	levels Level
	plain  bool
}

// New returns an instance of Logger with every level off
func New(output io.Writer) *Logger {
	return &Logger{output: output}
}

func (l *Logger) set(level Level, value bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if value {
		l.levels |= level
	} else {
		l.levels &^= level
	}
}

// SetInfo activates/deactivates info level
func (l *Logger) SetInfo(value bool) { l.set(LevelInfo, value) }

// SetWarn activates/deactivates warn level
func (l *Logger) SetWarn(value bool) { l.set(LevelWarn, value) }

// SetError activates/deactivates error level
func (l *Logger) SetError(value bool) { l.set(LevelError, value) }

// SetDebug activates/deactivates debug level
func (l *Logger) SetDebug(value bool) { l.set(LevelDebug, value) }

// SetPlain disables color directives, e.g. when output is not a terminal
func (l *Logger) SetPlain(value bool) {
	l.mu.Lock()
	l.plain = value
	l.mu.Unlock()
}

// Enabled reports whether level is active
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.levels&level != 0
}

// Logf writes a formatted message to the output regardless of level
func (l *Logger) Logf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.output, msg)
}

func (l *Logger) logf(level Level, color, format string, a ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	msg := strings.TrimSuffix(fmt.Sprintf(format, a...), "\n")
	l.mu.Lock()
	plain := l.plain
	l.mu.Unlock()
	if plain {
		l.Logf("%s", msg)
		return
	}
	l.Logf("%s%s%s", color, msg, ConsoleColors.Reset())
}

// Infof writes the message if info level is active
func (l *Logger) Infof(format string, a ...interface{}) {
	l.logf(LevelInfo, ConsoleColors.Blue(), format, a...)
}

// Warnf writes the message if warn level is active
func (l *Logger) Warnf(format string, a ...interface{}) {
	l.logf(LevelWarn, ConsoleColors.Yellow(), format, a...)
}

// Errorf writes the message if error level is active
func (l *Logger) Errorf(format string, a ...interface{}) {
	l.logf(LevelError, ConsoleColors.Red(), format, a...)
}

// Error writes err if error level is active
func (l *Logger) Error(err error) {
	l.logf(LevelError, ConsoleColors.Red(), "%s", err.Error())
}

// Debugf writes the message if debug level is active
func (l *Logger) Debugf(format string, a ...interface{}) {
	l.logf(LevelDebug, ConsoleColors.Cyan(), format, a...)
}
