package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger provides structured JSON logging with subscriber-email redaction.
// Contact addresses are PII; they never reach the log stream unmasked.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	redactPII bool
}

// New creates a logger writing JSON lines to out.
func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level, redactPII: true}
}

var defaultLogger = New(os.Stderr, INFO)

// SetLevel sets the minimum log level for the default logger.
func SetLevel(l Level) { defaultLogger.level = l }

// SetRedactPII enables or disables email redaction for the default logger.
func SetRedactPII(r bool) { defaultLogger.redactPII = r }

// Debug emits a DEBUG-level entry via the default logger.
func Debug(msg string, fields ...any) { defaultLogger.Log(DEBUG, msg, fields...) }

// Info emits an INFO-level entry via the default logger.
func Info(msg string, fields ...any) { defaultLogger.Log(INFO, msg, fields...) }

// Warn emits a WARN-level entry via the default logger.
func Warn(msg string, fields ...any) { defaultLogger.Log(WARN, msg, fields...) }

// Error emits an ERROR-level entry via the default logger.
func Error(msg string, fields ...any) { defaultLogger.Log(ERROR, msg, fields...) }

// Log emits an entry at the given level. Fields are alternating key/value
// pairs; a trailing key without a value is dropped.
func (l *Logger) Log(level Level, msg string, fields ...any) {
	if level < l.level {
		return
	}

	entry := map[string]any{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": levelNames[level],
		"msg":   msg,
	}

	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if l.redactPII {
			val = redactValue(key, val)
		}
		entry[key] = val
	}

	data, _ := json.Marshal(entry)
	l.mu.Lock()
	fmt.Fprintln(l.out, string(data))
	l.mu.Unlock()
}

func redactValue(key, val string) string {
	key = strings.ToLower(key)
	if strings.Contains(key, "email") || strings.Contains(key, "recipient") || strings.Contains(key, "contact") {
		return RedactEmail(val)
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}
