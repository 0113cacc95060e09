// Package logger defines the structured, context-first logging interface of
// the builder. The zap implementation lives in internal/infrastructure/monitoring.
package logger

import (
	"context"
	"strings"
	"time"
)

// ================================================================================
// Logger Interface
// ================================================================================

// Logger defines the interface for structured logging. Every method takes the
// request context so implementations can attach request and trace ids.
type Logger interface {
	Debug(ctx context.Context, message string, fields ...Fields)
	Info(ctx context.Context, message string, fields ...Fields)
	Warn(ctx context.Context, message string, fields ...Fields)

	// Error logs message with err attached under the "error" key
	Error(ctx context.Context, message string, err error, fields ...Fields)

	// Fatal logs and exits the process
	Fatal(ctx context.Context, message string, err error, fields ...Fields)

	// WithFields returns a logger that adds fields to every entry
	WithFields(fields Fields) Logger

	// WithComponent returns a logger tagged with a component name ("keyapi")
	WithComponent(component string) Logger
}

// ================================================================================
// Field Helpers
// ================================================================================

// Fields is a set of key-value pairs attached to a log entry
type Fields map[string]interface{}

func String(key string, value string) Fields {
	return Fields{key: value}
}

func Int(key string, value int) Fields {
	return Fields{key: value}
}

func Float64(key string, value float64) Fields {
	return Fields{key: value}
}

// Duration renders value as a string ("1.5s")
func Duration(key string, value time.Duration) Fields {
	return Fields{key: value.String()}
}

func Any(key string, value interface{}) Fields {
	return Fields{key: value}
}

// Err attaches err under the "error" key; a nil err is dropped by Merge.
func Err(err error) Fields {
	if err == nil {
		return nil
	}
	return Fields{"error": err}
}

// Merge flattens several field sets into one; later keys win
func Merge(fields ...Fields) Fields {
	out := make(Fields)
	for _, f := range fields {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// ================================================================================
// Redaction
// ================================================================================

var sensitiveKeys = []string{"password", "secret", "token", "cookie", "authorization"}

// Redact masks the value of keys that may carry credentials, such as the
// forwarded key API cookie or the session signing secret. Other values pass
// through unchanged.
func Redact(key string, value interface{}) interface{} {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if !strings.Contains(lower, s) {
			continue
		}
		if str, ok := value.(string); ok && len(str) > 8 {
			return str[:4] + "***" + str[len(str)-4:]
		}
		return "***REDACTED***"
	}
	return value
}
