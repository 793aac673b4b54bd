package common

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RetryableHTTPLogger adapts a zerolog logger to the LeveledLogger interface of go-retryablehttp.
// retryablehttp pass its context as alternating key/value pairs, those become log fields.
type RetryableHTTPLogger struct {
	logger zerolog.Logger
}

// NewRetryableHTTPLogger create a new RetryableHTTPLogger logger
func NewRetryableHTTPLogger(logger zerolog.Logger) RetryableHTTPLogger {
	return RetryableHTTPLogger{
		logger: logger,
	}
}

func (l RetryableHTTPLogger) write(e *zerolog.Event, msg string, keysAndValues ...interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 == len(keysAndValues) {
			e = e.Interface("extra", keysAndValues[i])
			break
		}
		if err, ok := keysAndValues[i+1].(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, keysAndValues[i+1])
	}
	e.Msg(msg)
}

// Error print error level message
func (l RetryableHTTPLogger) Error(msg string, keysAndValues ...interface{}) {
	l.write(l.logger.Error(), msg, keysAndValues...)
}

// Warn print warn level message
func (l RetryableHTTPLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.write(l.logger.Warn(), msg, keysAndValues...)
}

// Debug print debug level message
func (l RetryableHTTPLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.write(l.logger.Debug(), msg, keysAndValues...)
}

// Info print info level message
func (l RetryableHTTPLogger) Info(msg string, keysAndValues ...interface{}) {
	l.write(l.logger.Info(), msg, keysAndValues...)
}
