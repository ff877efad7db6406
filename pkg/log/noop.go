package log

// NoopLogger implements Logger by dropping every message. It is the default
// for library code when the caller wires no logger.
type NoopLogger struct{}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Debug drops the message.
func (NoopLogger) Debug(msg string, fields ...Field) {}

// Info drops the message.
func (NoopLogger) Info(msg string, fields ...Field) {}

// Warn drops the message.
func (NoopLogger) Warn(msg string, fields ...Field) {}

// Error drops the message.
func (NoopLogger) Error(msg string, fields ...Field) {}
