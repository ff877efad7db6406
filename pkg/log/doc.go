// Package log provides the logging abstraction used by seqtap components.
//
// The Logger interface can be implemented by any logging library. A zerolog
// adapter is provided for production use and a no-op logger for tests:
//
//	logger := log.NewZerologAdapter()
//	logger := log.NewNoopLogger()
//
// Custom integrations only need the four leveled methods:
//
//	type MyLogger struct{ ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field)  { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field)  { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
