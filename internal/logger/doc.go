// Package logger wraps zap to offer:
//   - a global sugared logger with console or JSON encoding,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithLevel),
//   - level parsing and configuration,
//   - convenience functions (Info, InfoKV, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so names and
// key-values added upstream follow every log line.
package logger
