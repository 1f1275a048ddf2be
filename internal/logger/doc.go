// Package logger is a small wrapper around zap that offers:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Debugf, InfoKV, etc.).
//
// Library code extracts the logger from its context, so callers decide
// where diagnostics go and at which level.
package logger
