// Package logger wraps zap with a global sugared logger and a console
// encoder, plus context helpers (ToContext, FromContext, WithName, WithKV,
// WithFields) and leveled convenience functions (Infof, ErrorKV, etc.).
//
// Functions that log take a context and pull their logger from it, so a
// component can scope its output once with WithName and every call below
// it carries the scope.
package logger
