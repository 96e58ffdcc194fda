// Package middleware holds the echo middleware: request ids, request
// loggers, tracing, rate limiting, Clerk authentication and the JSON error
// handler.
package middleware
