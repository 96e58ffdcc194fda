// Package errs defines the error shapes the API returns to clients.
package errs
