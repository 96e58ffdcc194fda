// Package handler exposes the clinic services over HTTP. Endpoints are typed
// functions wrapped by Handle, which binds, validates, logs and traces.
package handler
