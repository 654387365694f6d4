// Package api handles incoming HTTP requests: routing, request validation
// and response formatting. It adapts external clients to the scheduler and
// never exposes internal error details.
package api
