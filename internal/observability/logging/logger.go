// Package logging provides contextual sub-loggers on top of the global
// zerolog logger configured at application startup.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithClient returns a logger with client context.
func WithClient(clientID string) zerolog.Logger {
	return log.With().
		Str("clientId", clientID).
		Logger()
}

// WithRequest returns a logger with relay request context.
func WithRequest(route, clientID, requestID string) zerolog.Logger {
	return log.With().
		Str("route", route).
		Str("clientId", clientID).
		Str("requestId", requestID).
		Logger()
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
