// Package constants defines the Twitch IRC endpoint and the default
// timeout values used throughout the chat watcher.
package constants

import "time"

const (
	// IRCAddress is the TLS-encrypted Twitch IRC chat server address.
	IRCAddress = "irc.chat.twitch.tv:6697"
	// IRCAnonymousUser is the read-only login used without an OAuth token.
	IRCAnonymousUser = "justinfan123123"
)

const (
	// DefaultGracefulShutdownTimeout is the timeout for graceful HTTP server shutdown.
	DefaultGracefulShutdownTimeout = 5 * time.Second
	// ForcedExitTimeout bounds the whole shutdown before the process exits anyway.
	ForcedExitTimeout = 30 * time.Second
	// WebSocketWriteTimeout bounds a single write to an event stream client.
	WebSocketWriteTimeout = 5 * time.Second
	// DefaultEventsBuffer is the per-client queue length of the event stream.
	DefaultEventsBuffer = 64
)
