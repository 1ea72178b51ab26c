// Package session manages live visitor connections.
//
// # Overview
//
// A Session is created when a widget connects and destroyed when the
// connection closes; nothing about it survives the connection. The Registry
// tracks all live sessions so the relay can deliver Discord replies to a
// session that is still connected, and drop them otherwise.
//
// # Lifecycle
//
// On connect the handler registers the session and calls SendWelcome, which
// emits the connection confirmation followed by the static greeting. No
// conversation thread is created at this point; that happens lazily on the
// first visitor message.
//
// Liveness probes (ping) are answered immediately by SendPong with the
// current time and session ID, with no state change.
//
// On disconnect the handler tears down the directory mapping (via the relay)
// and unregisters the session.
//
// # Transport
//
// Sessions are transport-agnostic: they write through the Sender interface,
// implemented by the websocket connection in internal/server.
package session
