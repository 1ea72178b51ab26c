// Package directory holds the in-memory session-to-thread mapping.
//
// The directory is process-wide shared mutable state. The relay engine and
// the session lifecycle teardown are its only mutators; the inbound Discord
// message path only reads (FindByThread).
//
// Invariants:
//
//   - At most one active thread per live session; Set replaces, never appends.
//   - An entry never outlives its session; it is removed on disconnect.
//   - No persistence; a restart loses all mappings and the visitors
//     reconnect as new sessions.
package directory
