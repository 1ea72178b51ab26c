// Package relay pumps messages across the session/thread bridge.
//
// # Inbound (visitor to Discord)
//
//  1. Acknowledge to the session immediately.
//  2. Resolve the directory entry; on miss, provision a thread and install
//     it. This is the only creation site, and it is on-demand: connecting
//     without sending never creates a thread.
//  3. Send the message into the thread, tagged with the support role and the
//     originating page.
//  4. On failure, run one recovery cycle: re-resolve the handle from the
//     platform, else provision a replacement (replacing the mapping), then
//     retry the send exactly once. A second failure is terminal for that
//     message: logged and counted, never requeued.
//
// # Outbound (Discord to visitor)
//
// Own-identity and bot authors are filtered, a TTL guard drops gateway
// redeliveries, the directory is reverse-scanned for the owning session, and
// the content plus its platform timestamp are forwarded, or dropped if the
// session is gone. The disconnect-between-receipt-and-scan race resolves to
// "drop", which is the defined behavior.
//
// # Failure containment
//
// Everything here fails per message and per session. No relay error crosses
// into another session's state, and no retry loop is unbounded.
package relay
