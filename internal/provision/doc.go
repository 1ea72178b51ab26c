// Package provision creates conversation threads on demand.
//
// Provisioning is a two-stage operation:
//
//  1. Primary: a thread titled with the current date/time, opened by a post
//     that mentions the support role and carries structured visitor context.
//  2. Fallback: after one fixed backoff, a thread with a visibly different
//     title and a minimal plain-text body embedding the failure reason.
//
// If both stages fail the caller receives a *provision.Error holding both
// causes. The contract is bounded by construction: provisioning either
// produces a working thread (possibly degraded) or one explicit, loggable
// failure; a visitor's first contact is never silently swallowed.
package provision
