// Package availability decides whether the widget should present the chat.
//
// The Monitor polls Discord: is the designated support role non-empty, and
// does any of its members report an online-family presence (online, idle or
// do-not-disturb)? The result replaces a single cached boolean; no history
// or per-member accounting is kept.
//
// The failure policy is deliberately asymmetric. Inside the monitor a failed
// fetch leaves the cache untouched (fail-strict), so a stale "available"
// cannot be kept alive by a broken presence query. At the public HTTP
// endpoint a failed check still reports available=true (fail-open), so a
// visitor is never silently blocked from even attempting contact. Do not
// unify the two.
package availability
