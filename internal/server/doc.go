// Package server is the gateway's HTTP and websocket surface.
//
// # Endpoints
//
//   - GET /health: process liveness, platform connection state, uptime and
//     connection count. Always 200 while the process serves.
//   - GET /api/support-availability: live presence probe for the widget's
//     pre-connect check. Fails open: an inconclusive check reports available.
//   - GET /ws: the widget transport. One goroutine per connection; chat
//     frames relay synchronously so per-session ordering holds end to end.
//   - GET /metrics: Prometheus scrape endpoint, gated by configuration.
//   - /: embedded widget demo and static assets.
//
// # Origins
//
// The configured allow-list drives both the CORS headers and the websocket
// origin check. An empty list means any origin, which fits the widget's
// embed-anywhere deployment.
package server
