// Package ws implements the WebSocket hub that drives the live dashboard.
//
// Every connection owns a dashboard.Session, i.e. its own dropdown and slider
// state. The hub is the event dispatcher: each command from the browser is
// applied to that session synchronously and the recomputed charts are sent
// straight back.
//
// New(store, slider, metrics, interval) creates a Hub and subscribes it to
// dataset reloads. Hub.Run(ctx) re-sends the dropdown options every interval
// and pushes fresh charts to every client after a reload. It blocks until ctx
// is cancelled, then closes all connections. Hub.ServeHTTP upgrades a
// request and serves one client.
//
// Commands accepted from clients:
//
//	{"type": "select_site", "site": "KSC LC-39A"}     - dropdown change
//	{"type": "set_payload", "low": 0, "high": 5000}   - slider change
//	{"type": "refresh"}                               - recompute both charts
//
// Messages sent to clients:
//
//	{"event": "options", "data": {"sites": [...], "slider": {...}}}
//	{"event": "charts",  "data": {"selection": {...}, "pie": {...}, "scatter": {...}}}
//	{"event": "error",   "data": {"error": "..."}}
//
// A dropdown change carries both pie and scatter; a slider change carries only
// scatter. On connect the client receives options followed by charts for the
// initial selection.
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/stream by the server.
package ws
