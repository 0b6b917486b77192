// Package types defines the shared Go types used across the dashboard: launch
// records, the selection a client holds, and the chart datasets computed from
// them. These are the canonical in-memory representations; the JSON field
// names double as the HTTP, WebSocket and gRPC wire format.
package types
