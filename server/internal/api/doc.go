// Package api implements the HTTP REST API for the launch records dashboard.
//
// New(store, slider, metrics) returns an http.Handler that serves:
//
//	GET /api/v1/health                      - record count, site count, load time
//	GET /api/v1/sites                       - dropdown options, "All Sites" first
//	GET /api/v1/slider                      - payload slider geometry and initial value
//	GET /api/v1/pie?site=                   - success pie dataset (site defaults to ALL)
//	GET /api/v1/scatter?site=&low=&high=    - payload scatter dataset
//	GET /api/v1/records                     - every record in load order
//
// low and high default to the lightest and heaviest payload in the table.
// Both bounds are exclusive.
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//   - Return 400 with {"error": "..."} for an unknown site or a bad range
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
