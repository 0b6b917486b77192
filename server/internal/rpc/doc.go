// Package rpc serves the dashboard over gRPC as launchdash.v1.Dashboard.
//
// The service has three unary methods mirroring the HTTP API:
//
//	Sites   -> dropdown options and slider description
//	Pie     -> success pie chart for one site or all sites
//	Scatter -> payload scatter chart for a site and payload range
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype, so no generated protobuf code is needed. Clients
// built with Dial select the codec automatically; other clients must send
// content-type application/grpc+json.
//
// Invalid selections and ranges map to codes.InvalidArgument.
package rpc
