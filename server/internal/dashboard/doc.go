// Package dashboard computes the two chart datasets shown by the launch
// records dashboard.
//
// Aggregate(table, site) builds the success pie chart:
//   - site == types.AllSites: successful launches counted per site
//   - otherwise: all launches from site counted per outcome class ("1", "0")
//
// Filter(table, site, payload) builds the payload scatter chart: launches from
// site (or every site) whose payload mass lies strictly between payload.Low
// and payload.High, in table order.
//
// Both are pure functions of their arguments. Session holds one client's
// dropdown and slider state and calls them whenever that state changes.
package dashboard
