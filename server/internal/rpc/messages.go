package rpc

import (
	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/api"
)

// SitesRequest asks for the dropdown options.
type SitesRequest struct{}

// SitesResponse carries the dropdown options and the slider description.
type SitesResponse struct {
	Sites  []types.SiteOption `json:"sites"`
	Slider types.Slider       `json:"slider"`
}

// PieRequest selects the site to aggregate. An empty site means all sites.
type PieRequest struct {
	Site string `json:"site"`
}

// PieResponse is the pie chart dataset.
type PieResponse = api.PieResponse

// ScatterRequest selects a site and payload range. A nil bound defaults to
// the table's lightest or heaviest payload.
type ScatterRequest struct {
	Site string   `json:"site"`
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

// ScatterResponse is the scatter chart dataset.
type ScatterResponse = api.ScatterResponse
