package api

import "github.com/launchdash/launchdash/pkg/types"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Records  int    `json:"records"`
	Sites    int    `json:"sites"`
	LoadedAt string `json:"loaded_at"` // RFC3339
}

// PieResponse is the payload for GET /api/v1/pie.
type PieResponse struct {
	Site   string           `json:"site"`
	Title  string           `json:"title"`
	Slices []types.PieSlice `json:"slices"`
	Total  int              `json:"total"`
}

// ScatterResponse is the payload for GET /api/v1/scatter.
type ScatterResponse struct {
	Selection types.Selection      `json:"selection"`
	Points    []types.ScatterPoint `json:"points"`
	Boosters  []string             `json:"boosters"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
