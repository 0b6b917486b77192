package dashboard

import (
	"fmt"
	"math"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/launch"
)

// SiteOptions returns the dropdown entries: "All Sites" first, then every
// site in the order it first appears in the table.
func SiteOptions(t *launch.Table) []types.SiteOption {
	sites := t.Sites()
	out := make([]types.SiteOption, 0, len(sites)+1)
	out = append(out, types.SiteOption{Label: types.AllSitesLabel, Value: types.AllSites})
	for _, s := range sites {
		out = append(out, types.SiteOption{Label: s, Value: s})
	}
	return out
}

// SliderSpec is the fixed geometry of the payload slider.
type SliderSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// NewSlider returns the slider description for t. Marks are placed at Min and
// then every Step up to Max, labelled "N kg". The initial value spans the
// lightest to heaviest payload in the table.
func NewSlider(spec SliderSpec, t *launch.Table) types.Slider {
	lo, hi := t.PayloadBounds()
	s := types.Slider{
		Min:     spec.Min,
		Max:     spec.Max,
		Step:    spec.Step,
		Marks:   make([]types.SliderMark, 0),
		Initial: types.PayloadRange{Low: lo, High: hi},
	}
	s.Marks = append(s.Marks, mark(spec.Min))
	if spec.Step <= 0 {
		return s
	}
	first := math.Ceil(spec.Min/spec.Step) * spec.Step
	if first == spec.Min {
		first += spec.Step
	}
	for v := first; v <= spec.Max; v += spec.Step {
		s.Marks = append(s.Marks, mark(v))
	}
	return s
}

func mark(v float64) types.SliderMark {
	return types.SliderMark{Value: v, Label: fmt.Sprintf("%s kg", formatKg(v))}
}

func formatKg(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
