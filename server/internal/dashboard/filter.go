package dashboard

import (
	"fmt"
	"math"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/launch"
)

// Filter returns the scatter chart dataset: every launch from site (or from
// any site for types.AllSites) whose payload mass is strictly inside r.
// A launch whose payload equals r.Low or r.High is left out. Points keep the
// table's order.
func Filter(t *launch.Table, site string, r types.PayloadRange) (types.ScatterDataset, error) {
	if err := checkSite(t, site); err != nil {
		return types.ScatterDataset{}, err
	}
	if err := CheckRange(r); err != nil {
		return types.ScatterDataset{}, err
	}

	points := make([]types.ScatterPoint, 0)
	for i := 0; i < t.Len(); i++ {
		rec := t.At(i)
		if site != types.AllSites && rec.LaunchSite != site {
			continue
		}
		if !r.Contains(rec.PayloadMassKg) {
			continue
		}
		points = append(points, types.ScatterPoint{
			PayloadMassKg:  rec.PayloadMassKg,
			Class:          rec.Class,
			BoosterVersion: rec.BoosterVersion,
		})
	}
	return types.ScatterDataset{Points: points}, nil
}

// CheckRange reports whether r is a usable slider value: finite,
// non-negative and not inverted. Low == High is allowed and matches nothing.
func CheckRange(r types.PayloadRange) error {
	for _, v := range []float64{r.Low, r.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite, got [%v, %v]", ErrInvalidRange, r.Low, r.High)
		}
		if v < 0 {
			return fmt.Errorf("%w: bounds must not be negative, got [%v, %v]", ErrInvalidRange, r.Low, r.High)
		}
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %v is greater than high %v", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}
