package dashboard

import (
	"fmt"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/launch"
)

// Pie chart titles.
const (
	TitleAllSites   = "Total Success Launches by Site"
	titleSiteFormat = "Total Success Launches for site %s"
)

// Aggregate returns the pie chart dataset for site.
//
// For types.AllSites only successful launches are counted, one slice per
// site; sites without a success get no slice. For a single site every launch
// from it is counted, one slice per outcome class. Slices appear in the order
// their label is first seen in the table.
func Aggregate(t *launch.Table, site string) (types.PieDataset, error) {
	if err := checkSite(t, site); err != nil {
		return types.PieDataset{}, err
	}

	var c counter
	if site == types.AllSites {
		for i := 0; i < t.Len(); i++ {
			if r := t.At(i); r.Class == types.Success {
				c.add(r.LaunchSite)
			}
		}
		return types.PieDataset{Title: TitleAllSites, Slices: c.slices()}, nil
	}

	for i := 0; i < t.Len(); i++ {
		if r := t.At(i); r.LaunchSite == site {
			c.add(r.Class.String())
		}
	}
	return types.PieDataset{Title: fmt.Sprintf(titleSiteFormat, site), Slices: c.slices()}, nil
}

// checkSite rejects sites the table has never seen.
func checkSite(t *launch.Table, site string) error {
	if site == types.AllSites || t.HasSite(site) {
		return nil
	}
	return fmt.Errorf("%w: unknown launch site %q", ErrInvalidSelection, site)
}

// counter tallies labels while remembering first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func (c *counter) add(label string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) slices() []types.PieSlice {
	out := make([]types.PieSlice, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, types.PieSlice{Label: l, Count: c.counts[l]})
	}
	return out
}
