package dashboard

import (
	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/launch"
)

// Update is the result of one selection change. A nil dataset means the
// change does not affect that chart.
type Update struct {
	Selection types.Selection       `json:"selection"`
	Pie       *types.PieDataset     `json:"pie,omitempty"`
	Scatter   *types.ScatterDataset `json:"scatter,omitempty"`
}

// Session is one client's dropdown and slider state. The dropdown feeds both
// charts; the slider feeds only the scatter chart. A Session is not safe for
// concurrent use; each connection owns its own.
type Session struct {
	table *launch.Table
	sel   types.Selection
}

// NewSession starts with every site selected and the slider spanning the
// table's payload bounds.
func NewSession(t *launch.Table) *Session {
	lo, hi := t.PayloadBounds()
	return &Session{
		table: t,
		sel: types.Selection{
			Site:    types.AllSites,
			Payload: types.PayloadRange{Low: lo, High: hi},
		},
	}
}

// Selection returns the current selection.
func (s *Session) Selection() types.Selection { return s.sel }

// Table returns the table the session reads from.
func (s *Session) Table() *launch.Table { return s.table }

// SelectSite handles a dropdown change and recomputes both charts. The
// selection is left as it was if site is invalid.
func (s *Session) SelectSite(site string) (Update, error) {
	next := s.sel
	next.Site = site
	u, err := compute(s.table, next, true, true)
	if err != nil {
		return Update{}, err
	}
	s.sel = next
	return u, nil
}

// SetPayloadRange handles a slider change and recomputes the scatter chart.
// The selection is left as it was if r is invalid.
func (s *Session) SetPayloadRange(r types.PayloadRange) (Update, error) {
	next := s.sel
	next.Payload = r
	u, err := compute(s.table, next, false, true)
	if err != nil {
		return Update{}, err
	}
	s.sel = next
	return u, nil
}

// Refresh recomputes both charts for the current selection.
func (s *Session) Refresh() (Update, error) {
	return compute(s.table, s.sel, true, true)
}

// Rebase points the session at a new table, as after a dataset reload. A
// selected site missing from t falls back to types.AllSites; the payload
// range is kept.
func (s *Session) Rebase(t *launch.Table) (Update, error) {
	s.table = t
	if s.sel.Site != types.AllSites && !t.HasSite(s.sel.Site) {
		s.sel.Site = types.AllSites
	}
	return s.Refresh()
}

func compute(t *launch.Table, sel types.Selection, pie, scatter bool) (Update, error) {
	u := Update{Selection: sel}
	if pie {
		p, err := Aggregate(t, sel.Site)
		if err != nil {
			return Update{}, err
		}
		u.Pie = &p
	}
	if scatter {
		sc, err := Filter(t, sel.Site, sel.Payload)
		if err != nil {
			return Update{}, err
		}
		u.Scatter = &sc
	}
	return u, nil
}
