package types

import "strconv"

// AllSites is the dropdown value that selects every launch site.
const AllSites = "ALL"

// AllSitesLabel is the dropdown label shown for AllSites.
const AllSitesLabel = "All Sites"

// Outcome is the binary launch outcome stored in the dataset's class column.
type Outcome int

const (
	Failure Outcome = 0
	Success Outcome = 1
)

// Valid reports whether o is one of Failure or Success.
func (o Outcome) Valid() bool {
	return o == Failure || o == Success
}

// String returns "1" or "0", matching the class column the pie chart groups on.
func (o Outcome) String() string {
	return strconv.Itoa(int(o))
}

// Record is one launch attempt. Records are never modified once loaded.
type Record struct {
	FlightNumber   int     `json:"flight_number,omitempty"`
	LaunchSite     string  `json:"launch_site"`
	PayloadMassKg  float64 `json:"payload_mass_kg"`
	BoosterVersion string  `json:"booster_version"`
	Class          Outcome `json:"class"`
}

// PayloadRange is the slider interval in kilograms.
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether kg lies strictly inside the range. Records exactly
// on either bound are outside.
func (r PayloadRange) Contains(kg float64) bool {
	return r.Low < kg && kg < r.High
}

// Widens reports whether r covers at least everything other covers.
func (r PayloadRange) Widens(other PayloadRange) bool {
	return r.Low <= other.Low && r.High >= other.High
}

// Selection is the dropdown and slider state held by one client.
type Selection struct {
	Site    string       `json:"site"`
	Payload PayloadRange `json:"payload"`
}

// PieSlice is one labelled count in a pie chart.
type PieSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PieDataset is everything needed to draw the success pie chart.
type PieDataset struct {
	Title  string     `json:"title"`
	Slices []PieSlice `json:"slices"`
}

// Total returns the sum of all slice counts.
func (p PieDataset) Total() int {
	n := 0
	for _, s := range p.Slices {
		n += s.Count
	}
	return n
}

// ScatterPoint is one launch plotted as payload mass against outcome.
// PayloadMassKg is also used as the marker size.
type ScatterPoint struct {
	PayloadMassKg  float64 `json:"payload_mass_kg"`
	Class          Outcome `json:"class"`
	BoosterVersion string  `json:"booster_version"`
}

// ScatterDataset is the filtered point set for the payload scatter chart.
type ScatterDataset struct {
	Points []ScatterPoint `json:"points"`
}

// Boosters returns the distinct booster versions in the order they first
// appear. Each one is drawn as its own colour group.
func (s ScatterDataset) Boosters() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range s.Points {
		if _, ok := seen[p.BoosterVersion]; ok {
			continue
		}
		seen[p.BoosterVersion] = struct{}{}
		out = append(out, p.BoosterVersion)
	}
	return out
}

// SiteOption is one entry in the site dropdown.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SliderMark is a labelled tick on the payload slider.
type SliderMark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Slider describes the payload range slider and its initial value.
type Slider struct {
	Min     float64      `json:"min"`
	Max     float64      `json:"max"`
	Step    float64      `json:"step"`
	Marks   []SliderMark `json:"marks"`
	Initial PayloadRange `json:"initial"`
}
