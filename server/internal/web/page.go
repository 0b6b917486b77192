package web

import (
	"context"
	"io"
	"math"

	"github.com/a-h/templ"

	"github.com/launchdash/launchdash/pkg/types"
)

// Page text.
const (
	Title             = "SpaceX Launch Records Dashboard"
	SitePlaceholder   = "Select a Launch Site here"
	PayloadRangeLabel = "Payload range (Kg):"
)

// Element IDs the client script relies on.
const (
	idBootstrap = "launchdash-bootstrap"
	idSite      = "site-dropdown"
	idSiteList  = "site-options"
	idPie       = "success-pie-chart"
	idLow       = "payload-low"
	idHigh      = "payload-high"
	idRange     = "payload-range-value"
	idMarks     = "payload-marks"
	idScatter   = "success-payload-scatter-chart"
)

const plotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Bootstrap is the data embedded in the page for the client script.
type Bootstrap struct {
	Sites    []types.SiteOption `json:"sites"`
	Slider   types.Slider       `json:"slider"`
	StreamWS string             `json:"stream"`
}

// Page renders the full dashboard document.
func Page(b Bootstrap) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(Title)+`</title>`+
			`<script src="`+plotlyURL+`"></script>`+
			`<style>`+pageCSS+`</style></head><body>`); err != nil {
			return err
		}
		if err := header().Render(ctx, w); err != nil {
			return err
		}
		if err := siteDropdown(b.Sites).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<div id="`+idPie+`" class="chart"></div>`); err != nil {
			return err
		}
		if err := payloadSlider(b.Slider).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<div id="`+idScatter+`" class="chart"></div>`); err != nil {
			return err
		}
		if err := templ.JSONScript(idBootstrap, b).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<script>`+clientJS+`</script></body></html>`)
		return err
	})
}

func header() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>`+templ.EscapeString(Title)+`</h1>`)
		return err
	})
}

// siteDropdown renders a text input backed by a datalist, which browsers
// filter as the user types.
func siteDropdown(sites []types.SiteOption) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<input id="`+idSite+`" list="`+idSiteList+`" `+
			`placeholder="`+templ.EscapeString(SitePlaceholder)+`" `+
			`value="`+templ.EscapeString(types.AllSitesLabel)+`" autocomplete="off">`+
			`<datalist id="`+idSiteList+`">`); err != nil {
			return err
		}
		for _, s := range sites {
			if _, err := io.WriteString(w, `<option value="`+templ.EscapeString(s.Label)+`" `+
				`data-value="`+templ.EscapeString(s.Value)+`"></option>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</datalist><br>`)
		return err
	})
}

// stepAttr returns the step for the range inputs. Browsers snap a value to
// the step grid, so "any" is used when the initial range falls off it.
func stepAttr(s types.Slider) string {
	if s.Step <= 0 {
		return "any"
	}
	onGrid := func(v float64) bool {
		return math.Abs(math.Remainder(v-s.Min, s.Step)) < 1e-9
	}
	if !onGrid(s.Initial.Low) || !onGrid(s.Initial.High) {
		return "any"
	}
	return num(s.Step)
}

// payloadSlider renders two range inputs forming the low and high handles,
// sharing one datalist of tick marks.
func payloadSlider(s types.Slider) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		attrs := `min="` + num(s.Min) + `" max="` + num(s.Max) + `" step="` + stepAttr(s) + `" list="` + idMarks + `"`
		if _, err := io.WriteString(w, `<p>`+templ.EscapeString(PayloadRangeLabel)+
			` <span id="`+idRange+`"></span></p><div class="slider">`+
			`<input type="range" id="`+idLow+`" `+attrs+` value="`+num(s.Initial.Low)+`">`+
			`<input type="range" id="`+idHigh+`" `+attrs+` value="`+num(s.Initial.High)+`">`+
			`</div><datalist id="`+idMarks+`">`); err != nil {
			return err
		}
		for _, m := range s.Marks {
			if _, err := io.WriteString(w, `<option value="`+num(m.Value)+`" label="`+templ.EscapeString(m.Label)+`"></option>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</datalist>`)
		return err
	})
}
