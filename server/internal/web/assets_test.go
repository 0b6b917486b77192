package web

import (
	"regexp"
	"strings"
	"testing"
)

// The server starts every session on the rendered defaults, so connecting
// must not push the slider unless the user has moved it.
func TestClientJS_OnOpen_ReplaysOnlyUserChoices(t *testing.T) {
	m := regexp.MustCompile(`(?s)ws\.onopen = function\(\)\{(.*?)\n  \};`).FindStringSubmatch(clientJS)
	if m == nil {
		t.Fatal("ws.onopen handler not found")
	}
	body := m[1]
	for _, want := range []string{
		`if (payloadMoved) sendPayload();`,
		`if (chosenSite !== null) send({type: "select_site", site: chosenSite});`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("onopen missing guard %q", want)
		}
	}
	if strings.Contains(body, `send({type: "set_payload"`) {
		t.Error("onopen sends set_payload unconditionally")
	}
	if !strings.Contains(clientJS, "payloadMoved = true;") {
		t.Error("slider change never marks the range as user-chosen")
	}
}

func TestClientJS_ScatterMarkersSizedByPayload(t *testing.T) {
	for _, want := range []string{
		`size: pts.map(function(p){ return p.payload_mass_kg; })`,
		`sizemode: "area"`,
		`sizeref:`,
	} {
		if !strings.Contains(clientJS, want) {
			t.Errorf("drawScatter missing %q", want)
		}
	}
}
