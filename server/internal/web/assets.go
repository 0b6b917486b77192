package web

import "strconv"

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

const pageCSS = `body{font-family:sans-serif;margin:0 2em}` +
	`h1{text-align:center;color:#503D36;font-size:40px}` +
	`#site-dropdown{width:100%;padding:6px;font-size:16px;box-sizing:border-box}` +
	`.chart{min-height:420px}` +
	`.slider{display:flex;gap:1em}.slider input{flex:1}`

// clientJS keeps one websocket open, turns input changes into commands and
// draws every charts event it receives.
const clientJS = `(function(){
var boot = JSON.parse(document.getElementById("launchdash-bootstrap").textContent);
var site = document.getElementById("site-dropdown");
var low = document.getElementById("payload-low");
var high = document.getElementById("payload-high");
var label = document.getElementById("payload-range-value");
var byLabel = {};
var ws;
// Only choices the user made are replayed on (re)connect; the server
// already starts every session on the rendered defaults.
var chosenSite = null;
var payloadMoved = false;

function setOptions(o) {
  var list = document.getElementById("site-options");
  list.innerHTML = "";
  byLabel = {};
  o.sites.forEach(function(s){
    var opt = document.createElement("option");
    opt.value = s.label;
    list.appendChild(opt);
    byLabel[s.label] = s.value;
  });
}

function showRange() { label.textContent = "[" + low.value + ", " + high.value + "] kg"; }

function send(cmd) { if (ws && ws.readyState === 1) ws.send(JSON.stringify(cmd)); }

function sendPayload() {
  var lo = Math.min(+low.value, +high.value), hi = Math.max(+low.value, +high.value);
  send({type: "set_payload", low: lo, high: hi});
}

function drawPie(p) {
  Plotly.react("success-pie-chart", [{
    type: "pie",
    labels: p.slices.map(function(s){ return s.label; }),
    values: p.slices.map(function(s){ return s.count; })
  }], {title: p.title});
}

function drawScatter(s) {
  var maxKg = s.points.reduce(function(m, p){ return Math.max(m, p.payload_mass_kg); }, 0);
  var traces = s.boosters.map(function(b){
    var pts = s.points.filter(function(p){ return p.booster_version === b; });
    return {
      type: "scatter", mode: "markers", name: b,
      x: pts.map(function(p){ return p.payload_mass_kg; }),
      y: pts.map(function(p){ return p.class; }),
      marker: {
        size: pts.map(function(p){ return p.payload_mass_kg; }),
        sizemode: "area",
        sizeref: maxKg > 0 ? 2 * maxKg / (40 * 40) : 1,
        sizemin: 4
      }
    };
  });
  Plotly.react("success-payload-scatter-chart", traces, {
    title: "Correlation between Payload and Success for " +
      (s.selection.site === "ALL" ? "all Sites" : "site " + s.selection.site),
    xaxis: {title: "Payload Mass (kg)"},
    yaxis: {title: "class", tickvals: [0, 1]}
  });
}

function connect() {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  ws = new WebSocket(proto + location.host + boot.stream);
  ws.onmessage = function(ev){
    var m = JSON.parse(ev.data);
    if (m.event === "options") setOptions(m.data);
    if (m.event === "charts") {
      if (m.data.pie) drawPie(m.data.pie);
      if (m.data.scatter) drawScatter(m.data.scatter);
    }
    if (m.event === "error") console.warn("launchdash:", m.data.error);
  };
  ws.onopen = function(){
    if (chosenSite !== null) send({type: "select_site", site: chosenSite});
    if (payloadMoved) sendPayload();
  };
  ws.onclose = function(){ setTimeout(connect, 2000); };
}

site.addEventListener("change", function(){
  var v = byLabel[site.value];
  if (v === undefined) return;
  chosenSite = v;
  send({type: "select_site", site: v});
});
[low, high].forEach(function(el){
  el.addEventListener("input", showRange);
  el.addEventListener("change", function(){
    payloadMoved = true;
    sendPayload();
  });
});

setOptions(boot);
showRange();
connect();
})();`
