// Package web serves the single dashboard page at /.
//
// The page holds the title, a searchable site dropdown, the success pie
// chart, the payload range slider and the payload scatter chart. Dropdown
// options and slider geometry are embedded as a JSON bootstrap script;
// after load the page talks to /ws/stream and redraws charts with Plotly
// whenever a charts event arrives.
package web
