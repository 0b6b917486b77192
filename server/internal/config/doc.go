// Package config loads the dashboard configuration from config.yaml and the
// environment.
//
// Config fields:
//   - Server.HTTPPort      - page, REST API, /metrics and /ws/stream (default 8080)
//   - Server.GRPCPort      - dashboard RPC API; 0 disables it (default 50051)
//   - Server.PushInterval  - WebSocket keepalive period (default 30s)
//   - Server.UI            - serve the HTML page at "/" (default true)
//   - Dataset.Path         - CSV file or SQLite database (default spacex_launch_dash.csv)
//   - Dataset.Format       - csv | sqlite; inferred from the extension when empty
//   - Dataset.Table        - SQLite table name (default launches)
//   - Dataset.Watch        - reload the dataset when the file changes
//   - Slider.Min/Max/Step  - payload slider geometry (default 0 / 10000 / 1000)
//   - Telemetry.OTelEndpoint, Telemetry.ServiceName - tracing export
//   - Log.Level, Log.Format - slog handler settings
//
// Load(path, optional) applies defaults, then the YAML file, then
// LAUNCHDASH_* environment variables, then validates. Watch re-runs Load
// whenever the file is written.
package config
