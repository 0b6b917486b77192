package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/api"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/launch"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxCommandSize bounds a single client command.
	maxCommandSize = 1024
)

// Command types accepted from clients.
const (
	CmdSelectSite = "select_site"
	CmdSetPayload = "set_payload"
	CmdRefresh    = "refresh"
)

// Event names sent to clients.
const (
	EventOptions = "options"
	EventCharts  = "charts"
	EventError   = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Command is one selection change sent by a client.
type Command struct {
	Type string  `json:"type"`
	Site string  `json:"site,omitempty"`
	Low  float64 `json:"low,omitempty"`
	High float64 `json:"high,omitempty"`
}

// Options is the payload of an options event.
type Options struct {
	Sites  []types.SiteOption `json:"sites"`
	Slider types.Slider       `json:"slider"`
}

// Charts is the payload of a charts event. A nil chart was not affected by
// the change that produced the event.
type Charts struct {
	Selection types.Selection      `json:"selection"`
	Pie       *api.PieResponse     `json:"pie,omitempty"`
	Scatter   *api.ScatterResponse `json:"scatter,omitempty"`
}

// ErrorData is the payload of an error event.
type ErrorData struct {
	Error string `json:"error"`
}

// Hub manages WebSocket client connections. Each client carries its own
// selection session.
type Hub struct {
	store    *store.Store
	slider   dashboard.SliderSpec
	metrics  *metrics.Registry
	interval time.Duration
	reloads  chan *launch.Table

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	conn *websocket.Conn

	sendMu sync.Mutex // guards send and closed
	send   chan []byte
	closed bool

	sessMu  sync.Mutex
	session *dashboard.Session
}

// New creates a Hub reading tables from st. It subscribes to st so clients
// are refreshed after a dataset reload.
func New(st *store.Store, slider dashboard.SliderSpec, m *metrics.Registry, interval time.Duration) *Hub {
	h := &Hub{
		store:    st,
		slider:   slider,
		metrics:  m,
		interval: interval,
		reloads:  make(chan *launch.Table, 1),
		clients:  make(map[*client]struct{}),
	}
	st.Subscribe(h.notifyReload)
	return h
}

// Run re-sends the dropdown options to all clients every interval and
// rebases every session after a dataset reload. Run blocks until ctx is
// cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case tbl := <-h.reloads:
			h.rebaseAll(tbl)
		case <-t.C:
			h.broadcastOptions()
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// It sends the options and the initial charts immediately, then applies
// commands until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}

	// The table is read after register while sessMu is held, so a reload
	// either lands before the read or is rebased onto this session after.
	c.sessMu.Lock()
	h.register(c)
	tbl := h.store.Table()
	c.session = dashboard.NewSession(tbl)
	c.enqueue(h.optionsMessage(tbl))
	u, err := c.session.Refresh()
	c.enqueue(h.updateMessage(u, err))
	c.sessMu.Unlock()
	defer h.unregister(c)

	h.observe([]string{metrics.ChartPie, metrics.ChartScatter}, err)

	go c.writePump()
	h.readPump(c) // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) snapshotClients() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// notifyReload keeps only the newest pending table.
func (h *Hub) notifyReload(t *launch.Table) {
	for {
		select {
		case h.reloads <- t:
			return
		default:
		}
		select {
		case <-h.reloads:
		default:
		}
	}
}

func (h *Hub) rebaseAll(t *launch.Table) {
	opts := h.optionsMessage(t)
	for _, c := range h.snapshotClients() {
		c.sessMu.Lock()
		u, err := c.session.Rebase(t)
		c.sessMu.Unlock()
		h.observe([]string{metrics.ChartPie, metrics.ChartScatter}, err)

		if !c.enqueue(opts) || !c.enqueue(h.updateMessage(u, err)) {
			// Client's outgoing buffer is full; disconnect it.
			h.unregister(c)
		}
	}
}

func (h *Hub) broadcastOptions() {
	msg := h.optionsMessage(h.store.Table())
	for _, c := range h.snapshotClients() {
		if !c.enqueue(msg) {
			h.unregister(c)
		}
	}
}

// handle applies one client command to its session and queues the reply.
func (h *Hub) handle(c *client, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		c.enqueue(errorMessage(fmt.Errorf("malformed command: %w", err)))
		return
	}

	var (
		u      dashboard.Update
		err    error
		charts []string
	)
	c.sessMu.Lock()
	switch cmd.Type {
	case CmdSelectSite:
		charts = []string{metrics.ChartPie, metrics.ChartScatter}
		u, err = c.session.SelectSite(cmd.Site)
	case CmdSetPayload:
		charts = []string{metrics.ChartScatter}
		u, err = c.session.SetPayloadRange(types.PayloadRange{Low: cmd.Low, High: cmd.High})
	case CmdRefresh:
		charts = []string{metrics.ChartPie, metrics.ChartScatter}
		u, err = c.session.Refresh()
	default:
		err = fmt.Errorf("unknown command type %q", cmd.Type)
	}
	c.sessMu.Unlock()

	h.observe(charts, err)
	if err != nil {
		slog.Debug("ws: command rejected", "type", cmd.Type, "err", err)
	}
	c.enqueue(h.updateMessage(u, err))
}

func (h *Hub) observe(charts []string, err error) {
	for _, ch := range charts {
		h.metrics.ObserveChart(ch, err)
	}
}

func (h *Hub) optionsMessage(t *launch.Table) []byte {
	return encode(Message{
		Event: EventOptions,
		Data: Options{
			Sites:  dashboard.SiteOptions(t),
			Slider: dashboard.NewSlider(h.slider, t),
		},
	})
}

func (h *Hub) updateMessage(u dashboard.Update, err error) []byte {
	if err != nil {
		return errorMessage(err)
	}
	data := Charts{Selection: u.Selection}
	if u.Pie != nil {
		p := api.ToPieResponse(u.Selection.Site, *u.Pie)
		data.Pie = &p
	}
	if u.Scatter != nil {
		s := api.ToScatterResponse(u.Selection, *u.Scatter)
		data.Scatter = &s
	}
	return encode(Message{Event: EventCharts, Data: data})
}

func errorMessage(err error) []byte {
	return encode(Message{Event: EventError, Data: ErrorData{Error: err.Error()}})
}

func encode(m Message) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		// Every payload is plain structs of strings and finite numbers.
		panic(fmt.Sprintf("ws: marshal %s message: %v", m.Event, err))
	}
	return b
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.close()
	}
}

// enqueue queues msg for the writer. It returns false if the client is
// closed or its buffer is full.
func (c *client) enqueue(msg []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads client commands and control frames until the connection
// closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxCommandSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handle(c, msg)
	}
}
