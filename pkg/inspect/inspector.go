package inspect

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/ovan/internal/errors"
	"github.com/vango-dev/ovan/pkg/overlay"
	"github.com/vango-dev/ovan/pkg/render"
)

const (
	writeWait = 5 * time.Second

	// sendBuffer is how many messages a client may fall behind before it is
	// dropped.
	sendBuffer = 16
)

// Config configures an Inspector.
type Config struct {
	// Logger receives connection and request failures.
	// Default: slog.Default()
	Logger *slog.Logger

	// Gatherer backs GET /metrics. The route is absent when nil.
	Gatherer prometheus.Gatherer

	// Templates are the controllers POST /overlays can open, by name.
	Templates map[string]overlay.Controller

	// CheckOrigin validates websocket origins. Default: same host only.
	CheckOrigin func(r *http.Request) bool

	// Archive backs POST /archive. The route is absent when nil.
	Archive *Archive
}

// Option configures an Inspector.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		c.Gatherer = g
	}
}

// WithTemplate registers a controller that POST /overlays can open.
func WithTemplate(name string, controller overlay.Controller) Option {
	return func(c *Config) {
		if c.Templates == nil {
			c.Templates = make(map[string]overlay.Controller)
		}
		c.Templates[name] = controller
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

// WithArchive enables POST /archive.
func WithArchive(a *Archive) Option {
	return func(c *Config) {
		c.Archive = a
	}
}

// Inspector is an http.Handler exposing one provider.
type Inspector struct {
	provider *overlay.Provider
	cmds     overlay.Commands
	config   Config
	logger   *slog.Logger
	router   chi.Router
	renderer *render.Renderer
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*client]struct{}
	unsubscribe func()
}

// client is one websocket connection. Only its write loop writes to it.
type client struct {
	send      chan Message
	done      chan struct{}
	write     func(Message) error
	closeConn func() error
}

func newClient(write func(Message) error, closeConn func() error) *client {
	return &client{
		send:      make(chan Message, sendBuffer),
		done:      make(chan struct{}),
		write:     write,
		closeConn: closeConn,
	}
}

func connClient(conn *websocket.Conn) *client {
	return newClient(func(msg Message) error { return writeMessage(conn, msg) }, conn.Close)
}

// New creates an inspector for p and starts following its snapshots.
// Close releases the subscription and open connections.
func New(p *overlay.Provider, opts ...Option) *Inspector {
	config := Config{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	i := &Inspector{
		provider: p,
		cmds:     p.System().Commands(),
		config:   config,
		logger:   config.Logger.With("component", "inspect"),
		renderer: render.NewRenderer(render.RendererConfig{KeyAttr: true}),
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	i.router = i.routes()
	i.unsubscribe = p.SubscribeSnapshot(func(s *overlay.State) {
		view := NewSnapshotView(s)
		i.broadcast(Message{Type: "snapshot", Snapshot: &view})
	})
	return i
}

func (i *Inspector) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/snapshot", i.handleSnapshot)
	r.Get("/slots", i.handleSlots)
	r.Get("/render", i.handleRender)
	r.Post("/overlays", i.handleOpen)
	r.Post("/overlays/{id}/close", i.handleCommand(func(id string) error { return i.cmds.Close(id) }))
	r.Post("/overlays/{id}/unmount", i.handleCommand(func(id string) error { return i.cmds.Unmount(id) }))
	r.Post("/close-all", i.handleCommand(func(string) error { return i.cmds.CloseAll() }))
	r.Post("/unmount-all", i.handleCommand(func(string) error { return i.cmds.UnmountAll() }))
	r.Get("/ws", i.handleWebSocket)
	if i.config.Archive != nil {
		r.Post("/archive", i.handleArchive)
	}
	if i.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(i.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (i *Inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	i.router.ServeHTTP(w, r)
}

func (i *Inspector) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewSnapshotView(i.provider.Snapshot()))
}

func (i *Inspector) handleSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SlotsView{
		Active: nullable(i.provider.ActiveSlot()),
		Stack:  append([]string{}, i.provider.Slots()...),
	})
}

func (i *Inspector) handleRender(w http.ResponseWriter, r *http.Request) {
	html, err := i.renderer.RenderToString(i.provider.Render())
	if err != nil {
		i.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (i *Inspector) handleOpen(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("template")
	controller, ok := i.config.Templates[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorView{Message: "unknown template " + name})
		return
	}

	var opts []overlay.OpenOption
	if id := r.URL.Query().Get("id"); id != "" {
		opts = append(opts, overlay.WithID(id))
	}
	if slot := r.URL.Query().Get("slot"); slot != "" {
		opts = append(opts, overlay.WithSlot(slot))
	}

	id, err := i.cmds.Open(controller, opts...)
	if err != nil {
		i.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (i *Inspector) handleArchive(w http.ResponseWriter, r *http.Request) {
	key, err := i.config.Archive.Put(r.Context(), NewSnapshotView(i.provider.Snapshot()))
	if err != nil {
		i.writeError(w, err)
		return
	}
	i.logger.Info("snapshot archived", "bucket", i.config.Archive.Bucket(), "key", key)
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (i *Inspector) handleCommand(fn func(id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(chi.URLParam(r, "id")); err != nil {
			i.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := connClient(conn)
	view := NewSnapshotView(i.provider.Snapshot())
	i.register(c, Message{Type: "snapshot", Snapshot: &view})
	go i.writeLoop(c)

	// Keep the connection until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	i.drop(c)
}

// register adds c with first queued ahead of any broadcast.
func (i *Inspector) register(c *client, first Message) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clients[c] = struct{}{}
	c.send <- first
}

func (i *Inspector) writeLoop(c *client) {
	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				i.logger.Debug("websocket write failed", "error", err)
				i.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// broadcast queues msg for every client without waiting on the network.
// A client whose queue is full is dropped.
func (i *Inspector) broadcast(msg Message) {
	i.mu.Lock()
	var slow []*client
	for c := range i.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	i.mu.Unlock()

	for _, c := range slow {
		i.logger.Warn("dropping slow websocket client", "queued", sendBuffer)
		i.drop(c)
	}
}

// drop removes c and closes its connection. It is safe to call more than
// once.
func (i *Inspector) drop(c *client) {
	i.mu.Lock()
	_, ok := i.clients[c]
	if ok {
		delete(i.clients, c)
		close(c.done)
	}
	i.mu.Unlock()
	if ok {
		_ = c.closeConn()
	}
}

// ClientCount returns the number of connected websocket clients.
func (i *Inspector) ClientCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

// Close stops following the provider and disconnects every client.
func (i *Inspector) Close() {
	i.unsubscribe()

	i.mu.Lock()
	clients := make([]*client, 0, len(i.clients))
	for c := range i.clients {
		clients = append(clients, c)
	}
	i.mu.Unlock()
	for _, c := range clients {
		i.drop(c)
	}
}

func writeMessage(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps overlay errors to HTTP statuses.
func (i *Inspector) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	view := ErrorView{Message: err.Error()}

	var oe *errors.OverlayError
	if stderrors.As(err, &oe) {
		view.Code = oe.Code
		switch oe.Code {
		case "E100":
			status = http.StatusConflict
		case "E102":
			status = http.StatusGone
		case "E103", "E104":
			status = http.StatusBadRequest
		}
	}
	if status == http.StatusInternalServerError {
		i.logger.Error("inspector request failed", "error", err)
	}
	writeJSON(w, status, view)
}
