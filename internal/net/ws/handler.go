package ws

import (
	"log"
	nethttp "net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

const maxMessageBytes = 4 << 20

type HandlerConfig struct {
	Logger telemetry.Logger
	// System is the template for every session's navigation system. The
	// agent name is replaced per connection.
	System navsystem.Config
}

// Handler upgrades connections into navigation sessions. Every session owns
// a private navsystem.System, so agents never share a graph.
type Handler struct {
	cfg      HandlerConfig
	logger   telemetry.Logger
	upgrader websocket.Upgrader
	active   atomic.Int64
	total    atomic.Uint64
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		cfg:      cfg,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle serves /ws. The optional "agent" query parameter names the session
// in logs and events.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := h.total.Add(1)
	agent := r.URL.Query().Get("agent")
	if agent == "" {
		agent = "agent-" + strconv.FormatUint(id, 10)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", agent, err)
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	h.active.Add(1)
	defer h.active.Add(-1)

	sysCfg := h.cfg.System
	sysCfg.Agent = agent
	if sysCfg.Publisher == nil {
		sysCfg.Publisher = logging.NopPublisher()
	}
	s := newSession(agent, conn, navsystem.New(sysCfg), h.logger)
	s.serve(r.Context())
}

// Active reports the number of open sessions.
func (h *Handler) Active() int {
	return int(h.active.Load())
}

// Total reports how many sessions have been accepted since start.
func (h *Handler) Total() uint64 {
	return h.total.Load()
}
