package net

import (
	"encoding/json"
	"io"
	"log"
	nethttp "net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/net/proto"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/net/ws"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/observability"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

const maxPathRequestBytes = 4 << 20

type HTTPHandlerConfig struct {
	Logger        telemetry.Logger
	Observability observability.Config
	// System is the template for one-shot /path queries and websocket
	// sessions.
	System navsystem.Config
	// Metrics backs the /diagnostics snapshot.
	Metrics *logging.Metrics
	// Router, when set, contributes its delivery counters to /diagnostics.
	Router *logging.Router
	// Gatherer serves /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// PathRequest is the body of POST /path: a map and a query in one call.
type PathRequest struct {
	Build proto.BuildRequest `json:"build"`
	Query proto.PathQuery    `json:"query"`
}

func NewHTTPHandler(cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	sessions := ws.NewHandler(ws.HandlerConfig{Logger: logger, System: cfg.System})
	started := time.Now()

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status         string               `json:"status"`
			ServerTime     int64                `json:"serverTime"`
			UptimeMillis   int64                `json:"uptimeMillis"`
			ActiveSessions int                  `json:"activeSessions"`
			TotalSessions  uint64               `json:"totalSessions"`
			Logging        *logging.RouterStats `json:"logging,omitempty"`
			Telemetry      map[string]uint64    `json:"telemetry"`
		}{
			Status:         "ok",
			ServerTime:     time.Now().UnixMilli(),
			UptimeMillis:   time.Since(started).Milliseconds(),
			ActiveSessions: sessions.Active(),
			TotalSessions:  sessions.Total(),
			Telemetry:      cfg.Metrics.Snapshot(),
		}
		if cfg.Router != nil {
			stats := cfg.Router.Stats()
			payload.Logging = &stats
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/path", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		if r.Body == nil {
			httpError(w, "invalid payload", nethttp.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		var req PathRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxPathRequestBytes))
		if err := decoder.Decode(&req); err != nil {
			httpError(w, "invalid payload", nethttp.StatusBadRequest)
			return
		}

		m, params, err := req.Build.CollisionMap()
		if err != nil {
			httpError(w, err.Error(), nethttp.StatusBadRequest)
			return
		}
		sysCfg := cfg.System
		sysCfg.Agent = "http"
		sys := navsystem.New(sysCfg)
		if err := sys.Build(r.Context(), m, params); err != nil {
			httpError(w, err.Error(), nethttp.StatusBadRequest)
			return
		}
		anchor, found := sys.FindPath(r.Context(), req.Query.Start.World(), req.Query.Goal.World())

		data, err := proto.Marshal(proto.NewPathMessage(0, anchor, found, sys), proto.EncodingJSON)
		if err != nil {
			logger.Printf("failed to marshal path response: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/ws", sessions.Handle)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if cfg.Observability.EnablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
