// Package http serves the dashboard: health and metrics endpoints, the JSON
// selection API, live SVG gauges, and the HTML page tying them together.
package http

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/thermo-gauge-service/internal/animate"
	"github.com/couchcryptid/thermo-gauge-service/internal/dashboard"
	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// maxSelectBody bounds POST /api/select request bodies.
const maxSelectBody = 1 << 12

// Dashboard is the selection service behind the API.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Dates() []string
	Record(date string) (domain.TemperatureRecord, error)
	Select(ctx context.Context, date string) (domain.TemperatureRecord, error)
	Snapshot() dashboard.Snapshot
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Dashboard Dashboard
	Gauges    []*render.SVGGauge
	Layout    gauge.Layout
	Cache     *render.Cache
	Logger    *slog.Logger
}

// Server exposes the dashboard over HTTP.
type Server struct {
	httpServer *http.Server
	deps       Deps
	gauges     map[string]*render.SVGGauge
	logger     *slog.Logger
}

// NewServer creates an HTTP server with health, metrics, API, and gauge routes.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		gauges: make(map[string]*render.SVGGauge, len(deps.Gauges)),
		logger: deps.Logger,
	}
	for _, g := range deps.Gauges {
		s.gauges[g.ID()] = g
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Dashboard))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/dates", s.handleDates)
	mux.HandleFunc("GET /api/records/{date}", s.handleRecord)
	mux.HandleFunc("POST /api/select", s.handleSelect)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/layout", s.handleLayout)
	mux.HandleFunc("GET /gauges/{file}", s.handleGaugeSVG)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type indexData struct {
	Dates    []string
	Selected string
	Gauges   []string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := indexData{
		Dates:    s.deps.Dashboard.Dates(),
		Selected: s.deps.Dashboard.Snapshot().Date,
	}
	for _, g := range s.deps.Gauges {
		data.Gauges = append(data.Gauges, g.ID())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *Server) handleDates(w http.ResponseWriter, _ *http.Request) {
	dates := s.deps.Dashboard.Dates()
	if dates == nil {
		dates = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Dashboard.Record(r.PathValue("date"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

type selectRequest struct {
	Date string `json:"date"`
}

type selectResponse struct {
	Record domain.TemperatureRecord `json:"record"`
	State  dashboard.Snapshot       `json:"state"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Date == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	rec, err := s.deps.Dashboard.Select(r.Context(), req.Date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, selectResponse{Record: rec, State: s.deps.Dashboard.Snapshot()})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Dashboard.Snapshot())
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Layout)
}

func (s *Server) handleGaugeSVG(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	g, ok := s.gauges[id]
	if !ok {
		http.NotFound(w, r)
		return
	}

	frame := g.Frame()
	var doc []byte
	var err error
	if s.deps.Cache != nil && s.settled(g.ID()) {
		doc, err = s.deps.Cache.GetOrRender(g.FrameKey(frame), func(buf io.Writer) error {
			return g.WriteFrame(buf, frame)
		})
	} else {
		var buf bytes.Buffer
		err = g.WriteFrame(&buf, frame)
		doc = buf.Bytes()
	}
	if err != nil {
		s.logger.Error("render gauge", "gauge", g.ID(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(doc) //nolint:errcheck // client went away
}

// settled reports whether gauge id has no transition in flight.
func (s *Server) settled(id string) bool {
	for _, g := range s.deps.Dashboard.Snapshot().Gauges {
		if g.ID == id {
			return g.State == animate.Idle
		}
	}
	return false
}

// writeError maps selection errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrDateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoDataset):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON marshals v before touching the response so a value that cannot
// be encoded yields a 500 instead of a 200 with an empty body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "status", status, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}` + "\n")) //nolint:errcheck // client went away
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // client went away
}
