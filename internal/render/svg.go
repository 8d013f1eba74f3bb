// Package render draws gauges. SVGGauge keeps the latest fill and palette for
// one thermometer and writes it as a standalone SVG document; Fanout copies
// updates to several targets; Cache memoises rendered documents.
package render

import (
	"embed"
	"io"
	"math"
	"strconv"
	"sync"
	"text/template"

	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
)

//go:embed templates/gauge.svg.tmpl
var templatesFS embed.FS

var gaugeTmpl = template.Must(template.New("gauge.svg.tmpl").
	Funcs(template.FuncMap{"num": formatNum}).
	ParseFS(templatesFS, "templates/gauge.svg.tmpl"))

// Frame is the mutable part of a gauge drawing.
type Frame struct {
	Y       float64       `json:"y"`
	Height  float64       `json:"height"`
	Palette gauge.Palette `json:"palette"`
}

// SVGGauge is a Renderable that retains the last frame it was given.
type SVGGauge struct {
	id     string
	layout gauge.Layout

	mu    sync.RWMutex
	frame Frame
}

// NewSVGGauge creates an empty gauge: no mercury, cold palette.
func NewSVGGauge(id string, cfg gauge.Config) *SVGGauge {
	return &SVGGauge{
		id:     id,
		layout: gauge.BuildLayout(cfg),
		frame: Frame{
			Y:       cfg.TubeBottom(),
			Height:  0,
			Palette: gauge.Cold,
		},
	}
}

// SetFillGeometry implements animate.Renderable.
func (s *SVGGauge) SetFillGeometry(y, height float64) {
	s.mu.Lock()
	s.frame.Y = y
	s.frame.Height = height
	s.mu.Unlock()
}

// SetPalette implements animate.Renderable.
func (s *SVGGauge) SetPalette(p gauge.Palette) {
	s.mu.Lock()
	s.frame.Palette = p
	s.mu.Unlock()
}

// Frame returns the latest frame.
func (s *SVGGauge) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

type svgData struct {
	ID         string
	Layout     gauge.Layout
	FillY      float64
	FillHeight float64
	Palette    gauge.Palette
}

// ID returns the gauge identifier used in element ids.
func (s *SVGGauge) ID() string {
	return s.id
}

// WriteFrame renders f with this gauge's layout.
func (s *SVGGauge) WriteFrame(w io.Writer, f Frame) error {
	return gaugeTmpl.Execute(w, svgData{
		ID:         s.id,
		Layout:     s.layout,
		FillY:      f.Y,
		FillHeight: f.Height,
		Palette:    f.Palette,
	})
}

// FrameKey identifies the document WriteFrame produces for f, at the
// precision the template prints.
func (s *SVGGauge) FrameKey(f Frame) string {
	return s.id + "|" + f.Palette.Name + "|" + formatNum(f.Y) + "|" + formatNum(f.Height)
}

// formatNum prints coordinates to two decimal places without trailing zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
