package gauge

import (
	"strconv"

	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
)

// Rect is an axis-aligned rectangle with optional rounded corners.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius,omitempty"`
}

// Circle is a circle by centre and radius.
type Circle struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// Line is a straight segment.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Tick is one scale mark. Value is in the tick's own unit; F is the same
// temperature in Fahrenheit, which determines the mark's Y.
type Tick struct {
	Value float64 `json:"value"`
	F     float64 `json:"f"`
	Label string  `json:"label"`
	Mark  Line    `json:"mark"`
	// LabelX and LabelY anchor the label text.
	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`
}

// Layout is the static geometry of a thermometer. The mercury fill is the
// only element that changes at runtime and is not part of it; MercuryClip is
// the region the fill is clipped to.
type Layout struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Tube            Rect    `json:"tube"`
	MercuryClip     Rect    `json:"mercury_clip"`
	Bulb            Circle  `json:"bulb"`
	FahrenheitTicks []Tick  `json:"fahrenheit_ticks"`
	CelsiusTicks    []Tick  `json:"celsius_ticks"`
	FreezeLine      Line    `json:"freeze_line"`
}

const (
	tickLength = 8
	tickGap    = 4
	labelGap   = 6
	clipInset  = 2
)

// BuildLayout computes the fixed elements for cfg. Fahrenheit ticks sit left
// of the tube every FahrenheitTickStep across [FMin, FMax]; Celsius ticks sit
// right of it every CelsiusTickStep across [CelsiusTickMin, CelsiusTickMax],
// keeping only those whose Fahrenheit equivalent lies inside [FMin, FMax].
func BuildLayout(cfg Config) Layout {
	x := cfg.TubeX()
	left := x - cfg.TubeWidth/2
	right := x + cfg.TubeWidth/2

	l := Layout{
		Width:  cfg.Width,
		Height: cfg.Height,
		Tube: Rect{
			X:      left,
			Y:      cfg.TubeTop(),
			Width:  cfg.TubeWidth,
			Height: cfg.TubeHeight(),
			Radius: cfg.TubeWidth / 2,
		},
		MercuryClip: Rect{
			X:      left + clipInset,
			Y:      cfg.TubeTop(),
			Width:  cfg.TubeWidth - 2*clipInset,
			Height: cfg.TubeHeight(),
		},
		Bulb: Circle{CX: x, CY: cfg.BulbCY(), R: cfg.BulbRadius},
	}

	for _, f := range steps(cfg.FMin, cfg.FMax, cfg.FahrenheitTickStep) {
		y := cfg.ValueToY(f)
		l.FahrenheitTicks = append(l.FahrenheitTicks, Tick{
			Value:  f,
			F:      f,
			Label:  degreeLabel(f),
			Mark:   Line{X1: left - tickGap - tickLength, Y1: y, X2: left - tickGap, Y2: y},
			LabelX: left - tickGap - tickLength - labelGap,
			LabelY: y,
		})
	}

	for _, c := range steps(cfg.CelsiusTickMin, cfg.CelsiusTickMax, cfg.CelsiusTickStep) {
		f := domain.CelsiusToFahrenheit(c)
		if !cfg.InDomain(f) {
			continue
		}
		y := cfg.ValueToY(f)
		l.CelsiusTicks = append(l.CelsiusTicks, Tick{
			Value:  c,
			F:      f,
			Label:  degreeLabel(c),
			Mark:   Line{X1: right + tickGap, Y1: y, X2: right + tickGap + tickLength, Y2: y},
			LabelX: right + tickGap + tickLength + labelGap,
			LabelY: y,
		})
	}

	freezeY := cfg.ValueToY(domain.FreezingF)
	l.FreezeLine = Line{
		X1: left - tickGap - tickLength,
		Y1: freezeY,
		X2: right + tickGap + tickLength,
		Y2: freezeY,
	}

	return l
}

// steps returns from, from+step, ... up to and including to.
func steps(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int((to-from)/step+1e-9) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func degreeLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°"
}
