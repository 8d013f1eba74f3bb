// Package gauge maps Fahrenheit values onto thermometer geometry and builds
// the static layout (tube, bulb, ticks, freezing line) a renderer draws.
//
// Everything here is pure: the same Config always yields the same Layout and
// the same value-to-pixel mapping. Coordinates follow screen convention, so a
// hotter value sits higher and therefore has a smaller Y.
package gauge

import (
	"errors"
	"fmt"
)

// Config holds the fixed display constants for one thermometer.
type Config struct {
	Width      float64
	Height     float64
	TubeWidth  float64
	BulbRadius float64

	// TopMargin is the Y of the top of the tube.
	TopMargin float64
	// BulbMargin is the distance from the bottom edge to the bulb centre.
	BulbMargin float64
	// BulbOverlap extends the tube bottom into the bulb.
	BulbOverlap float64
	// FillOverlap is added to the mercury height so no gap shows between the
	// fill and the bulb.
	FillOverlap float64

	// FMin and FMax bound the labelled temperature domain in °F.
	FMin float64
	FMax float64

	FahrenheitTickStep float64
	CelsiusTickStep    float64
	CelsiusTickMin     float64
	CelsiusTickMax     float64
}

// DefaultConfig returns the dashboard's thermometer geometry.
func DefaultConfig() Config {
	return Config{
		Width:              200,
		Height:             500,
		TubeWidth:          22,
		BulbRadius:         28,
		TopMargin:          60,
		BulbMargin:         60,
		BulbOverlap:        4,
		FillOverlap:        4,
		FMin:               -20,
		FMax:               120,
		FahrenheitTickStep: 20,
		CelsiusTickStep:    10,
		CelsiusTickMin:     -30,
		CelsiusTickMax:     50,
	}
}

// Validate reports geometry that cannot be drawn. A failing Config is a
// programming error; callers should refuse to start rather than recover.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("display size must be positive, got %vx%v", c.Width, c.Height))
	}
	if c.TubeWidth <= 0 || c.BulbRadius <= 0 {
		errs = append(errs, errors.New("tube width and bulb radius must be positive"))
	}
	if c.FMax <= c.FMin {
		errs = append(errs, fmt.Errorf("empty temperature domain [%v, %v]", c.FMin, c.FMax))
	}
	if c.TubeBottom() <= c.TubeTop() {
		errs = append(errs, fmt.Errorf("tube bottom %v is not below tube top %v", c.TubeBottom(), c.TubeTop()))
	}
	if c.FahrenheitTickStep <= 0 || c.CelsiusTickStep <= 0 {
		errs = append(errs, errors.New("tick steps must be positive"))
	}
	return errors.Join(errs...)
}

// TubeX is the horizontal centre of the tube and bulb.
func (c Config) TubeX() float64 { return c.Width / 2 }

// TubeTop is the Y of the hottest end of the tube.
func (c Config) TubeTop() float64 { return c.TopMargin }

// BulbCY is the Y of the bulb centre.
func (c Config) BulbCY() float64 { return c.Height - c.BulbMargin }

// TubeBottom is the Y of the coldest end of the tube, just inside the bulb.
func (c Config) TubeBottom() float64 { return c.BulbCY() - c.BulbRadius + c.BulbOverlap }

// TubeHeight is the drawable length of the tube.
func (c Config) TubeHeight() float64 { return c.TubeBottom() - c.TubeTop() }
