package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingValue reports a row with an empty TMAX or TMIN column.
var ErrMissingValue = errors.New("missing temperature value")

// FreezingF is the freezing point of water in Fahrenheit.
const FreezingF = 32.0

// RawRow is one CSV row as read from the source file, before conversion.
type RawRow struct {
	Date string
	TMax string // tenths of °C
	TMin string // tenths of °C
}

// TemperatureRecord is a parsed daily observation in Fahrenheit.
type TemperatureRecord struct {
	Date string  `json:"date"`
	MinF float64 `json:"min_f"`
	MaxF float64 `json:"max_f"`
}

// ParseRow converts a raw CSV row into a TemperatureRecord. Rows with either
// temperature missing return ErrMissingValue and must be dropped whole.
func ParseRow(row RawRow) (TemperatureRecord, error) {
	date := strings.TrimSpace(row.Date)
	if date == "" {
		return TemperatureRecord{}, errors.New("parse row: empty DATE")
	}

	maxF, err := parseTenthsCelsius("TMAX", row.TMax)
	if err != nil {
		return TemperatureRecord{}, fmt.Errorf("parse row %s: %w", date, err)
	}
	minF, err := parseTenthsCelsius("TMIN", row.TMin)
	if err != nil {
		return TemperatureRecord{}, fmt.Errorf("parse row %s: %w", date, err)
	}

	return TemperatureRecord{Date: date, MinF: minF, MaxF: maxF}, nil
}

// parseTenthsCelsius parses an integer tenths-of-°C field and converts it to
// °F. Fractional, exponent and non-finite spellings are malformed.
func parseTenthsCelsius(column, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", column, ErrMissingValue)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", column, raw, err)
	}
	return TenthsCelsiusToFahrenheit(float64(v)), nil
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// TenthsCelsiusToFahrenheit converts the GHCN tenths-of-°C encoding to °F.
func TenthsCelsiusToFahrenheit(tenths float64) float64 {
	return CelsiusToFahrenheit(tenths / 10)
}

// FahrenheitToTenthsCelsius is the inverse of TenthsCelsiusToFahrenheit,
// rounded to the nearest integer tenth as stored in the source files.
func FahrenheitToTenthsCelsius(f float64) int {
	c := (f - 32) * 5 / 9
	tenths := c * 10
	if tenths < 0 {
		return int(tenths - 0.5)
	}
	return int(tenths + 0.5)
}
