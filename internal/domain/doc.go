// Package domain models daily temperature observations and the dataset the
// dashboard selects from.
//
// # Data Source
//
// Records come from a GHCN-Daily style CSV export (the dashboard ships with a
// synthetic file of the same shape, see cmd/genmock). Only three columns are
// read; any others are ignored:
//
//	DATE  calendar-day key, e.g. "2020-01-01". Treated as an opaque string.
//	TMAX  daily maximum temperature in tenths of a degree Celsius.
//	TMIN  daily minimum temperature in tenths of a degree Celsius.
//
// # Unit Conversion
//
// Temperatures are converted to Fahrenheit once, at parse time:
//
//	F = (raw / 10) × 9/5 + 32
//
// so "-56" becomes 21.92°F and "317" becomes 89.06°F.
//
// # Missing Values
//
// An empty TMAX or TMIN means the station did not report. Such rows are
// discarded entirely rather than rendered with one gauge stale; see
// [ErrMissingValue]. No other validation is applied: a row with TMIN above
// TMAX is passed through as-is and rendered as reported.
package domain
