package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRow(t *testing.T) {
	t.Run("converts tenths of celsius", func(t *testing.T) {
		rec, err := ParseRow(RawRow{Date: "2020-01-01", TMax: "317", TMin: "-56"})
		require.NoError(t, err)
		assert.Equal(t, "2020-01-01", rec.Date)
		assert.InDelta(t, 89.06, rec.MaxF, 1e-9)
		assert.InDelta(t, 21.92, rec.MinF, 1e-9)
	})

	t.Run("zero is freezing", func(t *testing.T) {
		rec, err := ParseRow(RawRow{Date: "2020-01-02", TMax: "0", TMin: "0"})
		require.NoError(t, err)
		assert.InDelta(t, FreezingF, rec.MaxF, 1e-9)
		assert.InDelta(t, FreezingF, rec.MinF, 1e-9)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		rec, err := ParseRow(RawRow{Date: " 2020-01-03 ", TMax: " 100 ", TMin: " 50"})
		require.NoError(t, err)
		assert.Equal(t, "2020-01-03", rec.Date)
		assert.InDelta(t, 50.0, rec.MaxF, 1e-9)
		assert.InDelta(t, 41.0, rec.MinF, 1e-9)
	})

	t.Run("min above max passes through", func(t *testing.T) {
		rec, err := ParseRow(RawRow{Date: "2020-01-04", TMax: "0", TMin: "100"})
		require.NoError(t, err)
		assert.Greater(t, rec.MinF, rec.MaxF)
	})

	t.Run("missing TMAX", func(t *testing.T) {
		_, err := ParseRow(RawRow{Date: "2020-01-05", TMax: "", TMin: "10"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingValue))
		assert.Contains(t, err.Error(), "TMAX")
	})

	t.Run("missing TMIN", func(t *testing.T) {
		_, err := ParseRow(RawRow{Date: "2020-01-06", TMax: "10", TMin: "  "})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingValue)
		assert.Contains(t, err.Error(), "TMIN")
	})

	t.Run("non-numeric value", func(t *testing.T) {
		_, err := ParseRow(RawRow{Date: "2020-01-07", TMax: "hot", TMin: "10"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMissingValue)
	})

	t.Run("non-integer tenths rejected", func(t *testing.T) {
		for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "1e400", "1e3", "12.5", "0x10"} {
			_, err := ParseRow(RawRow{Date: "2020-01-08", TMax: raw, TMin: "10"})
			require.Error(t, err, "TMAX=%q", raw)
			assert.NotErrorIs(t, err, ErrMissingValue, "TMAX=%q", raw)

			_, err = ParseRow(RawRow{Date: "2020-01-08", TMax: "10", TMin: raw})
			require.Error(t, err, "TMIN=%q", raw)
			assert.Contains(t, err.Error(), "TMIN")
		}
	})

	t.Run("signed integers accepted", func(t *testing.T) {
		rec, err := ParseRow(RawRow{Date: "2020-01-09", TMax: "+100", TMin: "-400"})
		require.NoError(t, err)
		assert.InDelta(t, 50.0, rec.MaxF, 1e-9)
		assert.InDelta(t, -40.0, rec.MinF, 1e-9)
	})

	t.Run("empty date", func(t *testing.T) {
		_, err := ParseRow(RawRow{TMax: "10", TMin: "10"})
		require.Error(t, err)
	})
}

func TestCelsiusToFahrenheit(t *testing.T) {
	cases := map[float64]float64{
		-40: -40,
		-30: -22,
		-20: -4,
		0:   32,
		10:  50,
		100: 212,
	}
	for c, want := range cases {
		assert.InDelta(t, want, CelsiusToFahrenheit(c), 1e-9, "C=%v", c)
	}
}

func TestFahrenheitToTenthsCelsius(t *testing.T) {
	for _, tenths := range []int{-300, -56, -1, 0, 1, 56, 317} {
		f := TenthsCelsiusToFahrenheit(float64(tenths))
		assert.Equal(t, tenths, FahrenheitToTenthsCelsius(f), "tenths=%d", tenths)
	}
}
