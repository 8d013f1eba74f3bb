package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/thermo-gauge-service/internal/adapter/csvsource"
	"github.com/couchcryptid/thermo-gauge-service/internal/domain"
)

func rowOf(tmax, tmin string) csvRow {
	return csvRow{lineNum: 2, fields: map[string]string{
		csvsource.ColDate: "2020-01-01",
		csvsource.ColTMax: tmax,
		csvsource.ColTMin: tmin,
	}}
}

func TestCheckConversion(t *testing.T) {
	row := rowOf("317", "-56")
	rec, err := domain.ParseRow(domain.RawRow{Date: "2020-01-01", TMax: "317", TMin: "-56"})
	require.NoError(t, err)
	assert.NoError(t, checkConversion(row, rec))

	bad := rec
	bad.MaxF += 0.5
	err = checkConversion(row, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), csvsource.ColTMax)
}

func TestCheckConversion_RejectsNonIntegerTenths(t *testing.T) {
	rec := domain.TemperatureRecord{Date: "2020-01-01", MinF: 32, MaxF: 50}
	for _, raw := range []string{"NaN", "Inf", "1e400", "12.5"} {
		err := checkConversion(rowOf(raw, "0"), rec)
		assert.Error(t, err, "TMAX=%q", raw)
	}
}
