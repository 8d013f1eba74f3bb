package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteFor(t *testing.T) {
	cases := []struct {
		target float64
		want   string
	}{
		{32, "hot"},
		{31.999, "cold"},
		{-20, "cold"},
		{120, "hot"},
		{200, "hot"},
		{-50, "cold"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PaletteFor(tc.target).Name, "target=%v", tc.target)
	}
}

func TestPalettesAreDistinct(t *testing.T) {
	assert.NotEqual(t, Hot.Stops, Cold.Stops)
	assert.NotEqual(t, Hot.BulbFill, Cold.BulbFill)
	for _, p := range []Palette{Hot, Cold} {
		for _, s := range p.Stops {
			assert.Regexp(t, `^#[0-9a-f]{6}$`, s)
		}
	}
}
