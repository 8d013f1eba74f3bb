package gauge

import "github.com/couchcryptid/thermo-gauge-service/internal/domain"

// Palette is the colour set for a gauge's mercury gradient and bulb.
type Palette struct {
	Name       string    `json:"name"`
	Stops      [3]string `json:"stops"` // left, mid, right gradient stops
	BulbFill   string    `json:"bulb_fill"`
	BulbStroke string    `json:"bulb_stroke"`
}

var (
	// Hot is used for targets at or above freezing.
	Hot = Palette{
		Name:       "hot",
		Stops:      [3]string{"#a8281c", "#d44032", "#ee7a6b"},
		BulbFill:   "#d44032",
		BulbStroke: "#8f2a20",
	}

	// Cold is used for targets below freezing.
	Cold = Palette{
		Name:       "cold",
		Stops:      [3]string{"#1b5a8c", "#2c7bb6", "#6aaedc"},
		BulbFill:   "#2c7bb6",
		BulbStroke: "#1d5580",
	}
)

// PaletteFor picks the palette for a transition's target value. The threshold
// is static on the target: the colour does not follow the animated value.
func PaletteFor(targetF float64) Palette {
	if targetF >= domain.FreezingF {
		return Hot
	}
	return Cold
}
