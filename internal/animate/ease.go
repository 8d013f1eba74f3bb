package animate

// Ease is the symmetric cubic ease-in-out curve. t is clamped to [0, 1].
func Ease(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}

// Lerp interpolates between start and target by an eased fraction.
func Lerp(start, target, eased float64) float64 {
	return start + (target-start)*eased
}
