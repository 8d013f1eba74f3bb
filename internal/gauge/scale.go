package gauge

// ValueToY maps a Fahrenheit value to a vertical pixel position. The map is
// linear from [FMin, FMax] onto [TubeBottom, TubeTop] and is not clamped:
// values outside the domain extrapolate past the ends of the tube.
func (c Config) ValueToY(f float64) float64 {
	t := (f - c.FMin) / (c.FMax - c.FMin)
	return c.TubeBottom() + t*(c.TubeTop()-c.TubeBottom())
}

// YToValue is the inverse of ValueToY.
func (c Config) YToValue(y float64) float64 {
	t := (y - c.TubeBottom()) / (c.TubeTop() - c.TubeBottom())
	return c.FMin + t*(c.FMax-c.FMin)
}

// FillGeometry returns the mercury rectangle's top Y and height for a
// displayed value.
func (c Config) FillGeometry(f float64) (y, height float64) {
	y = c.ValueToY(f)
	return y, c.TubeBottom() - y + c.FillOverlap
}

// InDomain reports whether f lies within [FMin, FMax].
func (c Config) InDomain(f float64) bool {
	return f >= c.FMin && f <= c.FMax
}
