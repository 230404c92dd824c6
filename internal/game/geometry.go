package game

import "math"

// Conversions between screen Cartesian space and polar coordinates taken
// around the field centre, optionally measured against the field rotation.

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDeg wraps an angle into [0, 360).
func NormalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod can hand back -0 or a value that rounds up to 360.
	if d >= 360 || d == 0 {
		return 0
	}
	return d
}

// PolarFrom returns the distance of p from center and its screen-frame
// bearing in degrees, normalised to [0, 360). A point exactly at the centre
// reports bearing 0.
func PolarFrom(center, p Vec2) (dist, deg float64) {
	d := p.Minus(center)
	return d.Magnitude(), NormalizeDeg(radToDeg(d.Angle()))
}

// RelativeAngle expresses a screen-frame bearing in the rotating field frame.
func RelativeAngle(deg, rotation float64) float64 {
	return NormalizeDeg(deg - rotation + 360)
}

// PointOnCircle converts a polar position around center to screen space.
func PointOnCircle(center Vec2, radius, deg float64) Vec2 {
	return center.Plus(FromPolar(radius, degToRad(deg)))
}

