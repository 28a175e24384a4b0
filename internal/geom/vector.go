// Package geom provides the small amount of 2D vector arithmetic the
// dynamics model needs. Angles are in degrees throughout, matching the
// soccer server conventions used by the rest of the module.
package geom

import "math"

type Vector struct {
	X float64
	Y float64
}

// FromPolar builds a vector from a magnitude and a direction in degrees.
func FromPolar(radius, angleDeg float64) Vector {
	rad := angleDeg * math.Pi / 180.0
	return Vector{
		X: radius * math.Cos(rad),
		Y: radius * math.Sin(rad),
	}
}

func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

func (v Vector) Sub(w Vector) Vector {
	return Vector{X: v.X - w.X, Y: v.Y - w.Y}
}

func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// PolarRadius returns the magnitude of the vector.
func (v Vector) PolarRadius() float64 {
	return math.Hypot(v.X, v.Y)
}

// PolarAngle returns the direction of the vector in degrees in (-180,180].
// The zero vector maps to angle 0, not NaN.
func (v Vector) PolarAngle() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X) * 180.0 / math.Pi
}

// ClampRadius scales the vector down so its magnitude does not exceed max.
// Vectors already within the cap are returned unchanged.
func (v Vector) ClampRadius(max float64) Vector {
	r := v.PolarRadius()
	if r <= max || r == 0 {
		return v
	}
	return v.Scale(max / r)
}

func (v Vector) DistanceTo(w Vector) float64 {
	return w.Sub(v).PolarRadius()
}

func (v Vector) DirectionOf(w Vector) float64 {
	return w.Sub(v).PolarAngle()
}
