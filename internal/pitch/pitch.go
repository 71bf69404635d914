// Package pitch converts normalised event coordinates to a UEFA pitch in metres.
package pitch

// Pitch dimensions in metres.
const (
	Length = 105.0
	Width  = 68.0
)

// Scale is the range of the input coordinates.
const Scale = 100.0

// Point is a location on the pitch in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToMetric maps a 0–100 coordinate pair onto the 105×68 pitch. NaN stays NaN.
func ToMetric(x, y float64) Point {
	return Point{X: x / Scale * Length, Y: y / Scale * Width}
}
