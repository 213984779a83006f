package navigation

import "math"

// AngleOf returns a pseudo-angle of the vector (dx, dy) in [0, 8)
//
// The value grows counterclockwise and hits the integers 0..7 exactly on the
// eight compass headings starting at east. Inside each quadrant it is the ratio
// of the coordinate difference to the coordinate sum, a monotone stand-in for
// atan2 that needs no trigonometry. The zero vector has no angle and panics;
// callers check for arrival first
func AngleOf(dx, dy int) float64 {
	if dx == 0 && dy == 0 {
		panic("navigation: AngleOf zero vector")
	}
	x, y := float64(dx), float64(dy)
	if y >= 0 {
		if x >= 0 {
			return (y-x)/(x+y) + 1
		}
		return (x+y)/(x-y) + 3
	}
	if x < 0 {
		return (y-x)/(x+y) + 5
	}
	return (x+y)/(x-y) + 7
}

// roundAngle rounds half up, the angle is never negative here
func roundAngle(a float64) float64 {
	return math.Floor(a + 0.5)
}

// NearestDirection returns the compass heading closest to the vector (dx, dy)
func NearestDirection(dx, dy int) Direction {
	return directionAt(AngleOf(dx, dy))
}

// directionAt maps a raw angle in [0, 8) to its nearest heading
func directionAt(a float64) Direction {
	return Direction(int(roundAngle(a)) % DirCount)
}
