package navigation

import "testing"

func TestAngleOfCompassPoints(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   float64
	}{
		{1, 0, 0}, {1, 1, 1}, {0, 1, 2}, {-1, 1, 3},
		{-1, 0, 4}, {-1, -1, 5}, {0, -1, 6}, {1, -1, 7},
		// Scaled vectors land on the same integers
		{5, 0, 0}, {3, 3, 1}, {0, 9, 2}, {-7, 7, 3},
		{-2, 0, 4}, {-4, -4, 5}, {0, -6, 6}, {8, -8, 7},
	}
	for _, tt := range tests {
		if got := AngleOf(tt.dx, tt.dy); got != tt.want {
			t.Errorf("AngleOf(%d,%d) = %v, want exactly %v", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestAngleOfIntermediate(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   float64
	}{
		{3, 1, 0.5},  // (1-3)/4 + 1
		{4, -1, 7.6}, // (4-1)/5 + 7
		{-3, 1, 3.5}, // (-3+1)/(-4) + 3
		{-1, -3, 5.5},
	}
	for _, tt := range tests {
		got := AngleOf(tt.dx, tt.dy)
		if diff := got - tt.want; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("AngleOf(%d,%d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestAngleOfMonotoneCounterclockwise(t *testing.T) {
	// Walk the boundary of a square counterclockwise from just above the positive x axis
	const r = 5
	var ring [][2]int
	for y := 0; y <= r; y++ {
		ring = append(ring, [2]int{r, y})
	}
	for x := r - 1; x >= -r; x-- {
		ring = append(ring, [2]int{x, r})
	}
	for y := r - 1; y >= -r; y-- {
		ring = append(ring, [2]int{-r, y})
	}
	for x := -r + 1; x <= r; x++ {
		ring = append(ring, [2]int{x, -r})
	}
	for y := -r + 1; y < 0; y++ {
		ring = append(ring, [2]int{r, y})
	}

	prev := -1.0
	for _, v := range ring {
		a := AngleOf(v[0], v[1])
		if a <= prev {
			t.Fatalf("AngleOf not increasing at (%d,%d): %v after %v", v[0], v[1], a, prev)
		}
		if a < 0 || a >= 8 {
			t.Fatalf("AngleOf(%d,%d) = %v outside [0,8)", v[0], v[1], a)
		}
		prev = a
	}
}

func TestAngleOfZeroPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for zero vector")
		}
	}()
	AngleOf(0, 0)
}

func TestNearestDirection(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   Direction
	}{
		{5, 0, DirE},
		{5, 1, DirE},
		{4, -1, DirE}, // 7.6 rounds to 8, wraps to east
		{3, 2, DirNE},
		{-1, 6, DirN},
		{-6, -1, DirW},
		{1, -4, DirS},
		{2, -2, DirSE},
	}
	for _, tt := range tests {
		if got := NearestDirection(tt.dx, tt.dy); got != tt.want {
			t.Errorf("NearestDirection(%d,%d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
		}
	}
}
