package visibility

import "math"

const (
	// DefaultSampleDistance is the spacing between sample points, in
	// viewport units.
	DefaultSampleDistance = 100

	// MaxPointsPerAxis caps the grid at 10x10 points.
	MaxPointsPerAxis = 10
)

// SampleGrid returns evenly spaced sample points strictly inside r.
//
// Each axis gets clamp(ceil(dimension/sampleDistance), 1, 10) points that
// split the rectangle into n+1 equal intervals, so no point sits on an
// edge. Points are ordered column by column (outer loop over X).
func SampleGrid(r Rect, sampleDistance float64) []Point {
	if sampleDistance <= 0 {
		sampleDistance = DefaultSampleDistance
	}
	nx := pointsOnAxis(r.Width, sampleDistance)
	ny := pointsOnAxis(r.Height, sampleDistance)
	jumpX := r.Width / float64(nx+1)
	jumpY := r.Height / float64(ny+1)

	pts := make([]Point, 0, nx*ny)
	for a := 0; a < nx; a++ {
		for b := 0; b < ny; b++ {
			pts = append(pts, Point{
				X: r.Left + jumpX*float64(a+1),
				Y: r.Top + jumpY*float64(b+1),
			})
		}
	}
	return pts
}

// pointsOnAxis never returns 0: a near-zero dimension still gets one point.
func pointsOnAxis(dim, sampleDistance float64) int {
	n := int(math.Ceil(dim / sampleDistance))
	if n < 1 {
		n = 1
	}
	if n > MaxPointsPerAxis {
		n = MaxPointsPerAxis
	}
	return n
}
