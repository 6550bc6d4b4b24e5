package noise

import "math"

// cellularNoise implements a Worley/cellular ("Distance2Add") noise
// function: each unit grid cell gets one pseudo-random feature point, and
// the value at (x,y) is derived from the distances to the feature points of
// the 3x3 neighbourhood. No ecosystem library in the pack provides this
// (see the noise package's DESIGN.md entry), so it is implemented directly.
type cellularNoise struct {
	seed int64
}

func newCellularNoise(seed int64) *cellularNoise {
	return &cellularNoise{seed: seed}
}

// featurePoint returns the pseudo-random feature point offset within cell
// (cx, cy), deterministic for (seed, cx, cy).
func (c *cellularNoise) featurePoint(cx, cy int64) (float64, float64) {
	h := mixSeed(c.seed, int32(cx), int32(cy))
	fx := float64(h&0xFFFF) / 0xFFFF
	fy := float64((h>>16)&0xFFFF) / 0xFFFF
	return fx, fy
}

// eval2D returns "Distance2Add": the sum of the nearest and second-nearest
// feature-point distances, remapped to roughly [-1,1].
func (c *cellularNoise) eval2D(x, y float64) float64 {
	cellX := math.Floor(x)
	cellY := math.Floor(y)

	var d1, d2 float64 = math.MaxFloat64, math.MaxFloat64
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			nx := int64(cellX) + int64(ox)
			ny := int64(cellY) + int64(oy)
			fx, fy := c.featurePoint(nx, ny)
			px := float64(nx) + fx
			py := float64(ny) + fy
			dx := px - x
			dy := py - y
			d := math.Sqrt(dx*dx + dy*dy)
			if d < d1 {
				d2 = d1
				d1 = d
			} else if d < d2 {
				d2 = d
			}
		}
	}
	sum := d1 + d2
	// Normalise: the expected sum of nearest+second-nearest distances in a
	// unit cellular grid is close to 1.5; fold into roughly [-1,1].
	return (sum/1.5)*2 - 1
}
