package noise

import "math"

// FractalMode names the octave-wrapping shape applied on top of a raw
// coherent noise function.
type FractalMode uint8

const (
	FractalNone FractalMode = iota
	FractalFBm
	FractalRidged
)

// FractalConfig parameterises octave wrapping: Octaves layers, each scaling
// frequency by Lacunarity and amplitude by Gain, summed with weight
// WeightScale (named "ws" in the layer table).
type FractalConfig struct {
	Mode       FractalMode
	Octaves    int
	Lacunarity float64
	Gain       float64
	WeightScale float64
}

// rawNoise2D is any coherent 2D noise function normalised to roughly [-1,1].
type rawNoise2D func(x, y float64) float64

// applyFractal wraps raw at (x, y) according to cfg. FractalNone calls raw
// once at the base frequency; FBm sums octaves directly; Ridged inverts and
// squares each octave (1-|n|, squared) before summing, producing sharp
// ridgelines.
func applyFractal(raw rawNoise2D, cfg FractalConfig, x, y float64) float64 {
	if cfg.Mode == FractalNone {
		return raw(x, y)
	}

	var total, amplitude, frequency, maxAmplitude float64
	amplitude = 1
	frequency = 1
	for i := 0; i < cfg.Octaves; i++ {
		n := raw(x*frequency, y*frequency)
		switch cfg.Mode {
		case FractalRidged:
			n = 1 - math.Abs(n)
			n = n * n
		}
		total += n * amplitude * cfg.WeightScale
		maxAmplitude += amplitude
		amplitude *= cfg.Gain
		frequency *= cfg.Lacunarity
	}
	if maxAmplitude == 0 {
		return 0
	}
	return total / maxAmplitude
}
