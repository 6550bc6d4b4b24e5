package biome

import "math"

// MapGridSize is the resolution of the precomputed (temperature, humidity)
// lookup map.
const MapGridSize = 100

// TransitionThreshold and IDWPower tune the blend-percent rule below.
const (
	TransitionThreshold = 8.0
	IDWPower            = 2.0
	idwEpsilon          = 1e-4
)

// mapCell is one entry of the precomputed BiomeMap: the primary and
// secondary biome for a (temperature, humidity) pair plus the blend
// percentage used to pick between them per block.
type mapCell struct {
	Primary   *Biome
	Secondary *Biome
	BlendPct  uint8
}

// Registry holds the immutable loaded biome set and the precomputed
// 100x100 lookup map built from it. Biomes live in a single slice
// allocated once at construction and never resized afterward, so the
// map's *Biome pointers stay valid for the registry's lifetime.
type Registry struct {
	biomes []*Biome
	grid   [MapGridSize * MapGridSize]mapCell
}

// NewRegistry builds a Registry from the given biomes, immediately
// materialising the full lookup map. biomes must be non-empty.
func NewRegistry(biomes []*Biome) *Registry {
	r := &Registry{biomes: biomes}
	for y := 0; y < MapGridSize; y++ {
		for x := 0; x < MapGridSize; x++ {
			r.grid[y*MapGridSize+x] = r.buildCell(uint8(x), uint8(y))
		}
	}
	return r
}

func sqDist(b *Biome, t, h uint8) float64 {
	dt := float64(int(b.Temperature) - int(t))
	dh := float64(int(b.Humidity) - int(h))
	return dt*dt + dh*dh
}

func (r *Registry) buildCell(t, h uint8) mapCell {
	var primary, secondary *Biome
	dPrimary, dSecondary := math.Inf(1), math.Inf(1)

	for _, b := range r.biomes {
		d := sqDist(b, t, h)
		if d < dPrimary {
			dSecondary, secondary = dPrimary, primary
			dPrimary, primary = d, b
		} else if d < dSecondary {
			dSecondary, secondary = d, b
		}
	}

	if secondary == nil || secondary == primary {
		secondary = nil
		dSecondary = math.Inf(1)
		for _, b := range r.biomes {
			if b == primary {
				continue
			}
			d := sqDist(b, t, h)
			if d < dSecondary {
				dSecondary, secondary = d, b
			}
		}
		if secondary == nil {
			// No other biome is registered at all: primary is the only
			// candidate, so secondary resolves to it too rather than nil
			// (both pointers must resolve to loaded biomes) and the blend
			// is fixed at 100 via the dSecondary=+Inf case below.
			secondary = primary
		}
	}

	blend := blendPercent(dPrimary, dSecondary)
	return mapCell{Primary: primary, Secondary: secondary, BlendPct: blend}
}

func blendPercent(dPrimary, dSecondary float64) uint8 {
	if math.IsInf(dSecondary, 1) || dPrimary < 1e-3 {
		return 100
	}
	if dPrimary < TransitionThreshold && dSecondary > TransitionThreshold {
		return 100
	}
	invA := 1 / math.Max(math.Pow(dPrimary, IDWPower), idwEpsilon)
	invB := 1 / math.Max(math.Pow(dSecondary, IDWPower), idwEpsilon)
	pct := math.Round(100 * invA / (invA + invB))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return uint8(pct)
}

func clampCoord(v uint8) int {
	c := int(v)
	if c > MapGridSize-1 {
		c = MapGridSize - 1
	}
	return c
}

// At returns the primary biome, secondary biome, and blend percentage for
// a (temperature, humidity) pair, clamping inputs to [0,99].
func (r *Registry) At(temperature, humidity uint8) (primary, secondary *Biome, blendPct uint8) {
	t := clampCoord(temperature)
	h := clampCoord(humidity)
	cell := r.grid[h*MapGridSize+t]
	return cell.Primary, cell.Secondary, cell.BlendPct
}

// Biomes returns the registry's loaded biomes in load order.
func (r *Registry) Biomes() []*Biome {
	return r.biomes
}
