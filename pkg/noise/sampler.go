// Package noise owns the seven fixed-shape coherent noise generators a
// dimension's worker samples from, plus the per-chunk 1D and 2D caches that
// make repeated sampling cheap.
package noise

import (
	"math"
	"sync"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/shardwell/worldcore/pkg/chunk"
)

// Layer indices, fixed order: Continental, Mountainous, Hilly, Texture,
// Cellular, Gridlike.
const (
	Continental = iota
	Mountainous
	Hilly
	Texture
	Cellular
	Gridlike
	NumLayers1D
)

const (
	Temperature = iota
	Humidity
	NumLayers2D
)

// BiomeSampleZ is the fixed z-coordinate biome_sampling noise is evaluated
// at, matching the 3D sampling the source uses to decorrelate temperature
// and humidity from terrain noise.
const BiomeSampleZ = 250.0

// biomeSamplePointAmount is the number of temperature (and, separately,
// humidity) sample points drawn per chunk.
const biomeSamplePointAmount = chunk.Size / 8

type layerConfig struct {
	frequency float64
	fractal   FractalConfig
}

var layerConfigs = [NumLayers1D]layerConfig{
	Continental: {frequency: 0.001, fractal: FractalConfig{Mode: FractalNone}},
	Mountainous: {frequency: 0.01, fractal: FractalConfig{Mode: FractalRidged, Octaves: 3, Lacunarity: 2.1, Gain: 1.16, WeightScale: 0.84}},
	Hilly:       {frequency: 0.03, fractal: FractalConfig{Mode: FractalFBm, Octaves: 3, Lacunarity: 1.53, Gain: 1.39, WeightScale: 0.47}},
	Texture:     {frequency: 0.1, fractal: FractalConfig{Mode: FractalFBm, Octaves: 4, Lacunarity: 2.57, Gain: 0.43, WeightScale: 0.32}},
	Cellular:    {frequency: 0.05, fractal: FractalConfig{Mode: FractalRidged, Octaves: 3, Lacunarity: 2.35, Gain: 0.37, WeightScale: 0.01}},
	Gridlike:    {frequency: 0.05, fractal: FractalConfig{Mode: FractalFBm, Octaves: 3, Lacunarity: 3.03, Gain: 0.25, WeightScale: 0.07}},
}

const biomeSamplingFrequency = 0.001

// NoiseLayer2D is a temperature or humidity map for one chunk, clamped to
// [0,100].
type NoiseLayer2D [chunk.BlockCount]uint8

type chunkPos struct{ X, Y int32 }

type column1D struct {
	mu   sync.RWMutex
	data map[int32][chunk.Size]float32
}

// Sampler owns the seven noise generators for one dimension plus their
// per-chunk caches. Generators and their seeding are fixed once at
// construction and never change for the dimension's lifetime.
type Sampler struct {
	seed int64

	worldSize         [2]uint32
	horizTempVariation float64
	vertTempVariation  float64

	layers1D [NumLayers1D]rawNoise2D
	biomeGen *opensimplex.Noise

	cache1D [NumLayers1D]*column1D
	cache2D [NumLayers2D]*sync.Map
}

// NewSampler constructs the fixed seven-generator sampler for a dimension
// seed. worldSize is the dimension's chunk-grid size, used for the
// horizontal temperature bias; horizVar/vertVar are the dimension's optional
// BiomeMapAdjustments (0 if absent).
func NewSampler(seed int64, worldSize [2]uint32, horizVar, vertVar uint8) *Sampler {
	s := &Sampler{
		seed:               seed,
		worldSize:          worldSize,
		horizTempVariation: float64(horizVar),
		vertTempVariation:  float64(vertVar),
		biomeGen:           opensimplex.New(-seed),
	}

	sm := newSplitmix64(uint64(seed))
	subSeeds := [5]int64{sm.nextInt64(), sm.nextInt64(), sm.nextInt64(), sm.nextInt64(), sm.nextInt64()}

	continental := opensimplex.New(seed)
	mountainous := opensimplex.New(subSeeds[0])
	hilly := opensimplex.New(subSeeds[1])
	texture := opensimplex.New(subSeeds[2])
	cellular := newCellularNoise(subSeeds[3])
	// aquilax/go-perlin backs the Gridlike layer (alpha/beta tuned for a
	// roughly single-octave value-like response; fractal wrapping above
	// supplies the actual octave summation per the layer table).
	gridlike := perlin.NewPerlin(2, 2, 1, subSeeds[4])

	s.layers1D[Continental] = continental.Eval2
	s.layers1D[Mountainous] = mountainous.Eval2
	s.layers1D[Hilly] = hilly.Eval2
	s.layers1D[Texture] = texture.Eval2
	s.layers1D[Cellular] = cellular.eval2D
	s.layers1D[Gridlike] = gridlike.Noise2D

	for i := range s.cache1D {
		s.cache1D[i] = &column1D{data: make(map[int32][chunk.Size]float32)}
	}
	for i := range s.cache2D {
		s.cache2D[i] = &sync.Map{}
	}
	return s
}

// clamp100 clamps v to [0,100], the range NoiseLayer2D values are stored in.
func clamp100(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return uint8(v)
}

// sampleRaw evaluates layer noiseIndex at world coordinates with fractal
// wrapping and the layer's configured frequency applied.
func (s *Sampler) sampleRaw(noiseIndex int, worldX, worldY float64) float64 {
	cfg := layerConfigs[noiseIndex]
	raw := s.layers1D[noiseIndex]
	freq := cfg.frequency
	return applyFractal(func(x, y float64) float64 { return raw(x, y) }, cfg.fractal, worldX*freq, worldY*freq)
}

func worldXForChunk(chunkX int32, localX int) int64 {
	return int64(chunkX)*chunk.Size + int64(localX)
}

// fillColumn1D computes and caches the full CHUNK_SIZE column of noiseIndex
// for chunk-x chunkX, sampled at world-y 0.
func (s *Sampler) fillColumn1D(noiseIndex int, chunkX int32) [chunk.Size]float32 {
	cache := s.cache1D[noiseIndex]

	cache.mu.RLock()
	if v, ok := cache.data[chunkX]; ok {
		cache.mu.RUnlock()
		return v
	}
	cache.mu.RUnlock()

	var col [chunk.Size]float32
	for x := 0; x < chunk.Size; x++ {
		wx := worldXForChunk(chunkX, x)
		col[x] = float32(s.sampleRaw(noiseIndex, float64(wx), 0))
	}

	cache.mu.Lock()
	cache.data[chunkX] = col
	cache.mu.Unlock()
	return col
}

// GetNoiseLayer1D returns the whole cached column for (chunkX, noiseIndex).
func (s *Sampler) GetNoiseLayer1D(chunkX int32, noiseIndex int) [chunk.Size]float32 {
	return s.fillColumn1D(noiseIndex, chunkX)
}

// GetNoise1D returns the cached value for world_x at world-y 0.
func (s *Sampler) GetNoise1D(worldX int64, noiseIndex int) float32 {
	chunkX := int32(math.Floor(float64(worldX) / chunk.Size))
	localX := int(worldX - int64(chunkX)*chunk.Size)
	col := s.fillColumn1D(noiseIndex, chunkX)
	return col[localX]
}

type samplePoint struct {
	x, y int
}

// samplePoints draws biomeSamplePointAmount*2 distinct (x,y) points in
// [0,CHUNK_SIZE)^2 from the chunk's splitmix64 seed; the first half are
// temperature points, the second half humidity points.
func samplePoints(seed int64, cx, cy int32) (temp, hum []samplePoint) {
	sm := newSplitmix64(mixSeed(seed, cx, cy))
	seen := make(map[samplePoint]bool)
	total := biomeSamplePointAmount * 2
	points := make([]samplePoint, 0, total)
	for len(points) < total {
		v := sm.next()
		p := samplePoint{x: int(v % chunk.Size), y: int((v >> 16) % chunk.Size)}
		if seen[p] {
			continue
		}
		seen[p] = true
		points = append(points, p)
	}
	return points[:biomeSamplePointAmount], points[biomeSamplePointAmount:]
}

// evalBiomeSampling returns the raw biome_sampling noise mapped into
// [0,100] at the given chunk-local point.
func (s *Sampler) evalBiomeSampling(chunkX, chunkY int32, local samplePoint) float64 {
	wx := float64(int64(chunkX)*chunk.Size + int64(local.x))
	wy := float64(int64(chunkY)*chunk.Size + int64(local.y))
	n := s.biomeGen.Eval3(wx*biomeSamplingFrequency, wy*biomeSamplingFrequency, BiomeSampleZ)
	return (n + 1) * 50
}

const idwPower = 2.0
const idwEpsilon = 1e-4

// idwInterpolate performs inverse-distance-weighted interpolation of
// sampled values at points for block-local position (lx, ly).
func idwInterpolate(points []samplePoint, values []float64, lx, ly int) float64 {
	var weightSum, valueSum float64
	for i, p := range points {
		dx := float64(p.x - lx)
		dy := float64(p.y - ly)
		distSq := dx*dx + dy*dy
		if distSq < idwEpsilon {
			return values[i]
		}
		w := 1 / math.Pow(math.Sqrt(distSq), idwPower)
		weightSum += w
		valueSum += w * values[i]
	}
	if weightSum == 0 {
		return 0
	}
	return valueSum / weightSum
}

// fillChunkLayers2D computes and atomically caches both the temperature and
// humidity maps for chunkPos in one pass.
func (s *Sampler) fillChunkLayers2D(cx, cy int32) (NoiseLayer2D, NoiseLayer2D) {
	key := chunkPos{X: cx, Y: cy}

	if v, ok := s.cache2D[Temperature].Load(key); ok {
		hv, _ := s.cache2D[Humidity].Load(key)
		return v.(NoiseLayer2D), hv.(NoiseLayer2D)
	}

	tempPts, humPts := samplePoints(s.seed, cx, cy)
	tempVals := make([]float64, len(tempPts))
	humVals := make([]float64, len(humPts))
	for i, p := range tempPts {
		tempVals[i] = s.evalBiomeSampling(cx, cy, p)
	}
	for i, p := range humPts {
		humVals[i] = s.evalBiomeSampling(cx, cy, p)
	}

	worldSizeX := float64(s.worldSize[0]) * chunk.Size
	worldSizeY := float64(s.worldSize[1]) * chunk.Size

	var tempLayer, humLayer NoiseLayer2D
	for ly := 0; ly < chunk.Size; ly++ {
		worldY := int64(cy)*chunk.Size + int64(ly)
		for lx := 0; lx < chunk.Size; lx++ {
			worldX := int64(cx)*chunk.Size + int64(lx)
			idx := ly*chunk.Size + lx

			t := idwInterpolate(tempPts, tempVals, lx, ly)
			h := idwInterpolate(humPts, humVals, lx, ly)

			var bias float64
			if worldSizeX > 0 {
				r := (float64(worldX) + worldSizeX/2) / worldSizeX
				switch {
				case r < 1.0/3.0:
					bias += s.horizTempVariation * (1 - 3*r)
				case r >= 2.0/3.0:
					bias -= s.horizTempVariation * (3*r - 2)
				}
			}
			if worldY > 10 && worldSizeY > 0 {
				bias -= s.vertTempVariation * (float64(worldY) / (worldSizeY / 2))
			}

			t = (t-50)*0.3 + 50 + bias
			tempLayer[idx] = clamp100(math.Round(t))
			humLayer[idx] = clamp100(math.Round(h))
		}
	}

	// Humidity first: the fast path above keys on temperature, so once a
	// temperature entry is visible the matching humidity entry is too.
	s.cache2D[Humidity].Store(key, humLayer)
	s.cache2D[Temperature].Store(key, tempLayer)
	return tempLayer, humLayer
}

// GetNoiseLayer2D returns the whole cached temperature or humidity map for
// a chunk position.
func (s *Sampler) GetNoiseLayer2D(cx, cy int32, layer int) NoiseLayer2D {
	temp, hum := s.fillChunkLayers2D(cx, cy)
	if layer == Temperature {
		return temp
	}
	return hum
}

// GetNoise2D returns a single clamped value from the temperature or
// humidity map containing worldX/worldY.
func (s *Sampler) GetNoise2D(worldX, worldY int64, layer int) uint8 {
	cx := int32(math.Floor(float64(worldX) / chunk.Size))
	cy := int32(math.Floor(float64(worldY) / chunk.Size))
	localX := int(worldX - int64(cx)*chunk.Size)
	localY := int(worldY - int64(cy)*chunk.Size)
	l := s.GetNoiseLayer2D(cx, cy, layer)
	return l[localY*chunk.Size+localX]
}
