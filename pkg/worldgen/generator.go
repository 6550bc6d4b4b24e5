// Package worldgen implements the per-chunk generation algorithm: biome
// sampling, per-column height baking, and per-block material selection.
package worldgen

import (
	"math"
	"sync"

	"github.com/shardwell/worldcore/pkg/biome"
	"github.com/shardwell/worldcore/pkg/chunk"
	"github.com/shardwell/worldcore/pkg/logging"
	"github.com/shardwell/worldcore/pkg/noise"
)

var log = logging.With("worldgen")

const (
	waterBlockID uint32 = 3
	iceBlockID   uint32 = 6
)

// BakedHeightsCache holds the baked terrain-height column per chunk-x,
// shared read-write across a batch's parallel generation tasks. Concurrent
// identical writes are acceptable: every writer for the same chunk-x
// computes the same deterministic result. The zero value is ready to use.
type BakedHeightsCache struct {
	mu   sync.RWMutex
	data map[int32][chunk.Size]float32
}

func (c *BakedHeightsCache) load(cx int32) ([chunk.Size]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[cx]
	return v, ok
}

func (c *BakedHeightsCache) store(cx int32, v [chunk.Size]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[int32][chunk.Size]float32)
	}
	c.data[cx] = v
}

// Generate runs the five-step chunk generation algorithm for chunkPos,
// given the sampler and biome registry shared by the owning dimension.
func Generate(chunkPos [2]int32, sampler *noise.Sampler, registry *biome.Registry, heights *BakedHeightsCache) *chunk.Chunk {
	cx, cy := chunkPos[0], chunkPos[1]
	chunkWorldY := int64(cy) * chunk.Size

	log.Debug("generating chunk", "x", cx, "y", cy)

	temperatureMap := sampler.GetNoiseLayer2D(cx, cy, noise.Temperature)
	humidityMap := sampler.GetNoiseLayer2D(cx, cy, noise.Humidity)

	heightsForX := bakeHeights(cx, sampler, registry, heights)

	c := chunk.NewChunk()

	for i := 0; i < chunk.BlockCount; i++ {
		localX := i % chunk.Size
		localY := i / chunk.Size
		worldY := int64(localY) + chunkWorldY

		draw := blockBiomeDraw(cx, cy, localX, localY)
		temp := temperatureMap[i]
		hum := humidityMap[i]
		primary, secondary, blendPct := registry.At(temp, hum)

		var b *biome.Biome
		if draw < blendPct {
			b = primary
		} else {
			b = secondary
		}
		if b == nil {
			b = primary
		}

		height := heightsForX[localX]
		if written := selectMaterial(c, localX, localY, height, worldY, b); written {
			c.TotalBlockCount++
		}
	}

	return c
}

// bakeHeights returns the CHUNK_SIZE height column for chunk-x cx, always
// derived from the (cx, 0) column so a world-column bakes the same height
// regardless of which y-chunk is being produced. Results are cached across
// the batch.
func bakeHeights(cx int32, sampler *noise.Sampler, registry *biome.Registry, cache *BakedHeightsCache) [chunk.Size]float32 {
	if v, ok := cache.load(cx); ok {
		return v
	}

	// Always derived from the (cx, 0) column, whether or not this chunk
	// itself is at y=0 — the sampler's own cache makes repeat access cheap,
	// and sharing the source avoids vertical seams between y-chunks.
	temperatureY0 := sampler.GetNoiseLayer2D(cx, 0, noise.Temperature)
	humidityY0 := sampler.GetNoiseLayer2D(cx, 0, noise.Humidity)

	var heights [chunk.Size]float32
	for x := 0; x < chunk.Size; x++ {
		idx := 0*chunk.Size + x // y=0 row
		temp := temperatureY0[idx]
		hum := humidityY0[idx]
		primary, _, _ := registry.At(temp, hum)
		if primary == nil {
			heights[x] = 0
			continue
		}

		worldX := int64(cx)*chunk.Size + int64(x)
		var h float64
		for layerIdx := 0; layerIdx < 6; layerIdx++ {
			cfg := primary.NoiseLayers[layerIdx]
			sample := float64(sampler.GetNoise1D(worldX, layerIdx)) * cfg.Amplitude
			h = cfg.Blending.Apply(h, sample)
		}
		heights[x] = float32(h)
	}

	cache.store(cx, heights)
	return heights
}

// blockBiomeDraw draws a deterministic per-block u8 in [0,100) from a
// chunk-seeded PRNG, used to pick between the primary and secondary biome
// per block according to the cell's blend percentage.
func blockBiomeDraw(cx, cy int32, localX, localY int) uint8 {
	h := mixSeedBlock(cx, cy, localX, localY)
	return uint8(h % 100)
}

// selectMaterial applies the material rules for one block and writes it
// into c's foreground layer if non-Air. Returns true if a tile was
// written (for total_block_count).
func selectMaterial(c *chunk.Chunk, localX, localY int, height float32, worldY int64, b *biome.Biome) bool {
	if b == nil {
		return false
	}
	if math.IsNaN(float64(height)) || math.IsInf(float64(height), 0) {
		return false
	}

	pos := chunk.Pos{X: localX, Y: localY}

	if height >= float32(worldY) {
		depth := int64(height) - worldY
		var blockID uint32
		switch {
		case depth == 0:
			blockID = b.SurfaceBlock
		case depth >= 1 && depth <= 5:
			blockID = b.SubsurfaceBlock
		default:
			blockID = b.BaseBlock
		}
		c.SetBlock(chunk.Foreground, pos, chunk.Tile, blockID, 0)
		return true
	}

	if worldY <= 0 {
		switch {
		case worldY == 0 && b.Type == biome.Cold:
			c.SetBlock(chunk.Foreground, pos, chunk.Tile, iceBlockID, 0)
			return true
		case worldY > -5 && b.Type == biome.Warm:
			return false
		case b.Type == biome.Freezing:
			c.SetBlock(chunk.Foreground, pos, chunk.Tile, iceBlockID, 0)
			return true
		case b.Type == biome.Hot:
			return false
		default:
			c.SetBlock(chunk.Foreground, pos, chunk.Tile, waterBlockID, 0)
			return true
		}
	}

	return false
}
