package worldgen

import (
	"testing"

	"github.com/shardwell/worldcore/pkg/biome"
	"github.com/shardwell/worldcore/pkg/chunk"
	"github.com/shardwell/worldcore/pkg/noise"
)

func neutralBiome(t biome.Type) *biome.Biome {
	return &biome.Biome{
		Name: "test", Temperature: 50, Humidity: 50, Type: t,
		SurfaceBlock: 2, SubsurfaceBlock: 1, BaseBlock: 0,
	}
}

// S1: request chunk (0,0), one biome (Neutral, all amplitudes 0). With
// height=0 everywhere, only world_y=0 satisfies height>=world_y (depth=0,
// the surface row); every other row in the chunk is strictly above ground
// and stays Air.
func TestS1SurfaceAtGroundLevel(t *testing.T) {
	registry := biome.NewRegistry([]*biome.Biome{neutralBiome(biome.Neutral)})
	sampler := noise.NewSampler(12345, [2]uint32{100, 100}, 0, 0)
	cache := &BakedHeightsCache{}

	c := Generate([2]int32{0, 0}, sampler, registry, cache)

	if c.TotalBlockCount != chunk.Size {
		t.Fatalf("total_block_count = %d, want %d", c.TotalBlockCount, chunk.Size)
	}
	for x := 0; x < chunk.Size; x++ {
		idx := 0*chunk.Size + x
		if c.Foreground.BlockType[idx] != chunk.Tile || c.Foreground.BlockID[idx] != 2 {
			t.Fatalf("world_y=0 x=%d: got type=%v id=%d, want surface block", x, c.Foreground.BlockType[idx], c.Foreground.BlockID[idx])
		}
	}
	for y := 1; y < chunk.Size; y++ {
		for x := 0; x < chunk.Size; x++ {
			idx := y*chunk.Size + x
			if c.Foreground.BlockType[idx] != chunk.Air {
				t.Fatalf("world_y=%d x=%d: got %v, want Air", y, x, c.Foreground.BlockType[idx])
			}
		}
	}
}

// S2: request chunk (0,-1). world_y in [-32,-1]; height=0 >= world_y for
// every row, so every block is Tile by depth: d in [1,5] -> id=1,
// d>5 -> id=0. total_block_count = 1024.
func TestS2UndergroundColumn(t *testing.T) {
	registry := biome.NewRegistry([]*biome.Biome{neutralBiome(biome.Neutral)})
	sampler := noise.NewSampler(12345, [2]uint32{100, 100}, 0, 0)
	cache := &BakedHeightsCache{}

	c := Generate([2]int32{0, -1}, sampler, registry, cache)

	if c.TotalBlockCount != chunk.BlockCount {
		t.Fatalf("total_block_count = %d, want %d", c.TotalBlockCount, chunk.BlockCount)
	}
	for y := 0; y < chunk.Size; y++ {
		worldY := int64(y) + (-1)*chunk.Size
		depth := 0 - worldY
		var wantID uint32
		switch {
		case depth >= 1 && depth <= 5:
			wantID = 1
		default:
			wantID = 0
		}
		for x := 0; x < chunk.Size; x++ {
			idx := y*chunk.Size + x
			if c.Foreground.BlockType[idx] != chunk.Tile || c.Foreground.BlockID[idx] != wantID {
				t.Fatalf("world_y=%d x=%d: got type=%v id=%d, want id=%d", worldY, x, c.Foreground.BlockType[idx], c.Foreground.BlockID[idx], wantID)
			}
		}
	}
}

// S6 (adapted): the water/ice/air rules only govern cells above the surface
// (height < world_y) at or below world_y=0; they never override the surface
// row itself, so a Freezing biome at height=0 still reports the same surface
// block as Neutral at world_y=0. Ice instead appears at world_y=0 above a
// sunken surface (height=-1), which this exercises directly via
// selectMaterial.
func TestS6FreezingAboveWaterlineIsIce(t *testing.T) {
	b := neutralBiome(biome.Freezing)
	c := chunk.NewChunk()
	written := selectMaterial(c, 0, 0, 0 /* height */, 0 /* world_y */, b)
	if !written {
		t.Fatalf("expected a block to be written")
	}
	idx := 0
	if c.Foreground.BlockType[idx] != chunk.Tile || c.Foreground.BlockID[idx] != 2 {
		t.Fatalf("at height==world_y: got type=%v id=%d, want surface block", c.Foreground.BlockType[idx], c.Foreground.BlockID[idx])
	}

	// Just above a sunken surface (height=-1, world_y=0): Freezing yields
	// ice where a Neutral biome would report water.
	c2 := chunk.NewChunk()
	written2 := selectMaterial(c2, 0, 0, -1, 0, b)
	if !written2 || c2.Foreground.BlockType[0] != chunk.Tile || c2.Foreground.BlockID[0] != 6 {
		t.Fatalf("Freezing above a sunken surface should report ice: type=%v id=%d", c2.Foreground.BlockType[0], c2.Foreground.BlockID[0])
	}
}

// Height continuity: two chunks sharing chunk_x but differing in chunk_y
// must derive identical heights[x] arrays.
func TestHeightContinuityAcrossChunkY(t *testing.T) {
	registry := biome.NewRegistry([]*biome.Biome{neutralBiome(biome.Neutral)})
	sampler := noise.NewSampler(12345, [2]uint32{100, 100}, 0, 0)

	cacheA := &BakedHeightsCache{}
	cacheB := &BakedHeightsCache{}
	Generate([2]int32{4, 0}, sampler, registry, cacheA)
	Generate([2]int32{4, 3}, sampler, registry, cacheB)
	heightsA, okA := cacheA.load(4)
	heightsB, okB := cacheB.load(4)
	if !okA || !okB {
		t.Fatalf("expected both generations to bake a height column for chunk-x 4")
	}
	if heightsA != heightsB {
		t.Fatalf("heights diverged between chunk_y=0 and chunk_y=3 for the same chunk-x: %v vs %v", heightsA, heightsB)
	}
}

func TestMiddlegroundAndBackgroundStayAir(t *testing.T) {
	registry := biome.NewRegistry([]*biome.Biome{neutralBiome(biome.Neutral)})
	sampler := noise.NewSampler(12345, [2]uint32{100, 100}, 0, 0)
	c := Generate([2]int32{0, 0}, sampler, registry, &BakedHeightsCache{})
	for _, bt := range c.Middleground.BlockType {
		if bt != chunk.Air {
			t.Fatalf("middleground is not all Air")
		}
	}
	for _, bt := range c.Background.BlockType {
		if bt != chunk.Air {
			t.Fatalf("background is not all Air")
		}
	}
}
