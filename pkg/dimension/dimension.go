// Package dimension manages one world's resident chunk map, streaming
// window, and the background worker that fills it.
package dimension

import (
	"github.com/google/uuid"

	"github.com/shardwell/worldcore/pkg/biome"
	"github.com/shardwell/worldcore/pkg/chunk"
	"github.com/shardwell/worldcore/pkg/logging"
	"github.com/shardwell/worldcore/pkg/noise"
	"github.com/shardwell/worldcore/pkg/worker"
)

var log = logging.With("dimension")

// StreamingWindowRadius is the half-extent of the fixed 5x5 square window
// centred on the origin: load_chunks covers [-2,2] in both axes.
const StreamingWindowRadius = 2

const requestBuffer = 64

// Dimension owns one world's chunk map, in-flight dedup set, and its
// dedicated worker goroutine. ID is an opaque identifier suitable for
// cross-process correlation (logs, session tracking at the packet
// boundary); it plays no role in generation itself.
type Dimension struct {
	ID   uuid.UUID
	Name string
	SizeX, SizeY uint32

	chunks   map[[2]int32]*chunk.Chunk
	inFlight map[[2]int32]bool

	worker *worker.Worker
}

// New constructs a Dimension from a decoded schema and its biomes, seeding
// the noise sampler and starting the worker goroutine.
func New(schema Schema, biomes []*biome.Biome, seed int64) *Dimension {
	var horizVar, vertVar uint8
	if adj := schema.BiomeMapAdjustments; adj != nil {
		horizVar = adj.HorizontalTemperatureVariation
		vertVar = adj.VerticalTemperatureVariation
	}

	sampler := noise.NewSampler(seed, [2]uint32{schema.SizeX, schema.SizeY}, horizVar, vertVar)
	registry := biome.NewRegistry(biomes)

	d := &Dimension{
		ID:       uuid.New(),
		Name:     schema.Name,
		SizeX:    schema.SizeX,
		SizeY:    schema.SizeY,
		chunks:   make(map[[2]int32]*chunk.Chunk),
		inFlight: make(map[[2]int32]bool),
		worker:   worker.New(sampler, registry, requestBuffer),
	}
	log.Info("dimension created", "name", d.Name, "id", d.ID, "seed", seed)
	return d
}

// LoadChunks walks the fixed 5x5 streaming window centred on the origin,
// requesting every coordinate that isn't already resident or in flight.
func (d *Dimension) LoadChunks() {
	for y := -StreamingWindowRadius; y <= StreamingWindowRadius; y++ {
		for x := -StreamingWindowRadius; x <= StreamingWindowRadius; x++ {
			d.TryLoadChunk([2]int32{int32(x), int32(y)})
		}
	}
}

// TryLoadChunk enqueues pos for generation unless it's out of bounds,
// already resident, or already in flight.
func (d *Dimension) TryLoadChunk(pos [2]int32) {
	if d.outOfBounds(pos) {
		return
	}
	if _, ok := d.chunks[pos]; ok {
		return
	}
	if d.inFlight[pos] {
		return
	}

	d.inFlight[pos] = true
	d.worker.Requests() <- worker.ChunkRequest(pos)
}

func (d *Dimension) outOfBounds(pos [2]int32) bool {
	halfX := int64(d.SizeX) / 2
	halfY := int64(d.SizeY) / 2
	x, y := int64(pos[0]), int64(pos[1])
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	return x >= halfX || y >= halfY
}

// ReceiveChunks non-blockingly drains every result currently available,
// moving each into the resident chunk map and clearing its in-flight
// entry. Returns the positions that newly became resident.
func (d *Dimension) ReceiveChunks() [][2]int32 {
	var landed [][2]int32
	for {
		select {
		case res, ok := <-d.worker.Results():
			if !ok {
				// The worker is only ever stopped by closing its request
				// channel ourselves, which we never do while the
				// dimension is alive; a closed result channel means the
				// worker goroutine died unexpectedly. Fatal, matching the
				// documented crash-on-invariant-violation policy.
				log.Fatal("result channel closed while worker should be alive", "dimension", d.Name)
			}
			d.chunks[res.ChunkPos] = res.Chunk
			delete(d.inFlight, res.ChunkPos)
			landed = append(landed, res.ChunkPos)
		default:
			return landed
		}
	}
}

// Chunk returns the resident chunk at pos, if any.
func (d *Dimension) Chunk(pos [2]int32) (*chunk.Chunk, bool) {
	c, ok := d.chunks[pos]
	return c, ok
}

// ChunkLoadSpeedTest forwards a throughput sweep of limit chunks to the
// worker; it produces no resident chunks or results.
func (d *Dimension) ChunkLoadSpeedTest(limit int) {
	d.worker.Requests() <- worker.TestRequest(limit)
}
