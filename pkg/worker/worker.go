// Package worker runs the dedicated background chunk generator per
// dimension: it drains batched requests off one channel and publishes
// results on another.
package worker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shardwell/worldcore/pkg/biome"
	"github.com/shardwell/worldcore/pkg/chunk"
	"github.com/shardwell/worldcore/pkg/logging"
	"github.com/shardwell/worldcore/pkg/noise"
	"github.com/shardwell/worldcore/pkg/worldgen"
)

var log = logging.With("worker")

// ParallelChunkgenThreshold is the batch size at or above which a batch is
// generated data-parallel via errgroup instead of sequentially.
const ParallelChunkgenThreshold = 4

// Request is either a chunk generation request or a throughput test sweep.
type Request struct {
	ChunkPos  [2]int32
	IsTest    bool
	TestLimit int
}

// ChunkRequest builds a Request for a single chunk coordinate.
func ChunkRequest(pos [2]int32) Request { return Request{ChunkPos: pos} }

// TestRequest builds a Request that sweeps limit chunks for throughput
// measurement without publishing results.
func TestRequest(limit int) Request { return Request{IsTest: true, TestLimit: limit} }

// Result pairs a generated Chunk with the coordinate it was generated for.
type Result struct {
	ChunkPos [2]int32
	Chunk    *chunk.Chunk
}

// Worker owns the sampler and biome registry for one dimension and
// generates chunks off its request channel, publishing to its result
// channel. Exactly one Worker runs per Dimension, on its own goroutine.
type Worker struct {
	requests chan Request
	results  chan Result

	sampler  *noise.Sampler
	registry *biome.Registry
	heights  *worldgen.BakedHeightsCache
}

// New constructs a Worker and starts its goroutine. The caller owns
// sending on requests and receiving from Results(); closing requests
// causes an orderly shutdown.
func New(sampler *noise.Sampler, registry *biome.Registry, requestBuffer int) *Worker {
	w := &Worker{
		requests: make(chan Request, requestBuffer),
		results:  make(chan Result, requestBuffer),
		sampler:  sampler,
		registry: registry,
		heights:  &worldgen.BakedHeightsCache{},
	}
	go w.run()
	return w
}

// Requests returns the send-only channel for enqueuing requests.
func (w *Worker) Requests() chan<- Request { return w.requests }

// Results returns the receive-only channel of generated chunks.
func (w *Worker) Results() <-chan Result { return w.results }

func (w *Worker) run() {
	for {
		req, ok := <-w.requests
		if !ok {
			log.Info("request channel closed, worker exiting")
			return
		}

		batch := []Request{req}
	drain:
		for {
			select {
			case r, ok := <-w.requests:
				if !ok {
					break drain
				}
				batch = append(batch, r)
			default:
				break drain
			}
		}

		w.dispatch(batch)
	}
}

func (w *Worker) dispatch(batch []Request) {
	var chunkReqs []Request
	for _, r := range batch {
		if r.IsTest {
			w.runTest(r.TestLimit)
			continue
		}
		chunkReqs = append(chunkReqs, r)
	}
	if len(chunkReqs) == 0 {
		return
	}

	if len(chunkReqs) >= ParallelChunkgenThreshold {
		w.generateParallel(chunkReqs)
	} else {
		w.generateSequential(chunkReqs)
	}
}

func (w *Worker) generateSequential(reqs []Request) {
	for _, r := range reqs {
		c := worldgen.Generate(r.ChunkPos, w.sampler, w.registry, w.heights)
		w.results <- Result{ChunkPos: r.ChunkPos, Chunk: c}
	}
}

func (w *Worker) generateParallel(reqs []Request) {
	results := make([]*chunk.Chunk, len(reqs))
	g, _ := errgroup.WithContext(context.Background())
	for i, r := range reqs {
		i, r := i, r
		g.Go(func() error {
			results[i] = worldgen.Generate(r.ChunkPos, w.sampler, w.registry, w.heights)
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range reqs {
		w.results <- Result{ChunkPos: r.ChunkPos, Chunk: results[i]}
	}
}

// runTest sweeps limit chunks, x in [0,99] wrapping y, logging elapsed
// totals and per-block timings. It publishes nothing to the result
// channel.
func (w *Worker) runTest(limit int) {
	start := time.Now()
	var totalBlocks int
	x, y := 0, 0
	for i := 0; i < limit; i++ {
		c := worldgen.Generate([2]int32{int32(x), int32(y)}, w.sampler, w.registry, w.heights)
		totalBlocks += c.TotalBlockCount
		x++
		if x > 99 {
			x = 0
			y++
		}
	}
	elapsed := time.Since(start)
	var perBlock time.Duration
	if totalBlocks > 0 {
		perBlock = elapsed / time.Duration(totalBlocks)
	}
	log.Info("chunk generation speed test complete",
		"limit", limit, "elapsed", elapsed, "total_blocks", totalBlocks, "per_block", perBlock)
}
